package lvm

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/burrowvirt/burrow/pkg/log"
	"github.com/burrowvirt/burrow/pkg/metrics"
)

const (
	// DefaultLVMPath is the lvm binary invoked for every command.
	DefaultLVMPath = "/usr/sbin/lvm"

	// DefaultMaxCommands bounds the number of lvm processes running at the
	// same time from this host.
	DefaultMaxCommands = 10

	// DefaultReadOnlyRetries is the number of extra attempts a shared-mode
	// command gets when it keeps failing with a correct filter. The
	// storage pool master may be holding the lock for a while, so commands
	// on other hosts need bounded patience.
	DefaultReadOnlyRetries = 25

	// DefaultRetryDelay is the sleep between shared-mode attempts.
	DefaultRetryDelay = 10 * time.Millisecond
)

// CacheConfig configures a command cache.
type CacheConfig struct {
	// LVMPath is the lvm binary path (default: DefaultLVMPath).
	LVMPath string

	// Devices reports the block devices visible to this host. Required.
	Devices DeviceLister

	// Runner executes external commands (default: NewRunner()).
	Runner Runner

	// UserDevices are statically configured devices merged into every
	// filter in addition to the live device view.
	UserDevices []string

	// MaxCommands bounds concurrent lvm processes (default: DefaultMaxCommands).
	MaxCommands int

	// ReadOnlyRetries bounds shared-mode retries (default: DefaultReadOnlyRetries).
	ReadOnlyRetries int

	// RetryDelay is the sleep between shared-mode attempts (default: DefaultRetryDelay).
	RetryDelay time.Duration
}

// Cache owns the lvm configuration built from the host device view and runs
// lvm commands with it, coordinating the node-wide locking mode.
//
// The configuration text is built lazily on the first command and cached
// until it is invalidated, proven stale against the live device view, or the
// locking mode changes. Changing the mode drains all in-flight commands
// before any new command observes the new mode, so a command never runs with
// a configuration built under one mode while the node already switched to
// the other.
type Cache struct {
	lvmPath         string
	devices         DeviceLister
	runner          Runner
	userDevices     []string
	readOnlyRetries int
	retryDelay      time.Duration

	// sem bounds concurrent process invocations. It is a pure counting
	// resource, independent of the locking mode.
	sem *semaphore.Weighted

	// mu guards the fields below. It is held only for state reads and
	// updates, never across process execution.
	mu        sync.Mutex
	cond      *sync.Cond
	mode      LockingMode
	switching bool
	inflight  int
	snapshot  []string // normalized device view the cached config was built from
	config    string   // cached --config text, "" when invalid

	logger zerolog.Logger
}

// NewCache creates a command cache in exclusive mode.
func NewCache(cfg CacheConfig) (*Cache, error) {
	if cfg.Devices == nil {
		return nil, errors.New("device lister is required")
	}

	if cfg.LVMPath == "" {
		cfg.LVMPath = DefaultLVMPath
	}
	if cfg.Runner == nil {
		cfg.Runner = NewRunner()
	}
	if cfg.MaxCommands <= 0 {
		cfg.MaxCommands = DefaultMaxCommands
	}
	if cfg.ReadOnlyRetries <= 0 {
		cfg.ReadOnlyRetries = DefaultReadOnlyRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	c := &Cache{
		lvmPath:         cfg.LVMPath,
		devices:         cfg.Devices,
		runner:          cfg.Runner,
		userDevices:     NormalizeDevices(cfg.UserDevices),
		readOnlyRetries: cfg.ReadOnlyRetries,
		retryDelay:      cfg.RetryDelay,
		sem:             semaphore.NewWeighted(int64(cfg.MaxCommands)),
		mode:            LockExclusive,
		logger:          log.WithComponent("lvm"),
	}
	c.cond = sync.NewCond(&c.mu)

	return c, nil
}

// Mode returns the current stable locking mode.
func (c *Cache) Mode() LockingMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetMode switches the node to the given locking mode. It blocks new
// commands, waits until every in-flight command completed under the old
// mode, invalidates the cached configuration, and only then admits new
// commands under the new mode. No-op if the mode is unchanged.
func (c *Cache) SetMode(mode LockingMode) {
	c.mu.Lock()

	// Only one switch at a time.
	for c.switching {
		c.cond.Wait()
	}

	if c.mode == mode {
		c.mu.Unlock()
		return
	}

	c.switching = true
	for c.inflight > 0 {
		c.cond.Wait()
	}

	// The locking type is part of the cached configuration.
	c.snapshot = nil
	c.config = ""
	c.mode = mode
	c.switching = false
	c.cond.Broadcast()
	c.mu.Unlock()

	metrics.ModeSwitchesTotal.WithLabelValues(mode.String()).Inc()
	c.logger.Info().Str("mode", mode.String()).Msg("switched locking mode")
}

// InvalidateFilter drops the cached configuration. The next command rebuilds
// it from the live device view.
func (c *Cache) InvalidateFilter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snapshot = nil
	c.config = ""
}

// enter blocks while a mode switch is draining, then registers one in-flight
// command and returns the mode it must run under.
func (c *Cache) enter() LockingMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.switching {
		c.cond.Wait()
	}
	c.inflight++
	metrics.CommandsInFlight.Inc()
	return c.mode
}

// leave unregisters an in-flight command, waking a pending mode switch once
// the last command drains.
func (c *Cache) leave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--
	metrics.CommandsInFlight.Dec()
	if c.switching && c.inflight == 0 {
		c.cond.Broadcast()
	}
}

// liveDevices returns the normalized live device view. Failures propagate:
// treating them as an empty device set would build a reject-everything
// filter and hide every storage domain on this host.
func (c *Cache) liveDevices() ([]string, error) {
	devs, err := c.devices.Devices()
	if err != nil {
		metrics.DeviceScansTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("cannot list host devices: %w", err)
	}
	metrics.DeviceScansTotal.WithLabelValues("success").Inc()
	norm := NormalizeDevices(devs)
	metrics.DevicesVisible.Set(float64(len(norm)))
	return norm, nil
}

// currentConfig returns the cached configuration text and the device
// snapshot it was built from, building both from the live device view when
// no valid entry exists. Two commands racing after an invalidation may both
// build; the text is a pure function of its inputs, so keeping either result
// is correct.
func (c *Cache) currentConfig(mode LockingMode) (string, []string, error) {
	c.mu.Lock()
	if c.config != "" {
		cfg, snap := c.config, c.snapshot
		c.mu.Unlock()
		return cfg, snap, nil
	}
	c.mu.Unlock()

	live, err := c.liveDevices()
	if err != nil {
		return "", nil, err
	}

	filter := BuildFilter(append(slices.Clone(live), c.userDevices...))
	cfg := BuildConfig(filter, mode)

	c.mu.Lock()
	c.config = cfg
	c.snapshot = live
	c.mu.Unlock()

	return cfg, live, nil
}

// buildCommand composes the full argument list for one lvm invocation,
// injecting the configuration text after the lvm subcommand.
func (c *Cache) buildCommand(args []string, config string) []string {
	cmd := make([]string, 0, len(args)+3)
	cmd = append(cmd, c.lvmPath, args[0], "--config", config)
	cmd = append(cmd, args[1:]...)
	return cmd
}

// runOnce executes a single attempt under the concurrency gate. The gate
// slot is released on every exit path.
func (c *Cache) runOnce(ctx context.Context, argv []string) (*CommandResult, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.sem.Release(1)
	return c.runner.Run(ctx, argv, true)
}

// RunCommand runs one logical lvm command under the current locking mode,
// applying the staleness and retry policy:
//
//   - A failure with a filter that no longer matches the live device view is
//     attributed to the stale filter. The configuration is rebuilt and the
//     command retried once, in both modes, without consuming the read-only
//     retry budget.
//   - In exclusive mode a failure with a correct filter is authoritative and
//     returned immediately.
//   - In shared mode a correct filter does not exempt the command from
//     transient failures caused by the master writing concurrently, so the
//     identical command is retried with a fixed delay up to the configured
//     budget.
//
// The returned result carries the final attempt's exit status and output. An
// error is returned only for infrastructure failures: an unavailable device
// view, a cancelled context, or a command that could not be spawned.
func (c *Cache) RunCommand(ctx context.Context, args []string) (*CommandResult, error) {
	if len(args) == 0 {
		return nil, errors.New("empty lvm command")
	}

	timer := metrics.NewTimer()
	cmdID := uuid.NewString()
	logger := c.logger.With().Str("command_id", cmdID).Str("lvm_cmd", args[0]).Logger()

	mode := c.enter()
	defer c.leave()

	res, err := c.runPolicy(ctx, logger, mode, args)

	timer.ObserveDuration(metrics.CommandDuration)
	outcome := "error"
	if err == nil {
		if res.Ok() {
			outcome = "success"
		} else {
			outcome = "failure"
		}
	}
	metrics.CommandsTotal.WithLabelValues(mode.String(), outcome).Inc()

	return res, err
}

func (c *Cache) runPolicy(ctx context.Context, logger zerolog.Logger, mode LockingMode, args []string) (*CommandResult, error) {
	config, snapshot, err := c.currentConfig(mode)
	if err != nil {
		return nil, err
	}

	res, err := c.runOnce(ctx, c.buildCommand(args, config))
	if err != nil {
		return nil, err
	}
	if res.Ok() {
		return res, nil
	}

	// The failure may be caused by a filter built before a device was
	// added to or removed from this host. Compare the snapshot the filter
	// was built from against the live view, and if they differ, rebuild
	// and retry once. This check happens at most once per command.
	live, err := c.liveDevices()
	if err != nil {
		return nil, err
	}
	if !slices.Equal(live, snapshot) {
		logger.Warn().
			Int("exit_code", res.ExitCode).
			Msg("command failed with stale device filter, retrying with fresh filter")
		metrics.StaleFilterRebuildsTotal.Inc()

		c.InvalidateFilter()
		config, _, err = c.currentConfig(mode)
		if err != nil {
			return nil, err
		}

		res, err = c.runOnce(ctx, c.buildCommand(args, config))
		if err != nil {
			return nil, err
		}
		if res.Ok() {
			return res, nil
		}
	}

	if mode == LockExclusive {
		// This host holds the pool lock, so no concurrent writer can
		// explain the failure. Retrying cannot help.
		return res, nil
	}

	// Without the lock, a writer on the master legitimately causes
	// transient read failures. Retry the identical command until the
	// budget runs out. Attempts after the filter is known fresh count
	// against the budget; the stale attempt above does not.
	argv := c.buildCommand(args, config)
	for attempt := 1; attempt <= c.readOnlyRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}

		logger.Debug().
			Int("attempt", attempt).
			Int("exit_code", res.ExitCode).
			Msg("retrying read-only command")
		metrics.CommandRetriesTotal.Inc()

		res, err = c.runOnce(ctx, argv)
		if err != nil {
			return nil, err
		}
		if res.Ok() {
			return res, nil
		}
	}

	logger.Error().
		Int("exit_code", res.ExitCode).
		Int("retries", c.readOnlyRetries).
		Msg("read-only command failed after all retries")
	return res, nil
}
