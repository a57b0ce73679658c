package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/burrowvirt/burrow/pkg/config"
	"github.com/burrowvirt/burrow/pkg/events"
	"github.com/burrowvirt/burrow/pkg/health"
	"github.com/burrowvirt/burrow/pkg/inventory"
	"github.com/burrowvirt/burrow/pkg/log"
	"github.com/burrowvirt/burrow/pkg/lvm"
	"github.com/burrowvirt/burrow/pkg/metrics"
	"github.com/burrowvirt/burrow/pkg/multipath"
	"github.com/burrowvirt/burrow/pkg/types"
)

const (
	inventoryInterval   = 5 * time.Minute
	deviceWatchInterval = 30 * time.Second
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the storage control agent",
	Long: `Run the Burrow agent on this node.

The agent starts in shared locking mode; the platform switches it to
exclusive mode when this node is elected storage pool master. While running
it serves Prometheus metrics and health checks, watches the multipath device
view, and periodically persists the storage inventory it observes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		mode, _ := cmd.Flags().GetString("mode")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		log.Init(log.Config{
			Level:      log.Level(cfg.Log.Level),
			JSONOutput: cfg.Log.JSON,
			Output:     os.Stdout,
		})
		logger := log.WithComponent("agent")

		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}

		devices := multipath.New()
		cache, err := lvm.NewCache(lvm.CacheConfig{
			LVMPath:         cfg.LVM.Path,
			Devices:         devices,
			UserDevices:     cfg.LVM.UserDevices,
			MaxCommands:     cfg.LVM.MaxCommands,
			ReadOnlyRetries: cfg.LVM.ReadOnlyRetries,
			RetryDelay:      cfg.LVM.RetryDelay.Std(),
		})
		if err != nil {
			return fmt.Errorf("failed to create command cache: %w", err)
		}

		switch mode {
		case "exclusive":
			cache.SetMode(lvm.LockExclusive)
		case "shared":
			cache.SetMode(lvm.LockShared)
		default:
			return fmt.Errorf("invalid mode %q: must be exclusive or shared", mode)
		}

		store, err := inventory.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		broker := events.NewBroker()
		broker.Start()
		defer broker.Stop()

		checks := health.NewRegistry()
		checks.Register(health.NewLVMCheck(cfg.LVM.Path, nil))
		checks.Register(&health.DeviceDirCheck{Dir: multipath.DefaultDeviceDir})
		checks.Register(&health.DataDirCheck{Dir: cfg.DataDir})

		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/healthz", checks.Handler())
		server := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics and health")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go eventLoop(ctx, broker)
		go deviceWatchLoop(ctx, devices, cache, broker)
		go inventoryLoop(ctx, lvm.NewManager(cache), store, broker)

		logger.Info().
			Str("version", Version).
			Str("mode", cache.Mode().String()).
			Msg("agent started")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	},
}

// eventLoop logs every published agent event.
func eventLoop(ctx context.Context, broker *events.Broker) {
	logger := log.WithComponent("events")

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-sub:
			if !ok {
				return
			}
			logger.Info().
				Str("event_id", event.ID).
				Str("type", string(event.Type)).
				Fields(map[string]any{"metadata": event.Metadata}).
				Msg(event.Message)
		}
	}
}

// deviceWatchLoop polls the multipath device view and invalidates the cached
// filter when devices appear or disappear, so the next command picks up the
// change without first failing against a stale filter.
func deviceWatchLoop(ctx context.Context, devices *multipath.Enumerator, cache *lvm.Cache, broker *events.Broker) {
	logger := log.WithComponent("device-watch")

	var last []string
	first := true

	ticker := time.NewTicker(deviceWatchInterval)
	defer ticker.Stop()

	for {
		current, err := devices.Devices()
		if err != nil {
			logger.Warn().Err(err).Msg("device scan failed")
		} else {
			if !first && !slices.Equal(current, last) {
				logger.Info().
					Int("devices", len(current)).
					Msg("device view changed, invalidating filter")
				cache.InvalidateFilter()
				broker.Publish(events.New(events.EventDevicesChanged,
					"device view changed",
					map[string]string{"devices": strconv.Itoa(len(current))}))
			}
			last = current
			first = false
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// inventoryLoop periodically scans the storage objects visible to this host
// and persists them for offline inspection.
func inventoryLoop(ctx context.Context, mgr *lvm.Manager, store *inventory.Store, broker *events.Broker) {
	logger := log.WithComponent("inventory")

	ticker := time.NewTicker(inventoryInterval)
	defer ticker.Stop()

	for {
		if err := scanInventory(ctx, mgr, store, broker); err != nil {
			logger.Warn().Err(err).Msg("inventory scan failed")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func scanInventory(ctx context.Context, mgr *lvm.Manager, store *inventory.Store, broker *events.Broker) error {
	vgs, err := mgr.ListVGs(ctx)
	if err != nil {
		return err
	}
	lvs, err := mgr.ListLVs(ctx, "")
	if err != nil {
		return err
	}
	pvs, err := mgr.ListPVs(ctx)
	if err != nil {
		return err
	}

	var devices []string
	for _, pv := range pvs {
		devices = append(devices, pv.Name)
	}

	if err := store.Save(&types.InventorySnapshot{
		TakenAt:         time.Now().UTC(),
		Devices:         devices,
		VolumeGroups:    vgs,
		LogicalVolumes:  lvs,
		PhysicalVolumes: pvs,
	}); err != nil {
		return err
	}

	broker.Publish(events.New(events.EventInventorySaved, "inventory persisted",
		map[string]string{
			"volume_groups":   strconv.Itoa(len(vgs)),
			"logical_volumes": strconv.Itoa(len(lvs)),
		}))
	return nil
}

func init() {
	runCmd.Flags().String("config", "", "Path to the agent configuration file")
	runCmd.Flags().String("mode", "shared", "Initial locking mode (exclusive or shared)")
}
