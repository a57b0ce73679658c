package threshold

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/burrowvirt/burrow/pkg/events"
	"github.com/burrowvirt/burrow/pkg/log"
	"github.com/burrowvirt/burrow/pkg/metrics"
)

// ErrImprobableResize is returned when a guest requests an extension far
// beyond the next expected volume size, which indicates a corrupt or
// malicious image rather than normal growth.
var ErrImprobableResize = errors.New("improbable volume resize request")

// State tracks whether a block threshold is armed on a drive.
type State string

const (
	// StateUnset means no threshold is armed; it must be set on the next
	// monitoring cycle.
	StateUnset State = "unset"

	// StateSet means a threshold is armed and no event arrived yet.
	StateSet State = "set"

	// StateExceeded means the threshold was crossed and the drive waits
	// for a volume extension.
	StateExceeded State = "exceeded"
)

// Drive is a thin-provisioned drive tracked by the monitor.
type Drive struct {
	// Name is the guest device name (vda, sdb).
	Name string

	// Path is the host block device path backing the top layer.
	Path string

	// WatermarkLimit is the minimum free space the drive must keep. When
	// physical - allocation falls below it, the volume must be extended.
	WatermarkLimit uint64

	// ChunkSize is the extension granularity in bytes.
	ChunkSize uint64

	// MaxSize is the upper bound the volume may grow to.
	MaxSize uint64

	State State
}

// Hypervisor is the boundary to the hypervisor block-threshold call.
type Hypervisor interface {
	// SetBlockThreshold arms an event on the device; threshold 0 disarms.
	SetBlockThreshold(device string, threshold uint64) error
}

// Monitor tracks the allocation of thin-provisioned drives and decides when
// their volumes must be extended.
type Monitor struct {
	hypervisor Hypervisor

	mu      sync.Mutex
	enabled bool
	drives  map[string]*Drive

	broker *events.Broker
	logger zerolog.Logger
}

// NewMonitor creates an enabled monitor over the given hypervisor boundary.
func NewMonitor(hv Hypervisor) *Monitor {
	return &Monitor{
		hypervisor: hv,
		enabled:    true,
		drives:     make(map[string]*Drive),
		logger:     log.WithComponent("threshold"),
	}
}

// SetEventBroker makes the monitor publish threshold events on the given
// broker in addition to logging them.
func (m *Monitor) SetEventBroker(broker *events.Broker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broker = broker
}

func (m *Monitor) publishExceeded(drive *Drive) {
	m.mu.Lock()
	broker := m.broker
	m.mu.Unlock()
	if broker == nil {
		return
	}
	broker.Publish(events.New(events.EventThresholdExceeded,
		"drive needs volume extension",
		map[string]string{"drive": drive.Name, "path": drive.Path}))
}

// Enable turns drive monitoring on.
func (m *Monitor) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
	m.logger.Info().Msg("enabling drive monitoring")
}

// Disable turns drive monitoring off.
func (m *Monitor) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
	m.logger.Info().Msg("disabling drive monitoring")
}

// Enabled reports whether monitoring is on.
func (m *Monitor) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// AddDrive registers a drive for monitoring.
func (m *Monitor) AddDrive(drive *Drive) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if drive.State == "" {
		drive.State = StateUnset
	}
	m.drives[drive.Name] = drive
}

// RemoveDrive unregisters a drive.
func (m *Monitor) RemoveDrive(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drives, name)
}

// MonitoringNeeded reports whether any registered drive needs a check in
// this monitoring cycle.
func (m *Monitor) MonitoringNeeded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled && len(m.drives) > 0
}

// SetThreshold arms the hypervisor block threshold for a drive, given the
// current apparent size of its top volume. Call it when monitoring of a
// drive starts, after a volume extension, or when the top layer changes.
func (m *Monitor) SetThreshold(drive *Drive, apparentSize uint64) error {
	// The free space the drive must keep determines the trigger point:
	// extend when allocation > physical - limit, so arm the event at
	// physical - limit. 1 is the minimum meaningful threshold; 0 would
	// disarm the event.
	threshold := uint64(1)
	if apparentSize > drive.WatermarkLimit {
		threshold = apparentSize - drive.WatermarkLimit
	}

	m.logger.Info().
		Str("drive", drive.Name).
		Uint64("threshold", threshold).
		Uint64("apparent_size", apparentSize).
		Msg("setting block threshold")

	if err := m.hypervisor.SetBlockThreshold(drive.Name, threshold); err != nil {
		// Leaving the state unset makes the next cycle retry.
		m.setState(drive, StateUnset)
		return fmt.Errorf("failed to set block threshold on %s: %w", drive.Name, err)
	}

	m.setState(drive, StateSet)
	return nil
}

// ClearThreshold disarms the block threshold event for a drive.
func (m *Monitor) ClearThreshold(drive *Drive) error {
	m.logger.Info().Str("drive", drive.Name).Msg("clearing block threshold")
	if err := m.hypervisor.SetBlockThreshold(drive.Name, 0); err != nil {
		return fmt.Errorf("failed to clear block threshold on %s: %w", drive.Name, err)
	}
	return nil
}

// OnBlockThreshold handles a hypervisor threshold event for the named
// device. Events for unknown drives are ignored.
func (m *Monitor) OnBlockThreshold(device, path string, threshold, excess uint64) {
	metrics.ThresholdEventsTotal.Inc()

	m.mu.Lock()
	drive, ok := m.drives[device]
	m.mu.Unlock()

	if !ok {
		m.logger.Warn().
			Str("drive", device).
			Msg("ignoring block threshold event for unknown drive")
		return
	}

	if drive.Path != path {
		// Event for a backing-chain element that is no longer the top
		// layer; arming will happen again after the chain settles.
		m.logger.Warn().
			Str("drive", device).
			Str("event_path", path).
			Str("drive_path", drive.Path).
			Msg("ignoring block threshold event for stale path")
		return
	}

	m.logger.Info().
		Str("drive", device).
		Uint64("threshold", threshold).
		Uint64("excess", excess).
		Msg("block threshold exceeded")
	m.setState(drive, StateExceeded)
	m.publishExceeded(drive)
}

// ShouldExtendVolume decides whether a drive's top volume must be extended,
// given the volume capacity, the guest-visible allocation, and the current
// physical size.
func (m *Monitor) ShouldExtendVolume(drive *Drive, capacity, alloc, physical uint64) (bool, error) {
	nextPhysSize := m.nextVolumeSize(drive, physical, capacity)

	// A faulty image can trick the guest into requesting an extremely
	// large extension. Allocation past the next volume size cannot happen
	// with one-chunk-at-a-time growth.
	if alloc > nextPhysSize {
		m.logger.Error().
			Str("drive", drive.Name).
			Uint64("capacity", capacity).
			Uint64("alloc", alloc).
			Uint64("physical", physical).
			Uint64("next_physical", nextPhysSize).
			Msg("improbable extension request")
		return false, fmt.Errorf("drive %s (capacity=%d alloc=%d physical=%d): %w",
			drive.Name, capacity, alloc, physical, ErrImprobableResize)
	}

	// physical may exceed the maximum since it is rounded up to the next
	// lvm extent.
	if physical >= m.maxVolumeSize(drive, capacity) {
		return false, nil
	}

	return physical-alloc < drive.WatermarkLimit, nil
}

// MarkExceeded forces a drive into the exceeded state. Used when a
// monitoring cycle finds the threshold already crossed: the armed event may
// never fire if it was set below the current allocation.
func (m *Monitor) MarkExceeded(drive *Drive) {
	if drive.State == StateExceeded || !m.Enabled() {
		return
	}
	m.logger.Info().
		Str("drive", drive.Name).
		Msg("drive needs extension, forcing threshold state to exceeded")
	m.setState(drive, StateExceeded)
	m.publishExceeded(drive)
}

// ExceededDrives returns the drives currently waiting for extension.
func (m *Monitor) ExceededDrives() []*Drive {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Drive
	for _, drive := range m.drives {
		if drive.State == StateExceeded {
			out = append(out, drive)
		}
	}
	return out
}

func (m *Monitor) setState(drive *Drive, state State) {
	m.mu.Lock()
	drive.State = state
	exceeded := 0
	for _, d := range m.drives {
		if d.State == StateExceeded {
			exceeded++
		}
	}
	m.mu.Unlock()
	metrics.DrivesExceeded.Set(float64(exceeded))
}

// nextVolumeSize returns the physical size after one chunk extension,
// bounded by the maximum volume size.
func (m *Monitor) nextVolumeSize(drive *Drive, physical, capacity uint64) uint64 {
	next := physical + drive.ChunkSize
	if maxSize := m.maxVolumeSize(drive, capacity); next > maxSize {
		next = maxSize
	}
	return next
}

// maxVolumeSize returns the upper bound the volume may grow to.
func (m *Monitor) maxVolumeSize(drive *Drive, capacity uint64) uint64 {
	if drive.MaxSize > 0 {
		return drive.MaxSize
	}
	return capacity
}
