package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LVM command metrics
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_lvm_commands_total",
			Help: "Total number of lvm command invocations by locking mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	CommandRetriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_lvm_command_retries_total",
			Help: "Total number of read-only command retries caused by concurrent writers",
		},
	)

	StaleFilterRebuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_lvm_stale_filter_rebuilds_total",
			Help: "Total number of device filter rebuilds triggered by a stale filter",
		},
	)

	CommandsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_lvm_commands_in_flight",
			Help: "Number of lvm commands currently executing",
		},
	)

	CommandDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "burrow_lvm_command_duration_seconds",
			Help:    "Wall-clock duration of logical lvm commands including retries",
			Buckets: prometheus.DefBuckets,
		},
	)

	ModeSwitchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_lvm_mode_switches_total",
			Help: "Total number of locking mode switches by target mode",
		},
		[]string{"mode"},
	)

	// Device view metrics
	DeviceScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_device_scans_total",
			Help: "Total number of host device enumerations by outcome",
		},
		[]string{"outcome"},
	)

	DevicesVisible = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_devices_visible",
			Help: "Number of multipath devices visible to this host at the last scan",
		},
	)

	// Drive threshold metrics
	ThresholdEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_drive_threshold_events_total",
			Help: "Total number of drive block-threshold events received",
		},
	)

	DrivesExceeded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_drives_exceeded",
			Help: "Number of drives currently past their block threshold",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(CommandRetriesTotal)
	prometheus.MustRegister(StaleFilterRebuildsTotal)
	prometheus.MustRegister(CommandsInFlight)
	prometheus.MustRegister(CommandDuration)
	prometheus.MustRegister(ModeSwitchesTotal)
	prometheus.MustRegister(DeviceScansTotal)
	prometheus.MustRegister(DevicesVisible)
	prometheus.MustRegister(ThresholdEventsTotal)
	prometheus.MustRegister(DrivesExceeded)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
