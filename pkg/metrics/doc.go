/*
Package metrics defines and registers the Prometheus metrics of the Burrow
agent and exposes them over HTTP.

All metrics are registered on the default registry at package init and served
through the standard promhttp handler, so the agent also exports the Go
runtime metrics for free.

# Metric Groups

LVM command metrics cover the command cache: invocations by locking mode and
outcome, read-only retries, stale filter rebuilds, in-flight commands, the
per-command wall-clock duration including retries, and locking mode switches.

Device view metrics track host device enumeration: scans by outcome and the
number of multipath devices visible at the last scan.

Drive threshold metrics track thin-provisioned drive monitoring: received
block-threshold events and the drives currently waiting for extension.

# Usage

	timer := metrics.NewTimer()
	res, err := cache.RunCommand(ctx, args)
	timer.ObserveDuration(metrics.CommandDuration)
	metrics.CommandsTotal.WithLabelValues(mode, outcome).Inc()

The Timer helper measures elapsed time for histogram observations without
tying the call site to a specific histogram.
*/
package metrics
