/*
Package log provides structured logging for Burrow using zerolog.

The log package wraps the zerolog library to provide JSON-structured logging
with component-specific loggers, configurable log levels, and helper functions
for common logging patterns. All logs include timestamps and support filtering
by severity level for production debugging.

# Usage

Initializing the logger:

	log.Init(log.Config{
		Level:      log.InfoLevel,
		JSONOutput: true,
		Output:     os.Stdout,
	})

Simple logging:

	log.Info("agent started")
	log.Error("device scan failed")

Structured logging:

	log.Logger.Info().
		Str("vg_name", "pool-0012").
		Int("lv_count", 34).
		Msg("volume group refreshed")

Component loggers:

	lvmLog := log.WithComponent("lvm")
	lvmLog.Debug().Str("command_id", id).Msg("running lvm command")

	vgLog := log.WithVG("pool-0012")
	vgLog.Warn().Msg("volume group metadata low on free space")

# Design Patterns

Global Logger Pattern:
  - Single package-level Logger instance
  - Initialized once at application start
  - Accessible from all packages without passing

Context Logger Pattern:
  - Create child loggers with context fields (component, vg_name, lv_name)
  - Automatically includes context in all logs
  - Avoids repetitive field specification

Error Logging Pattern:
  - Always use .Err(err) for error objects
  - Consistent error format across the codebase

# Integration Points

This package integrates with:

  - pkg/lvm: logs command execution, retries, and mode switches
  - pkg/multipath: logs device enumeration
  - pkg/threshold: logs block-threshold events
  - pkg/inventory: logs persisted inventory updates
  - cmd/burrow: initializes the logger from agent configuration
*/
package log
