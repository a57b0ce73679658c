package lvm

import "fmt"

// configTemplate is the lvm --config blob. The layout is parsed by the lvm
// binary and is whitespace sensitive; do not reformat.
const configTemplate = `devices { ` +
	` preferred_names=["^/dev/mapper/"] ` +
	` ignore_suspended_devices=1 ` +
	` write_cache_state=0 ` +
	` disable_after_error_count=3 ` +
	` filter=%s ` +
	`} ` +
	`global { ` +
	` locking_type=%s ` +
	` prioritise_write_locks=1 ` +
	` wait_for_locks=1 ` +
	` use_lvmetad=0 ` +
	`} ` +
	`backup { ` +
	` retain_min=50 ` +
	` retain_days=0 ` +
	`}`

// BuildConfig returns the full lvm configuration text embedding the given
// device filter and the locking type for the given mode.
func BuildConfig(devFilter string, mode LockingMode) string {
	return fmt.Sprintf(configTemplate, devFilter, mode.lockingType())
}
