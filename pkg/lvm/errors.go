package lvm

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrVolumeGroupNotFound is returned when a volume group does not
	// exist on the shared storage.
	ErrVolumeGroupNotFound = errors.New("volume group does not exist")

	// ErrLogicalVolumeNotFound is returned when a logical volume does not
	// exist in its volume group.
	ErrLogicalVolumeNotFound = errors.New("logical volume does not exist")

	// ErrPhysicalVolumeNotFound is returned when a device is not an lvm
	// physical volume.
	ErrPhysicalVolumeNotFound = errors.New("physical volume does not exist")
)

// CommandError is returned when an lvm command failed after the retry policy
// was exhausted. It carries the final attempt's exit status and stderr.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("lvm %s failed: rc=%d stderr=%q",
		strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// commandError builds a CommandError from a failed result.
func commandError(args []string, res *CommandResult) error {
	return &CommandError{
		Args:     args,
		ExitCode: res.ExitCode,
		Stderr:   string(res.Stderr),
	}
}

// isNotFound reports whether stderr indicates a missing vg/lv/pv rather than
// an operational failure.
func isNotFound(res *CommandResult) bool {
	s := strings.ToLower(string(res.Stderr))
	return strings.Contains(s, "not found") ||
		strings.Contains(s, "failed to find")
}
