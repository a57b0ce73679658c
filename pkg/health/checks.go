package health

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/burrowvirt/burrow/pkg/lvm"
)

// LVMCheck verifies that the lvm binary responds. It runs `lvm version`
// through the same runner the command cache uses, so a broken sudo
// configuration also surfaces here.
type LVMCheck struct {
	Path   string
	Runner lvm.Runner
}

// NewLVMCheck creates a check for the given lvm binary path; a nil runner
// uses the production command runner.
func NewLVMCheck(path string, runner lvm.Runner) *LVMCheck {
	if path == "" {
		path = lvm.DefaultLVMPath
	}
	if runner == nil {
		runner = lvm.NewRunner()
	}
	return &LVMCheck{Path: path, Runner: runner}
}

func (c *LVMCheck) Name() string { return "lvm" }

func (c *LVMCheck) Check(ctx context.Context) Result {
	start := time.Now()

	res, err := c.Runner.Run(ctx, []string{c.Path, "version"}, true)
	if err != nil {
		return checkResult(start, false, fmt.Sprintf("cannot run lvm: %v", err))
	}
	if !res.Ok() {
		return checkResult(start, false, fmt.Sprintf("lvm version failed: rc=%d stderr=%q",
			res.ExitCode, strings.TrimSpace(string(res.Stderr))))
	}
	return checkResult(start, true, "")
}

// DeviceDirCheck verifies that the multipath device directory is readable.
// An unreadable directory means the agent cannot build device filters.
type DeviceDirCheck struct {
	Dir string
}

func (c *DeviceDirCheck) Name() string { return "device_dir" }

func (c *DeviceDirCheck) Check(ctx context.Context) Result {
	start := time.Now()

	if _, err := os.ReadDir(c.Dir); err != nil {
		return checkResult(start, false, fmt.Sprintf("cannot read %s: %v", c.Dir, err))
	}
	return checkResult(start, true, "")
}

// DataDirCheck verifies that the agent data directory is writable, so the
// inventory store can persist snapshots.
type DataDirCheck struct {
	Dir string
}

func (c *DataDirCheck) Name() string { return "data_dir" }

func (c *DataDirCheck) Check(ctx context.Context) Result {
	start := time.Now()

	probe, err := os.CreateTemp(c.Dir, ".health-*")
	if err != nil {
		return checkResult(start, false, fmt.Sprintf("cannot write to %s: %v", c.Dir, err))
	}
	probe.Close()
	os.Remove(probe.Name())
	return checkResult(start, true, "")
}
