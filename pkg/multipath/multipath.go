package multipath

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	// DefaultDeviceDir is where device-mapper exposes multipath devices.
	DefaultDeviceDir = "/dev/mapper"

	// controlNode is the device-mapper control node, never a storage device.
	controlNode = "control"
)

// Enumerator reports the multipath devices visible to this host. It
// implements the lvm.DeviceLister interface.
type Enumerator struct {
	dir string
}

// New creates an enumerator over the default device-mapper directory.
func New() *Enumerator {
	return NewWithDir(DefaultDeviceDir)
}

// NewWithDir creates an enumerator over the given directory.
func NewWithDir(dir string) *Enumerator {
	return &Enumerator{dir: dir}
}

// Devices returns the sorted paths of all multipath devices currently
// visible. An unreadable device directory is a hard error; it must never be
// reported as an empty device set.
func (e *Enumerator) Devices() ([]string, error) {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read device directory %s: %w", e.dir, err)
	}

	devices := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if name == controlNode {
			continue
		}
		devices = append(devices, filepath.Join(e.dir, name))
	}

	sort.Strings(devices)
	return devices, nil
}
