package lvm

// LockingMode selects how lvm commands issued by this host take cluster-wide
// locks on the shared storage.
type LockingMode int

const (
	// LockExclusive is used while this host is the storage pool master. It
	// holds the cluster-wide write lock, so lvm commands run with full
	// locking and their failures are authoritative.
	LockExclusive LockingMode = iota

	// LockShared is used on all other hosts. Commands never take the lock
	// and must tolerate transient failures caused by a concurrent writer
	// on the master.
	LockShared
)

// String returns a human readable mode name for logging.
func (m LockingMode) String() string {
	switch m {
	case LockExclusive:
		return "exclusive"
	case LockShared:
		return "shared"
	default:
		return "unknown"
	}
}

// lockingType returns the lvm locking_type value for this mode.
func (m LockingMode) lockingType() string {
	if m == LockShared {
		return "4"
	}
	return "1"
}
