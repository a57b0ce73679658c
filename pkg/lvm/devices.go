package lvm

// DeviceLister reports the block devices currently visible to this host.
//
// The production implementation lives in pkg/multipath. A listing failure is
// a hard error for the caller: it must never be treated as an empty device
// set, because an empty set would produce a reject-everything filter while a
// missing filter entry merely hides one device.
type DeviceLister interface {
	Devices() ([]string, error)
}

// DeviceListerFunc adapts a function to the DeviceLister interface.
type DeviceListerFunc func() ([]string, error)

// Devices calls f.
func (f DeviceListerFunc) Devices() ([]string, error) {
	return f()
}
