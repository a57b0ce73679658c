package lvm

import (
	"sort"
	"strings"
)

// BuildFilter returns the lvm device filter accepting exactly the given
// devices and rejecting everything else. The result depends only on the set
// of devices, never on their order, so identical device sets always produce
// byte-identical filters.
func BuildFilter(devices []string) string {
	seen := make(map[string]struct{}, len(devices))
	escaped := make([]string, 0, len(devices))

	for _, dev := range devices {
		dev = strings.TrimSpace(dev)
		if dev == "" {
			continue
		}
		// Device paths may contain backslashes (udev escapes special
		// characters as \xNN), which must themselves be escaped in the
		// filter regex.
		dev = strings.ReplaceAll(dev, `\`, `\\`)
		if _, ok := seen[dev]; ok {
			continue
		}
		seen[dev] = struct{}{}
		escaped = append(escaped, dev)
	}

	// Possible on a host without any multipath device. LVM commands will
	// succeed, returning no info.
	if len(escaped) == 0 {
		return `["r|.*|"]`
	}

	sort.Strings(escaped)

	var b strings.Builder
	b.WriteString(`["a|`)
	for _, dev := range escaped {
		b.WriteString("^")
		b.WriteString(dev)
		b.WriteString("$|")
	}
	b.WriteString(`", "r|.*|"]`)
	return b.String()
}

// NormalizeDevices returns a sorted copy of devices with surrounding
// whitespace trimmed, empty entries dropped, and duplicates removed. Filter
// staleness is detected by comparing normalized device lists.
func NormalizeDevices(devices []string) []string {
	seen := make(map[string]struct{}, len(devices))
	out := make([]string, 0, len(devices))
	for _, dev := range devices {
		dev = strings.TrimSpace(dev)
		if dev == "" {
			continue
		}
		if _, ok := seen[dev]; ok {
			continue
		}
		seen[dev] = struct{}{}
		out = append(out, dev)
	}
	sort.Strings(out)
	return out
}
