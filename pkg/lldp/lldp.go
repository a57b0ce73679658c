package lldp

import (
	"context"
	"fmt"
	"strings"

	"github.com/burrowvirt/burrow/pkg/lvm"
)

// DefaultToolPath is the lldptool binary.
const DefaultToolPath = "/usr/sbin/lldptool"

// TLV is one decoded neighbor record from an lldptool TLV report.
type TLV struct {
	// Type is the TLV type number (1 = Chassis ID, 2 = Port ID, ...).
	Type int

	// Name is the short identifier of the TLV.
	Name string

	// OUI and Subtype identify organizationally specific TLVs; OUI is
	// empty for mandatory TLVs.
	OUI     string
	Subtype int

	// Properties holds the decoded property lines of the TLV. Lines
	// without a key (e.g. the Time to Live value) are stored under "raw".
	Properties map[string]string
}

// descriptor maps one lldptool description line to TLV identity.
type descriptor struct {
	typ     int
	name    string
	oui     string
	subtype int
}

var tlvsByDescription = map[string]descriptor{
	"Chassis ID TLV":          {typ: 1, name: "Chassis ID"},
	"Port ID TLV":             {typ: 2, name: "Port ID"},
	"Time to Live TLV":        {typ: 3, name: "Time to Live"},
	"Port Description TLV":    {typ: 4, name: "Port Description"},
	"System Name TLV":         {typ: 5, name: "System Name"},
	"System Description TLV":  {typ: 6, name: "System Description"},
	"System Capabilities TLV": {typ: 7, name: "System Capabilities"},
	"Management Address TLV":  {typ: 8, name: "Management Address"},
	"Port VLAN ID TLV": {
		typ: 127, name: "Port VLAN ID", oui: "802.1", subtype: 1,
	},
	"VLAN Name TLV": {
		typ: 127, name: "VLAN Name", oui: "802.1", subtype: 3,
	},
	"Link Aggregation TLV": {
		typ: 127, name: "Link Aggregation", oui: "802.3", subtype: 3,
	},
	"Maximum Frame Size TLV": {
		typ: 127, name: "MTU", oui: "802.3", subtype: 4,
	},
}

// ParseReport decodes the text produced by `lldptool get-tlv -n -i <iface>`
// into TLV records. Unrecognized TLV blocks are skipped; parsing itself
// never fails.
func ParseReport(text string) []TLV {
	var tlvs []TLV

	for _, block := range splitBlocks(text) {
		desc, ok := tlvsByDescription[block.description]
		if !ok {
			continue
		}

		tlvs = append(tlvs, TLV{
			Type:       desc.typ,
			Name:       desc.name,
			OUI:        desc.oui,
			Subtype:    desc.subtype,
			Properties: parseProperties(block.properties),
		})
	}

	return tlvs
}

// block is one TLV report section: a description line followed by indented
// property lines.
type block struct {
	description string
	properties  []string
}

func splitBlocks(text string) []block {
	var blocks []block
	var current *block

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		// Property lines are indented under their description line.
		if line[0] == ' ' || line[0] == '\t' {
			if current != nil {
				current.properties = append(current.properties, strings.TrimSpace(line))
			}
			continue
		}

		if current != nil {
			blocks = append(blocks, *current)
		}
		current = &block{description: strings.TrimSpace(line)}
	}
	if current != nil {
		blocks = append(blocks, *current)
	}

	return blocks
}

func parseProperties(lines []string) map[string]string {
	props := make(map[string]string, len(lines))
	for _, line := range lines {
		if key, value, found := strings.Cut(line, ": "); found {
			props[strings.TrimSpace(key)] = strings.TrimSpace(value)
			continue
		}
		// Single-value TLVs (e.g. Time to Live) carry a bare line.
		if prev, ok := props["raw"]; ok {
			props["raw"] = prev + "\n" + line
		} else {
			props["raw"] = line
		}
	}
	return props
}

// Tool wraps the lldptool binary for enabling LLDP on interfaces and
// fetching neighbor TLV reports.
type Tool struct {
	path   string
	runner lvm.Runner
}

// NewTool creates a Tool using the given runner; a nil runner uses the
// production command runner.
func NewTool(runner lvm.Runner) *Tool {
	if runner == nil {
		runner = lvm.NewRunner()
	}
	return &Tool{path: DefaultToolPath, runner: runner}
}

// Ping reports whether the lldpad daemon is responding.
func (t *Tool) Ping(ctx context.Context) bool {
	res, err := t.runner.Run(ctx, []string{t.path, "-ping"}, true)
	return err == nil && res.Ok()
}

// Enable turns LLDP reception on for the interface. With rxOnly the
// interface only listens and never transmits.
func (t *Tool) Enable(ctx context.Context, iface string, rxOnly bool) error {
	status := "rxtx"
	if rxOnly {
		status = "rx"
	}
	res, err := t.runner.Run(ctx, []string{
		t.path, "set-lldp", "-i", iface, "adminStatus=" + status,
	}, true)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("failed to enable lldp on %s: rc=%d stderr=%q",
			iface, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// Disable turns LLDP off for the interface.
func (t *Tool) Disable(ctx context.Context, iface string) error {
	res, err := t.runner.Run(ctx, []string{
		t.path, "set-lldp", "-i", iface, "adminStatus=disabled",
	}, true)
	if err != nil {
		return err
	}
	if !res.Ok() {
		return fmt.Errorf("failed to disable lldp on %s: rc=%d stderr=%q",
			iface, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}
	return nil
}

// IsEnabled reports whether LLDP is enabled on the interface.
func (t *Tool) IsEnabled(ctx context.Context, iface string) bool {
	res, err := t.runner.Run(ctx, []string{
		t.path, "get-lldp", "-i", iface, "adminStatus",
	}, true)
	if err != nil || !res.Ok() {
		return false
	}

	key, value, found := strings.Cut(strings.TrimSpace(string(res.Stdout)), "=")
	return found && key == "adminStatus" && value != "disabled"
}

// GetTLVs fetches and decodes the neighbor TLV report of the interface.
func (t *Tool) GetTLVs(ctx context.Context, iface string) ([]TLV, error) {
	args := []string{t.path, "get-tlv", "-n", "-i", iface}
	res, err := t.runner.Run(ctx, args, true)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return nil, fmt.Errorf("failed to fetch tlv report for %s: rc=%d stderr=%q",
			iface, res.ExitCode, strings.TrimSpace(string(res.Stderr)))
	}

	return ParseReport(string(res.Stdout)), nil
}
