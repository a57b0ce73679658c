package lldp

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowvirt/burrow/pkg/lvm"
)

const sampleReport = `Chassis ID TLV
	MAC: 02:01:02:03:04:05
Port ID TLV
	Ifname: Ethernet11/1
Time to Live TLV
	120
Port Description TLV
	host-storage-uplink
System Name TLV
	rack1-tor1
System Capabilities TLV
	System capabilities: Bridge, Router
	Enabled capabilities: Bridge, Router
Management Address TLV
	IPv4: 10.20.30.40
	Ifindex: 1
Port VLAN ID TLV
	PVID: 100
Maximum Frame Size TLV
	9216
Unknown Vendor TLV
	OUI: 0xdeadbe, Subtype: 1
End of LLDPDU TLV
`

type fakeToolRunner struct {
	mu     sync.Mutex
	rc     int
	stdout string
	calls  [][]string
}

func (r *fakeToolRunner) Run(ctx context.Context, args []string, sudo bool) (*lvm.CommandResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, args)
	return &lvm.CommandResult{ExitCode: r.rc, Stdout: []byte(r.stdout)}, nil
}

func TestParseReport(t *testing.T) {
	tlvs := ParseReport(sampleReport)
	require.Len(t, tlvs, 9)

	byName := make(map[string]TLV, len(tlvs))
	for _, tlv := range tlvs {
		byName[tlv.Name] = tlv
	}

	chassis := byName["Chassis ID"]
	assert.Equal(t, 1, chassis.Type)
	assert.Equal(t, "02:01:02:03:04:05", chassis.Properties["MAC"])

	ttl := byName["Time to Live"]
	assert.Equal(t, 3, ttl.Type)
	assert.Equal(t, "120", ttl.Properties["raw"])

	caps := byName["System Capabilities"]
	assert.Equal(t, "Bridge, Router", caps.Properties["System capabilities"])

	pvid := byName["Port VLAN ID"]
	assert.Equal(t, 127, pvid.Type)
	assert.Equal(t, "802.1", pvid.OUI)
	assert.Equal(t, 1, pvid.Subtype)
	assert.Equal(t, "100", pvid.Properties["PVID"])

	mtu := byName["MTU"]
	assert.Equal(t, "802.3", mtu.OUI)
	assert.Equal(t, 4, mtu.Subtype)
	assert.Equal(t, "9216", mtu.Properties["raw"])

	// Unknown vendor blocks and the LLDPDU terminator are skipped.
	_, found := byName["Unknown Vendor"]
	assert.False(t, found)
}

func TestParseReportEmpty(t *testing.T) {
	assert.Empty(t, ParseReport(""))
	assert.Empty(t, ParseReport("\n\n"))
}

func TestGetTLVs(t *testing.T) {
	runner := &fakeToolRunner{stdout: sampleReport}
	tool := NewTool(runner)

	tlvs, err := tool.GetTLVs(context.Background(), "eth0")
	require.NoError(t, err)
	assert.Len(t, tlvs, 9)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{DefaultToolPath, "get-tlv", "-n", "-i", "eth0"}, runner.calls[0])
}

func TestGetTLVsFailure(t *testing.T) {
	runner := &fakeToolRunner{rc: 1}
	tool := NewTool(runner)

	_, err := tool.GetTLVs(context.Background(), "eth0")
	assert.Error(t, err)
}

func TestEnableDisable(t *testing.T) {
	runner := &fakeToolRunner{}
	tool := NewTool(runner)

	require.NoError(t, tool.Enable(context.Background(), "eth0", true))
	require.NoError(t, tool.Enable(context.Background(), "eth1", false))
	require.NoError(t, tool.Disable(context.Background(), "eth0"))

	assert.Equal(t, []string{DefaultToolPath, "set-lldp", "-i", "eth0", "adminStatus=rx"}, runner.calls[0])
	assert.Equal(t, []string{DefaultToolPath, "set-lldp", "-i", "eth1", "adminStatus=rxtx"}, runner.calls[1])
	assert.Equal(t, []string{DefaultToolPath, "set-lldp", "-i", "eth0", "adminStatus=disabled"}, runner.calls[2])
}

func TestIsEnabled(t *testing.T) {
	tests := []struct {
		stdout  string
		rc      int
		enabled bool
	}{
		{stdout: "adminStatus=rx\n", enabled: true},
		{stdout: "adminStatus=rxtx\n", enabled: true},
		{stdout: "adminStatus=disabled\n", enabled: false},
		{stdout: "garbage", enabled: false},
		{stdout: "adminStatus=rx\n", rc: 1, enabled: false},
	}

	for _, tt := range tests {
		runner := &fakeToolRunner{rc: tt.rc, stdout: tt.stdout}
		tool := NewTool(runner)
		assert.Equal(t, tt.enabled, tool.IsEnabled(context.Background(), "eth0"), "stdout=%q", tt.stdout)
	}
}

func TestPing(t *testing.T) {
	runner := &fakeToolRunner{}
	tool := NewTool(runner)

	assert.True(t, tool.Ping(context.Background()))
	assert.Equal(t, []string{DefaultToolPath, "-ping"}, runner.calls[0])

	runner.rc = 1
	assert.False(t, tool.Ping(context.Background()))
}
