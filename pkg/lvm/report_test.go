package lvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/burrowvirt/burrow/pkg/types"
)

func TestReportArgs(t *testing.T) {
	args := reportArgs("vgs", vgFields, "pool-0001")

	expected := []string{
		"vgs",
		"--noheadings",
		"--units", "b",
		"--nosuffix",
		"--separator", "|",
		"-o", "uuid,name,attr,size,free,extent_size,extent_count,free_count," +
			"tags,vg_mda_size,vg_mda_free,lv_count,pv_count,pv_name",
		"pool-0001",
	}
	assert.Equal(t, expected, args)
}

func TestParseVGs(t *testing.T) {
	out := []byte(`  5H6Ixy|pool-0001|wz--n-|53150220288|35487940608|134217728|396|264|MDT_CLASS=Data,MDT_ROLE=Regular|134217728|133169152|5|2|/dev/mapper/a
  5H6Ixy|pool-0001|wz--n-|53150220288|35487940608|134217728|396|264|MDT_CLASS=Data,MDT_ROLE=Regular|134217728|133169152|5|2|/dev/mapper/b
  Xp9aQ2|pool-0002|wz--n-|10737418240|10737418240|134217728|80|80||134217728|133169152|0|1|/dev/mapper/c
`)

	vgs, err := parseVGs(out)
	require.NoError(t, err)
	require.Len(t, vgs, 2)

	vg := vgs[0]
	assert.Equal(t, "5H6Ixy", vg.UUID)
	assert.Equal(t, "pool-0001", vg.Name)
	assert.Equal(t, "wz--n-", vg.Attr)
	assert.Equal(t, uint64(53150220288), vg.Size)
	assert.Equal(t, uint64(35487940608), vg.Free)
	assert.Equal(t, uint64(134217728), vg.ExtentSize)
	assert.Equal(t, uint64(396), vg.ExtentCount)
	assert.Equal(t, uint64(264), vg.FreeCount)
	assert.Equal(t, []string{"MDT_CLASS=Data", "MDT_ROLE=Regular"}, vg.Tags)
	assert.Equal(t, uint64(5), vg.LVCount)
	assert.Equal(t, uint64(2), vg.PVCount)
	assert.Equal(t, []string{"/dev/mapper/a", "/dev/mapper/b"}, vg.PVNames)

	assert.Equal(t, "pool-0002", vgs[1].Name)
	assert.Nil(t, vgs[1].Tags)
	assert.Equal(t, []string{"/dev/mapper/c"}, vgs[1].PVNames)
}

func TestParseVGsMalformed(t *testing.T) {
	_, err := parseVGs([]byte("uuid|too|few|fields\n"))
	assert.Error(t, err)

	_, err = parseVGs([]byte("u|vg|attr|notanumber|0|0|0|0||0|0|0|0|/dev/a\n"))
	assert.Error(t, err)
}

func TestParseLVs(t *testing.T) {
	out := []byte(`  aBcDeF|metadata|pool-0001|-wi-ao----|536870912|MD_0001|/dev/mapper/a(0)
  GhIjKl|leases|pool-0001|-wi-------|2147483648||/dev/mapper/a(4)
`)

	lvs, err := parseLVs(out)
	require.NoError(t, err)
	require.Len(t, lvs, 2)

	lv := lvs[0]
	assert.Equal(t, "aBcDeF", lv.UUID)
	assert.Equal(t, "metadata", lv.Name)
	assert.Equal(t, "pool-0001", lv.VGName)
	assert.Equal(t, "-wi-ao----", lv.Attr)
	assert.Equal(t, uint64(536870912), lv.Size)
	assert.Equal(t, []string{"MD_0001"}, lv.Tags)
	assert.Equal(t, "/dev/mapper/a(0)", lv.Devices)

	assert.True(t, lvs[0].Writeable())
	assert.True(t, lvs[0].Active())
	assert.True(t, lvs[0].Opened())
	assert.False(t, lvs[1].Active())
	assert.Nil(t, lvs[1].Tags)
}

func TestParsePVs(t *testing.T) {
	out := []byte(`  pvUUID|/dev/mapper/a|53150220288|pool-0001|5H6Ixy|138412032|396|132|2|1|53687091200
`)

	pvs, err := parsePVs(out)
	require.NoError(t, err)
	require.Len(t, pvs, 1)

	pv := pvs[0]
	assert.Equal(t, "pvUUID", pv.UUID)
	assert.Equal(t, "/dev/mapper/a", pv.Name)
	assert.Equal(t, uint64(53150220288), pv.Size)
	assert.Equal(t, "pool-0001", pv.VGName)
	assert.Equal(t, "5H6Ixy", pv.VGUUID)
	assert.Equal(t, uint64(138412032), pv.PEStart)
	assert.Equal(t, uint64(396), pv.PECount)
	assert.Equal(t, uint64(132), pv.PEAllocCount)
	assert.Equal(t, uint64(2), pv.MDACount)
	assert.Equal(t, uint64(1), pv.MDAUsedCount)
	assert.Equal(t, uint64(53687091200), pv.DevSize)
}

func TestParseEmptyReport(t *testing.T) {
	vgs, err := parseVGs([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, vgs)

	lvs, err := parseLVs(nil)
	require.NoError(t, err)
	assert.Empty(t, lvs)
}

// parseTags and types attr helpers are exercised above; keep an explicit
// regression for LV attr strings shorter than expected.
func TestAttrHelpersShortString(t *testing.T) {
	lv := types.LogicalVolume{Attr: "-w"}
	assert.True(t, lv.Writeable())
	assert.False(t, lv.Active())
	assert.False(t, lv.Opened())
}
