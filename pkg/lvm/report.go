package lvm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/burrowvirt/burrow/pkg/types"
)

// Report field lists. The order must match the parsers below.
var (
	vgFields = []string{
		"uuid", "name", "attr", "size", "free", "extent_size",
		"extent_count", "free_count", "tags", "vg_mda_size",
		"vg_mda_free", "lv_count", "pv_count", "pv_name",
	}

	lvFields = []string{
		"uuid", "name", "vg_name", "attr", "size", "tags", "devices",
	}

	pvFields = []string{
		"uuid", "name", "size", "vg_name", "vg_uuid", "pe_start",
		"pe_count", "pe_alloc_count", "mda_count", "mda_used_count",
		"dev_size",
	}
)

// reportArgs composes the argument list for a vgs/lvs/pvs report with
// machine-parseable output: no headings, byte units without suffix, and a
// fixed field separator.
func reportArgs(cmd string, fields []string, names ...string) []string {
	args := []string{
		cmd,
		"--noheadings",
		"--units", "b",
		"--nosuffix",
		"--separator", "|",
		"-o", strings.Join(fields, ","),
	}
	return append(args, names...)
}

// reportLines splits report output into per-record field slices.
func reportLines(out []byte, want int) ([][]string, error) {
	var records [][]string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != want {
			return nil, fmt.Errorf("malformed report line %q: expected %d fields, got %d",
				line, want, len(fields))
		}
		records = append(records, fields)
	}
	return records, nil
}

func parseUint(field, name string) (uint64, error) {
	field = strings.TrimSpace(field)
	if field == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(field, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, field, err)
	}
	return n, nil
}

func parseTags(field string) []string {
	field = strings.TrimSpace(field)
	if field == "" {
		return nil
	}
	return strings.Split(field, ",")
}

// parseVGs parses vgs report output. The pv_name field makes vgs emit one
// line per physical volume, so lines sharing a uuid are merged into a single
// volume group record collecting all pv names.
func parseVGs(out []byte) ([]types.VolumeGroup, error) {
	records, err := reportLines(out, len(vgFields))
	if err != nil {
		return nil, err
	}

	byUUID := make(map[string]*types.VolumeGroup)
	var order []string

	for _, rec := range records {
		uuid := rec[0]
		pvName := strings.TrimSpace(rec[13])

		if vg, ok := byUUID[uuid]; ok {
			if pvName != "" {
				vg.PVNames = append(vg.PVNames, pvName)
			}
			continue
		}

		vg := &types.VolumeGroup{
			UUID: uuid,
			Name: rec[1],
			Attr: rec[2],
			Tags: parseTags(rec[8]),
		}
		if pvName != "" {
			vg.PVNames = []string{pvName}
		}

		numeric := []struct {
			dst  *uint64
			src  string
			name string
		}{
			{&vg.Size, rec[3], "vg size"},
			{&vg.Free, rec[4], "vg free"},
			{&vg.ExtentSize, rec[5], "extent size"},
			{&vg.ExtentCount, rec[6], "extent count"},
			{&vg.FreeCount, rec[7], "free extent count"},
			{&vg.MDASize, rec[9], "mda size"},
			{&vg.MDAFree, rec[10], "mda free"},
			{&vg.LVCount, rec[11], "lv count"},
			{&vg.PVCount, rec[12], "pv count"},
		}
		for _, f := range numeric {
			if *f.dst, err = parseUint(f.src, f.name); err != nil {
				return nil, err
			}
		}

		byUUID[uuid] = vg
		order = append(order, uuid)
	}

	vgs := make([]types.VolumeGroup, 0, len(order))
	for _, uuid := range order {
		vgs = append(vgs, *byUUID[uuid])
	}
	return vgs, nil
}

// parseLVs parses lvs report output.
func parseLVs(out []byte) ([]types.LogicalVolume, error) {
	records, err := reportLines(out, len(lvFields))
	if err != nil {
		return nil, err
	}

	lvs := make([]types.LogicalVolume, 0, len(records))
	for _, rec := range records {
		lv := types.LogicalVolume{
			UUID:    rec[0],
			Name:    rec[1],
			VGName:  rec[2],
			Attr:    rec[3],
			Tags:    parseTags(rec[5]),
			Devices: strings.TrimSpace(rec[6]),
		}
		if lv.Size, err = parseUint(rec[4], "lv size"); err != nil {
			return nil, err
		}
		lvs = append(lvs, lv)
	}
	return lvs, nil
}

// parsePVs parses pvs report output.
func parsePVs(out []byte) ([]types.PhysicalVolume, error) {
	records, err := reportLines(out, len(pvFields))
	if err != nil {
		return nil, err
	}

	pvs := make([]types.PhysicalVolume, 0, len(records))
	for _, rec := range records {
		pv := types.PhysicalVolume{
			UUID:   rec[0],
			Name:   rec[1],
			VGName: rec[3],
			VGUUID: rec[4],
		}

		numeric := []struct {
			dst  *uint64
			src  string
			name string
		}{
			{&pv.Size, rec[2], "pv size"},
			{&pv.PEStart, rec[5], "pe start"},
			{&pv.PECount, rec[6], "pe count"},
			{&pv.PEAllocCount, rec[7], "pe alloc count"},
			{&pv.MDACount, rec[8], "mda count"},
			{&pv.MDAUsedCount, rec[9], "mda used count"},
			{&pv.DevSize, rec[10], "dev size"},
		}
		for _, f := range numeric {
			if *f.dst, err = parseUint(f.src, f.name); err != nil {
				return nil, err
			}
		}

		pvs = append(pvs, pv)
	}
	return pvs, nil
}
