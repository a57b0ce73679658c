package types

import "time"

// VolumeGroup describes an LVM volume group visible from this host.
type VolumeGroup struct {
	UUID        string   `json:"uuid"`
	Name        string   `json:"name"`
	Attr        string   `json:"attr"`
	Size        uint64   `json:"size"`
	Free        uint64   `json:"free"`
	ExtentSize  uint64   `json:"extent_size"`
	ExtentCount uint64   `json:"extent_count"`
	FreeCount   uint64   `json:"free_count"`
	Tags        []string `json:"tags"`
	MDASize     uint64   `json:"mda_size"`
	MDAFree     uint64   `json:"mda_free"`
	LVCount     uint64   `json:"lv_count"`
	PVCount     uint64   `json:"pv_count"`
	PVNames     []string `json:"pv_names"`
}

// LogicalVolume describes an LVM logical volume.
type LogicalVolume struct {
	UUID   string   `json:"uuid"`
	Name   string   `json:"name"`
	VGName string   `json:"vg_name"`
	Attr   string   `json:"attr"`
	Size   uint64   `json:"size"`
	Tags   []string `json:"tags"`
	// Devices is the raw device/extent mapping as reported by lvs.
	Devices string `json:"devices"`
}

// Writeable reports whether the volume permission attribute allows writes.
func (lv *LogicalVolume) Writeable() bool {
	return len(lv.Attr) > 1 && lv.Attr[1] == 'w'
}

// Active reports whether the volume is active.
func (lv *LogicalVolume) Active() bool {
	return len(lv.Attr) > 4 && lv.Attr[4] == 'a'
}

// Opened reports whether the volume device is currently open.
func (lv *LogicalVolume) Opened() bool {
	return len(lv.Attr) > 5 && lv.Attr[5] == 'o'
}

// PhysicalVolume describes an LVM physical volume.
type PhysicalVolume struct {
	UUID         string `json:"uuid"`
	Name         string `json:"name"`
	Size         uint64 `json:"size"`
	VGName       string `json:"vg_name"`
	VGUUID       string `json:"vg_uuid"`
	PEStart      uint64 `json:"pe_start"`
	PECount      uint64 `json:"pe_count"`
	PEAllocCount uint64 `json:"pe_alloc_count"`
	MDACount     uint64 `json:"mda_count"`
	MDAUsedCount uint64 `json:"mda_used_count"`
	DevSize      uint64 `json:"dev_size"`
}

// InventorySnapshot is a point-in-time record of the storage objects seen by
// this host, persisted for offline inspection.
type InventorySnapshot struct {
	TakenAt         time.Time        `json:"taken_at"`
	Devices         []string         `json:"devices"`
	VolumeGroups    []VolumeGroup    `json:"volume_groups"`
	LogicalVolumes  []LogicalVolume  `json:"logical_volumes"`
	PhysicalVolumes []PhysicalVolume `json:"physical_volumes"`
}
