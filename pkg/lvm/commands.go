package lvm

import (
	"context"
	"fmt"
	"path"

	"github.com/rs/zerolog"

	"github.com/burrowvirt/burrow/pkg/log"
	"github.com/burrowvirt/burrow/pkg/types"
)

// Manager provides volume group and logical volume lifecycle operations on
// top of the command cache. All commands run through the cache, so they
// share its device filter, locking mode, and retry policy.
type Manager struct {
	cache  *Cache
	logger zerolog.Logger
}

// NewManager creates a manager over the given command cache.
func NewManager(cache *Cache) *Manager {
	return &Manager{
		cache:  cache,
		logger: log.WithComponent("lvm-manager"),
	}
}

// Cache returns the underlying command cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// run executes args through the cache and converts a final nonzero exit
// status into a CommandError.
func (m *Manager) run(ctx context.Context, args []string) (*CommandResult, error) {
	res, err := m.cache.RunCommand(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		return res, commandError(args, res)
	}
	return res, nil
}

// CreateVG creates a volume group from the given devices, tagging it so the
// cluster can recognize its role.
func (m *Manager) CreateVG(ctx context.Context, name string, devices []string, initialTag string, extentSizeMiB int) error {
	args := []string{
		"vgcreate",
		"--physicalextentsize", fmt.Sprintf("%dm", extentSizeMiB),
		"--addtag", initialTag,
		name,
	}
	args = append(args, devices...)

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to create volume group %s: %w", name, err)
	}

	m.logger.Info().
		Str("vg_name", name).
		Strs("devices", devices).
		Msg("volume group created")
	return nil
}

// RemoveVG removes a volume group. The physical volumes are kept.
func (m *Manager) RemoveVG(ctx context.Context, name string) error {
	if _, err := m.run(ctx, []string{"vgremove", "-f", name}); err != nil {
		return fmt.Errorf("failed to remove volume group %s: %w", name, err)
	}

	m.logger.Info().Str("vg_name", name).Msg("volume group removed")
	return nil
}

// ExtendVG adds devices to a volume group.
func (m *Manager) ExtendVG(ctx context.Context, name string, devices []string, force bool) error {
	args := []string{"vgextend"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, name)
	args = append(args, devices...)

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to extend volume group %s: %w", name, err)
	}

	m.logger.Info().
		Str("vg_name", name).
		Strs("devices", devices).
		Msg("volume group extended")
	return nil
}

// ReduceVG removes a device from a volume group.
func (m *Manager) ReduceVG(ctx context.Context, name, device string) error {
	if _, err := m.run(ctx, []string{"vgreduce", name, device}); err != nil {
		return fmt.Errorf("failed to reduce volume group %s: %w", name, err)
	}

	m.logger.Info().
		Str("vg_name", name).
		Str("device", device).
		Msg("volume group reduced")
	return nil
}

// ChangeVGTags removes and adds tags on a volume group.
func (m *Manager) ChangeVGTags(ctx context.Context, name string, delTags, addTags []string) error {
	args := []string{"vgchange"}
	for _, tag := range delTags {
		args = append(args, "--deltag", tag)
	}
	for _, tag := range addTags {
		args = append(args, "--addtag", tag)
	}
	args = append(args, name)

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to change tags on volume group %s: %w", name, err)
	}
	return nil
}

// CheckVG runs metadata consistency checks on a volume group.
func (m *Manager) CheckVG(ctx context.Context, name string) error {
	if _, err := m.run(ctx, []string{"vgck", name}); err != nil {
		return fmt.Errorf("volume group %s check failed: %w", name, err)
	}
	return nil
}

// GetVG returns a single volume group.
func (m *Manager) GetVG(ctx context.Context, name string) (*types.VolumeGroup, error) {
	args := reportArgs("vgs", vgFields, name)
	res, err := m.cache.RunCommand(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		if isNotFound(res) {
			return nil, fmt.Errorf("volume group %s: %w", name, ErrVolumeGroupNotFound)
		}
		return nil, commandError(args, res)
	}

	vgs, err := parseVGs(res.Stdout)
	if err != nil {
		return nil, err
	}
	if len(vgs) == 0 {
		return nil, fmt.Errorf("volume group %s: %w", name, ErrVolumeGroupNotFound)
	}
	return &vgs[0], nil
}

// ListVGs returns all volume groups visible through the current filter.
func (m *Manager) ListVGs(ctx context.Context) ([]types.VolumeGroup, error) {
	res, err := m.run(ctx, reportArgs("vgs", vgFields))
	if err != nil {
		return nil, err
	}
	return parseVGs(res.Stdout)
}

// CreateLV creates a logical volume in the given volume group. If device is
// not empty the volume is allocated on that physical volume.
func (m *Manager) CreateLV(ctx context.Context, vgName, lvName string, sizeMiB int, activate bool, device string) error {
	active := "y"
	if !activate {
		active = "n"
	}
	args := []string{
		"lvcreate",
		"--autobackup", "n",
		"--contiguous", "n",
		"--size", fmt.Sprintf("%dm", sizeMiB),
		"--name", lvName,
		"--activate", active,
		vgName,
	}
	if device != "" {
		args = append(args, device)
	}

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to create logical volume %s/%s: %w", vgName, lvName, err)
	}

	m.logger.Info().
		Str("vg_name", vgName).
		Str("lv_name", lvName).
		Int("size_mib", sizeMiB).
		Msg("logical volume created")
	return nil
}

// RemoveLVs removes the given logical volumes from a volume group.
func (m *Manager) RemoveLVs(ctx context.Context, vgName string, lvNames []string) error {
	args := []string{"lvremove", "-f", "--autobackup", "n"}
	for _, lv := range lvNames {
		args = append(args, vgName+"/"+lv)
	}

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to remove logical volumes from %s: %w", vgName, err)
	}

	m.logger.Info().
		Str("vg_name", vgName).
		Strs("lv_names", lvNames).
		Msg("logical volumes removed")
	return nil
}

// ExtendLV grows a logical volume to the given size.
func (m *Manager) ExtendLV(ctx context.Context, vgName, lvName string, sizeMiB int) error {
	args := []string{
		"lvextend",
		"--autobackup", "n",
		"--size", fmt.Sprintf("%dm", sizeMiB),
		vgName + "/" + lvName,
	}

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to extend logical volume %s/%s: %w", vgName, lvName, err)
	}

	m.logger.Info().
		Str("vg_name", vgName).
		Str("lv_name", lvName).
		Int("size_mib", sizeMiB).
		Msg("logical volume extended")
	return nil
}

// ReduceLV shrinks a logical volume to the given size. Reducing an active
// volume requires force.
func (m *Manager) ReduceLV(ctx context.Context, vgName, lvName string, sizeMiB int, force bool) error {
	args := []string{"lvreduce", "--autobackup", "n"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, "--size", fmt.Sprintf("%dm", sizeMiB), vgName+"/"+lvName)

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to reduce logical volume %s/%s: %w", vgName, lvName, err)
	}

	m.logger.Info().
		Str("vg_name", vgName).
		Str("lv_name", lvName).
		Int("size_mib", sizeMiB).
		Msg("logical volume reduced")
	return nil
}

// RenameLV renames a logical volume within its volume group.
func (m *Manager) RenameLV(ctx context.Context, vgName, oldName, newName string) error {
	if _, err := m.run(ctx, []string{"lvrename", vgName, oldName, newName}); err != nil {
		return fmt.Errorf("failed to rename logical volume %s/%s: %w", vgName, oldName, err)
	}
	return nil
}

// ActivateLVs activates the given logical volumes. Activating an already
// active volume refreshes it.
func (m *Manager) ActivateLVs(ctx context.Context, vgName string, lvNames []string) error {
	return m.changeLVsAvailability(ctx, vgName, lvNames, "y")
}

// DeactivateLVs deactivates the given logical volumes.
func (m *Manager) DeactivateLVs(ctx context.Context, vgName string, lvNames []string) error {
	return m.changeLVsAvailability(ctx, vgName, lvNames, "n")
}

func (m *Manager) changeLVsAvailability(ctx context.Context, vgName string, lvNames []string, available string) error {
	args := []string{"lvchange", "--autobackup", "n", "--available", available}
	for _, lv := range lvNames {
		args = append(args, vgName+"/"+lv)
	}

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to change availability of logical volumes in %s: %w", vgName, err)
	}
	return nil
}

// RefreshLVs reloads the mapping of the given logical volumes, picking up
// size changes made by the storage pool master.
func (m *Manager) RefreshLVs(ctx context.Context, vgName string, lvNames []string) error {
	args := []string{"lvchange", "--refresh"}
	for _, lv := range lvNames {
		args = append(args, vgName+"/"+lv)
	}

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to refresh logical volumes in %s: %w", vgName, err)
	}
	return nil
}

// ChangeLVTags removes and adds tags on a logical volume.
func (m *Manager) ChangeLVTags(ctx context.Context, vgName, lvName string, delTags, addTags []string) error {
	args := []string{"lvchange", "--autobackup", "n"}
	for _, tag := range delTags {
		args = append(args, "--deltag", tag)
	}
	for _, tag := range addTags {
		args = append(args, "--addtag", tag)
	}
	args = append(args, vgName+"/"+lvName)

	if _, err := m.run(ctx, args); err != nil {
		return fmt.Errorf("failed to change tags on logical volume %s/%s: %w", vgName, lvName, err)
	}
	return nil
}

// GetLV returns a single logical volume.
func (m *Manager) GetLV(ctx context.Context, vgName, lvName string) (*types.LogicalVolume, error) {
	args := reportArgs("lvs", lvFields, vgName+"/"+lvName)
	res, err := m.cache.RunCommand(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		if isNotFound(res) {
			return nil, fmt.Errorf("logical volume %s/%s: %w", vgName, lvName, ErrLogicalVolumeNotFound)
		}
		return nil, commandError(args, res)
	}

	lvs, err := parseLVs(res.Stdout)
	if err != nil {
		return nil, err
	}
	if len(lvs) == 0 {
		return nil, fmt.Errorf("logical volume %s/%s: %w", vgName, lvName, ErrLogicalVolumeNotFound)
	}
	return &lvs[0], nil
}

// ListLVs returns the logical volumes of a volume group, or of all volume
// groups when vgName is empty.
func (m *Manager) ListLVs(ctx context.Context, vgName string) ([]types.LogicalVolume, error) {
	var args []string
	if vgName == "" {
		args = reportArgs("lvs", lvFields)
	} else {
		args = reportArgs("lvs", lvFields, vgName)
	}

	res, err := m.run(ctx, args)
	if err != nil {
		return nil, err
	}
	return parseLVs(res.Stdout)
}

// GetPV returns a single physical volume.
func (m *Manager) GetPV(ctx context.Context, device string) (*types.PhysicalVolume, error) {
	args := reportArgs("pvs", pvFields, device)
	res, err := m.cache.RunCommand(ctx, args)
	if err != nil {
		return nil, err
	}
	if !res.Ok() {
		if isNotFound(res) {
			return nil, fmt.Errorf("physical volume %s: %w", device, ErrPhysicalVolumeNotFound)
		}
		return nil, commandError(args, res)
	}

	pvs, err := parsePVs(res.Stdout)
	if err != nil {
		return nil, err
	}
	if len(pvs) == 0 {
		return nil, fmt.Errorf("physical volume %s: %w", device, ErrPhysicalVolumeNotFound)
	}
	return &pvs[0], nil
}

// ListPVs returns all physical volumes visible through the current filter.
func (m *Manager) ListPVs(ctx context.Context) ([]types.PhysicalVolume, error) {
	res, err := m.run(ctx, reportArgs("pvs", pvFields))
	if err != nil {
		return nil, err
	}
	return parsePVs(res.Stdout)
}

// LVPath returns the device path of a logical volume.
func LVPath(vgName, lvName string) string {
	return path.Join("/dev", vgName, lvName)
}
