package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowvirt/burrow/pkg/config"
	"github.com/burrowvirt/burrow/pkg/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Show the last persisted storage inventory",
	Long: `Show the volume groups, logical volumes, and physical volumes this
host saw at its last successful scan. The data is read from the local
inventory database, so it works even when the shared storage is currently
unreachable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		store, err := inventory.Open(cfg.DataDir)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Load()
		if err != nil {
			return err
		}

		if snap.TakenAt.IsZero() {
			fmt.Println("No inventory recorded yet.")
			return nil
		}

		fmt.Printf("Last scan: %s\n", snap.TakenAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Devices:   %d\n\n", len(snap.Devices))

		fmt.Printf("Volume groups (%d):\n", len(snap.VolumeGroups))
		for _, vg := range snap.VolumeGroups {
			fmt.Printf("  %-36s size=%d free=%d lvs=%d pvs=%d\n",
				vg.Name, vg.Size, vg.Free, vg.LVCount, vg.PVCount)
		}

		fmt.Printf("\nLogical volumes (%d):\n", len(snap.LogicalVolumes))
		for _, lv := range snap.LogicalVolumes {
			active := ""
			if lv.Active() {
				active = " active"
			}
			fmt.Printf("  %s/%-36s size=%d%s\n", lv.VGName, lv.Name, lv.Size, active)
		}

		fmt.Printf("\nPhysical volumes (%d):\n", len(snap.PhysicalVolumes))
		for _, pv := range snap.PhysicalVolumes {
			fmt.Printf("  %-36s vg=%s size=%d\n", pv.Name, pv.VGName, pv.Size)
		}

		return nil
	},
}

func init() {
	inventoryCmd.Flags().String("config", "", "Path to the agent configuration file")
}
