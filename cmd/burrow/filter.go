package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/burrowvirt/burrow/pkg/config"
	"github.com/burrowvirt/burrow/pkg/lvm"
	"github.com/burrowvirt/burrow/pkg/multipath"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Print the lvm device filter for this host",
	Long: `Print the device filter and full lvm configuration built from the
devices currently visible to this host. Useful for debugging device
visibility problems without running any lvm command.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		full, _ := cmd.Flags().GetBool("full")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		devices, err := multipath.New().Devices()
		if err != nil {
			return err
		}
		devices = append(devices, cfg.LVM.UserDevices...)

		filter := lvm.BuildFilter(devices)
		if full {
			fmt.Println(lvm.BuildConfig(filter, lvm.LockShared))
		} else {
			fmt.Println(filter)
		}
		return nil
	},
}

func init() {
	filterCmd.Flags().String("config", "", "Path to the agent configuration file")
	filterCmd.Flags().Bool("full", false, "Print the full lvm configuration text")
}
