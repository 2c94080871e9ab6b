package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netforge-os/confgen/pkg/netname"
)

var (
	resolveEvent netname.AttachEvent
	resolveClass string
	resolveLink  string
	resolveSysfs string
	resolveRoot  string
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Show the logical name a network device would get",
	Long: `Run the naming decision for one device and print the result.

The device is described by flags, or read from a live link (--link, via
netlink) or from sysfs (--sysfs). Hint and current-name flags apply on top of
--link and --sysfs.

Examples:
  confgen resolve --kernel-name enp3s0 --address 00:0c:29:aa:bb:01 --driver-linked
  confgen resolve --link enp3s0
  confgen resolve --sysfs enp3s0 --hint eth2 --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ev, err := resolveInput()
		if err != nil {
			return err
		}

		table, err := app.hwidSource().Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading hardware-ID table: %w", err)
		}

		d := netname.Resolve(ev, table)
		if app.jsonOutput {
			return printJSON(os.Stdout, struct {
				Event    netname.AttachEvent `json:"event"`
				Decision netname.Decision    `json:"decision"`
			}{ev, d})
		}
		fmt.Printf("%s: %s\n", ev, d)
		return nil
	},
}

func resolveInput() (netname.AttachEvent, error) {
	var ev netname.AttachEvent
	var err error

	switch {
	case resolveLink != "" && resolveSysfs != "":
		return ev, fmt.Errorf("--link and --sysfs are mutually exclusive")
	case resolveLink != "":
		ev, err = netname.EventFromLink(resolveLink)
	case resolveSysfs != "":
		ev, err = netname.EventFromSysfs(resolveRoot, resolveSysfs)
	default:
		if resolveEvent.KernelName == "" {
			return ev, fmt.Errorf("--kernel-name is required without --link or --sysfs")
		}
		ev = resolveEvent
		ev.Class = netname.ParseDeviceClass(resolveClass)
		return ev, nil
	}
	if err != nil {
		return ev, err
	}

	if resolveEvent.PredefinedName != "" {
		ev.PredefinedName = resolveEvent.PredefinedName
	}
	if resolveEvent.CurrentName != "" {
		ev.CurrentName = resolveEvent.CurrentName
	}
	return ev, nil
}

func init() {
	f := resolveCmd.Flags()
	f.StringVar(&resolveEvent.KernelName, "kernel-name", "", "Kernel-assigned device name")
	f.StringVar(&resolveEvent.HardwareAddress, "address", "", "Hardware address")
	f.StringVar(&resolveClass, "class", string(netname.ClassEthernet), "Device class: ethernet, wireless-physical, wireless-virtual, other")
	f.BoolVar(&resolveEvent.DriverLinked, "driver-linked", false, "Device is bound to a driver")
	f.StringVar(&resolveEvent.PredefinedName, "hint", "", "Predefined name suggested by the event subsystem")
	f.StringVar(&resolveEvent.CurrentName, "current-name", "", "Name already assigned by an earlier rule")
	f.StringVar(&resolveLink, "link", "", "Describe the device from a live link via netlink")
	f.StringVar(&resolveSysfs, "sysfs", "", "Describe the device from sysfs")
	f.StringVar(&resolveRoot, "sysfs-root", netname.DefaultSysfsRoot, "sysfs network class directory")
	f.BoolVar(&app.jsonOutput, "json", false, "JSON output")
}
