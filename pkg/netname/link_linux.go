package netname

import (
	"fmt"
	"path/filepath"

	"github.com/safchain/ethtool"
	"github.com/vishvananda/netlink"

	"github.com/netforge-os/confgen/pkg/util"
)

// EventFromLink builds an AttachEvent from a live link. A link is driver
// linked when ethtool reports bus info for it, which holds for devices that
// sit on a bus (PCI, USB, SDIO) and not for software links.
func EventFromLink(name string) (AttachEvent, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return AttachEvent{}, fmt.Errorf("looking up link %s: %w", name, err)
	}
	attrs := link.Attrs()

	ev := AttachEvent{
		KernelName:   attrs.Name,
		DriverLinked: busLinked(attrs.Name, link.Type()),
	}
	if len(attrs.HardwareAddr) > 0 {
		ev.HardwareAddress = attrs.HardwareAddr.String()
	}

	switch attrs.EncapType {
	case "ether":
		ev.Class = classify(arphrdEther, isWireless(filepath.Join(DefaultSysfsRoot, attrs.Name)))
	case "ieee802.11/radiotap":
		ev.Class = ClassWirelessVirtual
	default:
		ev.Class = ClassOther
	}
	return ev, nil
}

// busLinked asks ethtool for the device's bus address. Without ethtool
// access it falls back to the netlink link type: only "device" links are
// backed by hardware.
func busLinked(name, linkType string) bool {
	et, err := ethtool.NewEthtool()
	if err != nil {
		util.WithInterface(name).Debugf("ethtool unavailable: %v", err)
		return linkType == "device"
	}
	defer et.Close()

	bus, err := et.BusInfo(name)
	if err != nil {
		util.WithInterface(name).Debugf("ethtool bus info: %v", err)
		return linkType == "device"
	}
	return bus != ""
}
