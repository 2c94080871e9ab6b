package netname

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultSysfsRoot is where the kernel exposes network device attributes.
const DefaultSysfsRoot = "/sys/class/net"

// ARPHRD_* link types from linux/if_arp.h
const (
	arphrdEther             = 1
	arphrdIEEE80211Radiotap = 803
)

// EventFromSysfs builds an AttachEvent for kernelName from the attribute
// files under root. Missing attribute files leave the matching field empty.
func EventFromSysfs(root, kernelName string) (AttachEvent, error) {
	if root == "" {
		root = DefaultSysfsRoot
	}
	dir := filepath.Join(root, kernelName)
	if _, err := os.Stat(dir); err != nil {
		return AttachEvent{}, fmt.Errorf("device %s: %w", kernelName, err)
	}

	ev := AttachEvent{
		KernelName:      kernelName,
		HardwareAddress: readAttr(dir, "address"),
	}
	if _, err := os.Stat(filepath.Join(dir, "device", "driver")); err == nil {
		ev.DriverLinked = true
	}

	linkType, _ := strconv.Atoi(readAttr(dir, "type"))
	ev.Class = classify(linkType, isWireless(dir))
	return ev, nil
}

func classify(linkType int, wireless bool) DeviceClass {
	switch {
	case linkType == arphrdIEEE80211Radiotap:
		return ClassWirelessVirtual
	case linkType == arphrdEther && wireless:
		return ClassWirelessPhysical
	case linkType == arphrdEther:
		return ClassEthernet
	}
	return ClassOther
}

// isWireless reports whether a device directory belongs to a cfg80211 radio.
func isWireless(dir string) bool {
	for _, name := range []string{"phy80211", "wireless"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

func readAttr(dir, name string) string {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
