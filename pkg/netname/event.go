// Package netname decides the persistent logical name of a network device
// when the kernel announces it.
//
// The decision is an ordered chain of guards evaluated against one
// AttachEvent and a read-only hardware identity table. The first guard that
// reaches a decision ends the chain; when none does, the device keeps the
// name the kernel gave it.
package netname

import "fmt"

// DeviceClass classifies an attaching device.
type DeviceClass string

const (
	ClassEthernet         DeviceClass = "ethernet"
	ClassWirelessPhysical DeviceClass = "wireless-physical"
	// ClassWirelessVirtual is a secondary monitor-mode interface that a
	// wireless driver creates on top of a physical radio.
	ClassWirelessVirtual DeviceClass = "wireless-virtual"
	ClassOther           DeviceClass = "other"
)

// ParseDeviceClass converts a class name. Unknown names map to ClassOther.
func ParseDeviceClass(s string) DeviceClass {
	switch DeviceClass(s) {
	case ClassEthernet, ClassWirelessPhysical, ClassWirelessVirtual:
		return DeviceClass(s)
	}
	return ClassOther
}

// AttachEvent describes one hardware-add notification for a network device.
type AttachEvent struct {
	// KernelName is the name the kernel assigned at enumeration time.
	KernelName string `json:"kernel_name"`
	// CurrentName is a name some earlier rule already assigned, if any.
	CurrentName     string      `json:"current_name,omitempty"`
	HardwareAddress string      `json:"hardware_address,omitempty"`
	DriverLinked    bool        `json:"driver_linked"`
	Class           DeviceClass `json:"class"`
	// PredefinedName is a name suggested by an upstream naming authority.
	PredefinedName string `json:"predefined_name,omitempty"`
}

func (e AttachEvent) String() string {
	return fmt.Sprintf("%s (addr=%q class=%s driver=%t)", e.KernelName, e.HardwareAddress, e.Class, e.DriverLinked)
}

// Rule identifies the guard that produced a decision.
type Rule string

const (
	RuleAlreadyNamed    Rule = "already-named"
	RuleIneligible      Rule = "ineligible-class"
	RuleWirelessVirtual Rule = "wireless-virtual"
	RulePredefinedName  Rule = "predefined-name"
	RuleDriverLinked    Rule = "hwid-driver-linked"
	RuleAddressOnly     Rule = "hwid-address-only"
	RuleNoMatch         Rule = "no-match"
)

// Decision is the outcome of resolving one event. A decision without a Name
// means no match: the device keeps its kernel name for this boot.
type Decision struct {
	Name string `json:"name,omitempty"`
	Rule Rule   `json:"rule"`
}

// Matched reports whether a logical name was resolved.
func (d Decision) Matched() bool {
	return d.Name != ""
}

func (d Decision) String() string {
	if !d.Matched() {
		return "no match (" + string(d.Rule) + ")"
	}
	return d.Name + " (" + string(d.Rule) + ")"
}

func resolved(name string, rule Rule) Decision {
	return Decision{Name: name, Rule: rule}
}

func noMatch(rule Rule) Decision {
	return Decision{Rule: rule}
}
