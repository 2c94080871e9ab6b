package netname

import (
	"regexp"

	"github.com/netforge-os/confgen/pkg/hwid"
	"github.com/netforge-os/confgen/pkg/util"
)

// ethernetName is the naming convention a predefined name must follow.
var ethernetName = regexp.MustCompile(`^eth[0-9]+$`)

// guard inspects an event and either decides (ok == true) or defers to the
// next guard in the chain.
type guard func(ev *AttachEvent, table *hwid.Table) (d Decision, ok bool)

// chain is evaluated in order. Precedence matters: cheap exclusions first,
// then the predefined name, then table lookups.
var chain = []guard{
	guardAlreadyNamed,
	guardIneligibleClass,
	guardWirelessVirtual,
	guardPredefinedName,
	guardDriverLinked,
	guardAddressOnly,
}

// Resolve decides the logical name for a device. It never fails: a miss is
// reported as a decision without a name. The table is only read, so Resolve
// may run concurrently for distinct events against the same table.
func Resolve(ev AttachEvent, table *hwid.Table) Decision {
	d := noMatch(RuleNoMatch)
	for _, g := range chain {
		if decided, ok := g(&ev, table); ok {
			d = decided
			break
		}
	}
	util.WithInterface(ev.KernelName).WithField("rule", d.Rule).Debugf("naming decision: %s", d)
	return d
}

func guardAlreadyNamed(ev *AttachEvent, _ *hwid.Table) (Decision, bool) {
	if ev.CurrentName != "" {
		return noMatch(RuleAlreadyNamed), true
	}
	return Decision{}, false
}

func guardIneligibleClass(ev *AttachEvent, _ *hwid.Table) (Decision, bool) {
	if ev.Class != ClassEthernet && ev.Class != ClassWirelessPhysical {
		return noMatch(RuleIneligible), true
	}
	return Decision{}, false
}

// Monitor-mode shadows of a radio must never take the radio's binding.
func guardWirelessVirtual(ev *AttachEvent, _ *hwid.Table) (Decision, bool) {
	if ev.Class == ClassWirelessVirtual {
		return noMatch(RuleWirelessVirtual), true
	}
	return Decision{}, false
}

func guardPredefinedName(ev *AttachEvent, table *hwid.Table) (Decision, bool) {
	if ev.Class != ClassEthernet || !ethernetName.MatchString(ev.PredefinedName) {
		return Decision{}, false
	}
	if b, ok := table.LookupName(ev.PredefinedName); ok &&
		ev.HardwareAddress != "" && b.Fingerprint != hwid.NormalizeFingerprint(ev.HardwareAddress) {
		util.WithInterface(ev.KernelName).Warnf("predefined name %s is bound to %s in the hardware id table, device has %s",
			ev.PredefinedName, b.Fingerprint, ev.HardwareAddress)
	}
	return resolved(ev.PredefinedName, RulePredefinedName), true
}

func guardDriverLinked(ev *AttachEvent, table *hwid.Table) (Decision, bool) {
	if !ev.DriverLinked {
		return Decision{}, false
	}
	if b, ok := table.Lookup(ev.HardwareAddress); ok {
		util.WithInterface(ev.KernelName).Debugf("hardware id %s bound to %s", ev.HardwareAddress, b.Name)
		return resolved(b.Name, RuleDriverLinked), true
	}
	return Decision{}, false
}

// Devices without a bus or driver link can still be pinned by address.
func guardAddressOnly(ev *AttachEvent, table *hwid.Table) (Decision, bool) {
	if ev.DriverLinked {
		return Decision{}, false
	}
	if b, ok := table.Lookup(ev.HardwareAddress); ok {
		return resolved(b.Name, RuleAddressOnly), true
	}
	return Decision{}, false
}
