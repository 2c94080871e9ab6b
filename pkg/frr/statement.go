// Package frr renders a static routing configuration tree into FRR
// configuration statements.
//
// Rendering is a pure transform: the same tree always yields the same
// statements, and a tree with a structural defect yields no statements at
// all.
package frr

import "strings"

// Family is the address-family keyword that starts a route statement.
type Family string

const (
	FamilyIPv4 Family = "ip"
	FamilyIPv6 Family = "ipv6"
)

// Kind distinguishes the statement forms.
type Kind int

const (
	KindRoute Kind = iota
	KindSeparator
	KindRouteMap
)

// Separator is the directive line placed after each table block.
const Separator = "!"

// Statement is one line of daemon configuration.
type Statement struct {
	Kind   Kind
	Family Family
	Prefix string
	// Target is a gateway address, an interface name, "blackhole" or "reject".
	Target string
	// Interface qualifies a gateway target with an outgoing interface.
	Interface string
	Tag       string
	Distance  string
	Table     string
	RouteMap  string
}

// String formats the statement in FRR syntax:
//
//	ip route <prefix> <target> [<ifname>] [tag <tag>] [<distance>] [table <id>]
//	ip protocol static route-map <name>
//	!
func (s Statement) String() string {
	switch s.Kind {
	case KindSeparator:
		return Separator
	case KindRouteMap:
		return "ip protocol static route-map " + s.RouteMap
	}

	parts := []string{string(s.Family), "route", s.Prefix, s.Target}
	if s.Interface != "" {
		parts = append(parts, s.Interface)
	}
	if s.Tag != "" {
		parts = append(parts, "tag", s.Tag)
	}
	if s.Distance != "" {
		parts = append(parts, s.Distance)
	}
	if s.Table != "" {
		parts = append(parts, "table", s.Table)
	}
	return strings.Join(parts, " ")
}

// Text joins statements into one configuration block, one per line.
func Text(stmts []Statement) string {
	if len(stmts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, s := range stmts {
		b.WriteString(s.String())
		b.WriteByte('\n')
	}
	return b.String()
}
