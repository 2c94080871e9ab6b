// Package routecfg models the static routing part of a router configuration
// tree: global IPv4/IPv6 routes, routes in policy routing tables and the
// route-map applied to static routes.
//
// Values (prefixes, addresses, distances) are kept verbatim as the schema
// layer validated them. Only the shape of the tree is checked here.
package routecfg

// SectionState tells a missing section apart from one that is present but
// has no entries.
type SectionState int

const (
	// Absent: the key does not appear in the document.
	Absent SectionState = iota
	// Empty: the key is present with a null or empty mapping value.
	Empty
	// Populated: the key holds at least one entry.
	Populated
)

func (s SectionState) String() string {
	switch s {
	case Absent:
		return "absent"
	case Empty:
		return "empty"
	case Populated:
		return "populated"
	}
	return "unknown"
}

// NextHopKind is the forwarding target type of a next hop.
type NextHopKind string

const (
	NextHopGateway   NextHopKind = "gateway"
	NextHopInterface NextHopKind = "interface"
	NextHopBlackhole NextHopKind = "blackhole"
	NextHopReject    NextHopKind = "reject"
)

// NextHop is one forwarding target of a route.
type NextHop struct {
	Kind NextHopKind
	// Gateway is the next-hop address for NextHopGateway.
	Gateway string
	// Interface is the outgoing interface: the target itself for
	// NextHopInterface, or an optional qualifier for NextHopGateway.
	Interface string
	Tag       string
	Distance  string
	Disabled  bool
}

// RouteEntry is one prefix with its next hops in configuration order.
type RouteEntry struct {
	Prefix   string
	NextHops []NextHop
	// TableID is empty for the main table.
	TableID string
}

// RouteSection is a prefix -> RouteEntry mapping in document order.
type RouteSection struct {
	State   SectionState
	Entries []RouteEntry
}

// Table holds the routes of one policy routing table.
type Table struct {
	ID     string
	Route  RouteSection
	Route6 RouteSection
}

// TableSection is the table-id -> Table mapping in document order.
type TableSection struct {
	State  SectionState
	Tables []Table
}

// Tree is an immutable snapshot of the static routing configuration.
type Tree struct {
	Route    RouteSection
	Route6   RouteSection
	Table    TableSection
	RouteMap string
}
