package frr

import (
	"fmt"

	"github.com/netforge-os/confgen/pkg/routecfg"
	"github.com/netforge-os/confgen/pkg/util"
)

// Render walks the tree in a fixed order: global IPv4 routes, global IPv6
// routes, each policy table (IPv4, IPv6, separator), then the route-map
// line. Absent and empty sections emit nothing. On a structure error no
// statements are returned.
func Render(tree *routecfg.Tree) ([]Statement, error) {
	if tree == nil {
		return nil, nil
	}

	var out []Statement
	var err error

	if out, err = appendRoutes(out, FamilyIPv4, routecfg.KeyRoute, tree.Route, ""); err != nil {
		return nil, err
	}
	if out, err = appendRoutes(out, FamilyIPv6, routecfg.KeyRoute6, tree.Route6, ""); err != nil {
		return nil, err
	}

	if tree.Table.State == routecfg.Populated {
		for _, tbl := range tree.Table.Tables {
			path := routecfg.KeyTable + "." + tbl.ID
			if tbl.ID == "" {
				return nil, util.NewStructureError(routecfg.KeyTable, "table id", "empty key")
			}
			if out, err = appendRoutes(out, FamilyIPv4, path+"."+routecfg.KeyRoute, tbl.Route, tbl.ID); err != nil {
				return nil, err
			}
			if out, err = appendRoutes(out, FamilyIPv6, path+"."+routecfg.KeyRoute6, tbl.Route6, tbl.ID); err != nil {
				return nil, err
			}
			out = append(out, Statement{Kind: KindSeparator})
			util.WithTable(tbl.ID).Debugf("rendered table block")
		}
	}

	if tree.RouteMap != "" {
		out = append(out, Statement{Kind: KindRouteMap, RouteMap: tree.RouteMap})
	}

	util.Debugf("rendered %d static routing statements", len(out))
	return out, nil
}

// Compile parses a configuration document and renders it.
func Compile(data []byte) ([]Statement, error) {
	tree, err := routecfg.Parse(data)
	if err != nil {
		return nil, err
	}
	return Render(tree)
}

func appendRoutes(out []Statement, family Family, path string, sec routecfg.RouteSection, table string) ([]Statement, error) {
	if sec.State != routecfg.Populated {
		return out, nil
	}
	for _, entry := range sec.Entries {
		var err error
		if out, err = appendEntry(out, family, path, entry, table); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// appendEntry emits one statement per enabled next hop, in next-hop order.
func appendEntry(out []Statement, family Family, path string, entry routecfg.RouteEntry, table string) ([]Statement, error) {
	if entry.Prefix == "" {
		return nil, util.NewStructureError(path, "prefix", "empty key")
	}
	for i, hop := range entry.NextHops {
		if hop.Disabled {
			continue
		}
		st := Statement{
			Kind:     KindRoute,
			Family:   family,
			Prefix:   entry.Prefix,
			Tag:      hop.Tag,
			Distance: hop.Distance,
			Table:    table,
		}
		switch hop.Kind {
		case routecfg.NextHopGateway:
			st.Target = hop.Gateway
			st.Interface = hop.Interface
		case routecfg.NextHopInterface:
			st.Target = hop.Interface
		case routecfg.NextHopBlackhole, routecfg.NextHopReject:
			st.Target = string(hop.Kind)
		default:
			return nil, util.NewStructureError(fmt.Sprintf("%s[%q].next_hop[%d]", path, entry.Prefix, i),
				"gateway, interface, blackhole or reject", fmt.Sprintf("%q", hop.Kind))
		}
		if st.Target == "" {
			return nil, util.NewStructureError(fmt.Sprintf("%s[%q].next_hop[%d]", path, entry.Prefix, i),
				"next hop target", "empty value")
		}
		out = append(out, st)
	}
	return out, nil
}
