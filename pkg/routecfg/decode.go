package routecfg

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netforge-os/confgen/pkg/util"
)

// Top-level keys owned by this package. Other keys (interfaces, system, ...)
// belong to other subsystems and are ignored.
const (
	KeyRoute    = "route"
	KeyRoute6   = "route6"
	KeyTable    = "table"
	KeyRouteMap = "route_map"
	keyNextHop  = "next_hop"
)

// LoadFile parses the configuration document at path.
func LoadFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tree, nil
}

// Parse decodes a YAML (or JSON) configuration document. Mapping order in
// the document is kept. A node of the wrong shape yields a
// *util.StructureError.
func Parse(data []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}

	tree := &Tree{}
	if len(doc.Content) == 0 {
		return tree, nil
	}
	root := deref(doc.Content[0])
	if isNull(root) {
		return tree, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, util.NewStructureError("", "mapping", kindName(root))
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i].Value, deref(root.Content[i+1])
		var err error
		switch key {
		case KeyRoute:
			tree.Route, err = decodeRoutes(KeyRoute, val, "")
		case KeyRoute6:
			tree.Route6, err = decodeRoutes(KeyRoute6, val, "")
		case KeyTable:
			tree.Table, err = decodeTables(val)
		case KeyRouteMap:
			tree.RouteMap, err = scalar(KeyRouteMap, val)
		}
		if err != nil {
			return nil, err
		}
	}
	return tree, nil
}

func decodeTables(node *yaml.Node) (TableSection, error) {
	var sec TableSection
	state, err := sectionState(KeyTable, node)
	if err != nil || state != Populated {
		sec.State = state
		return sec, err
	}
	sec.State = Populated

	for i := 0; i+1 < len(node.Content); i += 2 {
		id := node.Content[i].Value
		val := deref(node.Content[i+1])
		path := KeyTable + "." + id

		tbl := Table{ID: id}
		if !isNull(val) {
			if val.Kind != yaml.MappingNode {
				return sec, util.NewStructureError(path, "mapping", kindName(val))
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				sub := val.Content[j].Value
				subVal := deref(val.Content[j+1])
				switch sub {
				case KeyRoute:
					tbl.Route, err = decodeRoutes(path+"."+KeyRoute, subVal, id)
				case KeyRoute6:
					tbl.Route6, err = decodeRoutes(path+"."+KeyRoute6, subVal, id)
				default:
					err = util.NewStructureError(path+"."+sub, "route or route6", "unknown key")
				}
				if err != nil {
					return sec, err
				}
			}
		}
		sec.Tables = append(sec.Tables, tbl)
	}
	return sec, nil
}

func decodeRoutes(path string, node *yaml.Node, tableID string) (RouteSection, error) {
	var sec RouteSection
	state, err := sectionState(path, node)
	if err != nil || state != Populated {
		sec.State = state
		return sec, err
	}
	sec.State = Populated

	for i := 0; i+1 < len(node.Content); i += 2 {
		prefix := node.Content[i].Value
		entry, err := decodeEntry(fmt.Sprintf("%s[%q]", path, prefix), deref(node.Content[i+1]))
		if err != nil {
			return sec, err
		}
		entry.Prefix = prefix
		entry.TableID = tableID
		sec.Entries = append(sec.Entries, entry)
	}
	return sec, nil
}

func decodeEntry(path string, node *yaml.Node) (RouteEntry, error) {
	var entry RouteEntry
	if isNull(node) {
		return entry, nil
	}
	if node.Kind != yaml.MappingNode {
		return entry, util.NewStructureError(path, "mapping", kindName(node))
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := deref(node.Content[i+1])
		if key != keyNextHop {
			return entry, util.NewStructureError(path+"."+key, keyNextHop, "unknown key")
		}
		if isNull(val) {
			continue
		}
		if val.Kind != yaml.SequenceNode {
			return entry, util.NewStructureError(path+"."+keyNextHop, "sequence", kindName(val))
		}
		for j, hopNode := range val.Content {
			hop, err := decodeNextHop(fmt.Sprintf("%s.%s[%d]", path, keyNextHop, j), deref(hopNode))
			if err != nil {
				return entry, err
			}
			entry.NextHops = append(entry.NextHops, hop)
		}
	}
	return entry, nil
}

func decodeNextHop(path string, node *yaml.Node) (NextHop, error) {
	var hop NextHop
	if node.Kind != yaml.MappingNode {
		return hop, util.NewStructureError(path, "mapping", kindName(node))
	}

	var targets []NextHopKind
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := deref(node.Content[i+1])
		keyPath := path + "." + key

		var s string
		var err error
		if !isNull(val) {
			if s, err = scalar(keyPath, val); err != nil {
				return hop, err
			}
		}

		switch key {
		case "gateway":
			hop.Gateway = s
			targets = append(targets, NextHopGateway)
		case "interface":
			hop.Interface = s
		case "blackhole":
			if !isFalse(s) {
				targets = append(targets, NextHopBlackhole)
			}
		case "reject":
			if !isFalse(s) {
				targets = append(targets, NextHopReject)
			}
		case "distance":
			hop.Distance = s
		case "tag":
			hop.Tag = s
		case "disable":
			hop.Disabled = !isFalse(s)
		default:
			return hop, util.NewStructureError(keyPath, "next hop attribute", "unknown key")
		}
	}

	switch {
	case len(targets) > 1:
		return hop, util.NewStructureError(path, "a single next hop target", fmt.Sprintf("%d targets", len(targets)))
	case len(targets) == 1:
		hop.Kind = targets[0]
		if hop.Kind != NextHopGateway && hop.Interface != "" {
			return hop, util.NewStructureError(path+".interface", "no interface on a "+string(hop.Kind)+" next hop", "interface")
		}
	case hop.Interface != "":
		hop.Kind = NextHopInterface
	default:
		return hop, util.NewStructureError(path, "gateway, interface, blackhole or reject", "no target")
	}
	return hop, nil
}

// sectionState classifies a section node. Anything other than null or a
// mapping is a structure error.
func sectionState(path string, node *yaml.Node) (SectionState, error) {
	if isNull(node) {
		return Empty, nil
	}
	if node.Kind != yaml.MappingNode {
		return Absent, util.NewStructureError(path, "mapping", kindName(node))
	}
	if len(node.Content) == 0 {
		return Empty, nil
	}
	return Populated, nil
}

func scalar(path string, node *yaml.Node) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", util.NewStructureError(path, "scalar", kindName(node))
	}
	return node.Value, nil
}

func deref(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	return node
}

func isNull(node *yaml.Node) bool {
	return node == nil || (node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null")
}

func isFalse(s string) bool {
	return strings.EqualFold(s, "false")
}

func kindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	}
	return "unknown node"
}
