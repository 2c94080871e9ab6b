package hwid

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk layout shared by the YAML and TOML formats.
type tableFile struct {
	Bindings []Binding `yaml:"bindings" toml:"bindings"`
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadFile reads a table from a YAML file, or a TOML file when the path ends
// in .toml. A missing file yields an empty table.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewTable(nil)
		}
		return nil, fmt.Errorf("reading hardware id table: %w", err)
	}

	var f tableFile
	if isTOML(path) {
		if err := toml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing hardware id table %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing hardware id table %s: %w", path, err)
		}
	}

	t, err := NewTable(f.Bindings)
	if err != nil {
		return nil, fmt.Errorf("loading hardware id table %s: %w", path, err)
	}
	return t, nil
}

// WriteFile stores the table at path in the format selected by its extension.
func WriteFile(path string, t *Table) error {
	f := tableFile{Bindings: t.Bindings()}

	var data []byte
	var err error
	if isTOML(path) {
		data, err = toml.Marshal(f)
	} else {
		data, err = yaml.Marshal(f)
	}
	if err != nil {
		return fmt.Errorf("encoding hardware id table: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// configDoc is the part of a router configuration document that carries
// hardware ids: interfaces.ethernet.<name>.hw_id.
type configDoc struct {
	Interfaces struct {
		Ethernet map[string]struct {
			HWID string `yaml:"hw_id"`
		} `yaml:"ethernet"`
	} `yaml:"interfaces"`
}

// FromConfig builds a table from the interfaces section of a configuration
// document. Interfaces without a hw_id are ignored. Bindings are ordered by
// interface name.
func FromConfig(data []byte) (*Table, error) {
	var doc configDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing interfaces section: %w", err)
	}

	names := make([]string, 0, len(doc.Interfaces.Ethernet))
	for name, eth := range doc.Interfaces.Ethernet {
		if eth.HWID != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	bindings := make([]Binding, 0, len(names))
	for _, name := range names {
		bindings = append(bindings, Binding{Name: name, Fingerprint: doc.Interfaces.Ethernet[name].HWID})
	}
	return NewTable(bindings)
}
