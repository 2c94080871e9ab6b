// Package hwid holds the hardware identity table: the user-maintained mapping
// from a hardware address to the logical interface name it must receive.
//
// A Table is immutable once built. Resolvers receive it as an argument so
// that concurrent naming decisions never share mutable state.
package hwid

import (
	"fmt"
	"net"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/netforge-os/confgen/pkg/util"
)

// Binding ties one hardware fingerprint to a logical interface name.
type Binding struct {
	Name        string `json:"name" yaml:"name" toml:"name" validate:"required,max=15,excludesall=/"`
	Fingerprint string `json:"hw_id" yaml:"hw_id" toml:"hw_id" validate:"required,mac"`
}

// Table is an ordered, read-only set of bindings keyed by fingerprint.
type Table struct {
	bindings []Binding
	byAddr   map[string]int
}

var validate = validator.New()

// NormalizeFingerprint returns the canonical lower-case, colon separated
// form of a hardware address. Strings that are not hardware addresses are
// only trimmed and lower-cased.
func NormalizeFingerprint(s string) string {
	s = strings.TrimSpace(s)
	if hw, err := net.ParseMAC(s); err == nil {
		return hw.String()
	}
	return strings.ToLower(s)
}

// NewTable validates the bindings and builds a table. Binding order is kept.
// A fingerprint may appear at most once.
func NewTable(bindings []Binding) (*Table, error) {
	v := &util.ValidationBuilder{}
	for i, b := range bindings {
		if err := validate.Struct(b); err != nil {
			if verrs, ok := err.(validator.ValidationErrors); ok {
				for _, fe := range verrs {
					v.AddErrorf("binding %d (%s): %s failed on '%s'", i, b.Name, fe.Field(), fe.Tag())
				}
				continue
			}
			return nil, fmt.Errorf("validating binding %d: %w", i, err)
		}
	}
	if err := v.Build(); err != nil {
		return nil, err
	}

	t := &Table{
		bindings: make([]Binding, 0, len(bindings)),
		byAddr:   make(map[string]int, len(bindings)),
	}
	for _, b := range bindings {
		b.Fingerprint = NormalizeFingerprint(b.Fingerprint)
		if idx, dup := t.byAddr[b.Fingerprint]; dup {
			return nil, util.NewDuplicateBindingError(b.Fingerprint, t.bindings[idx].Name, b.Name)
		}
		t.byAddr[b.Fingerprint] = len(t.bindings)
		t.bindings = append(t.bindings, b)
	}
	return t, nil
}

// Lookup returns the binding for a fingerprint. A nil table matches nothing.
func (t *Table) Lookup(fingerprint string) (Binding, bool) {
	if t == nil || fingerprint == "" {
		return Binding{}, false
	}
	idx, ok := t.byAddr[NormalizeFingerprint(fingerprint)]
	if !ok {
		return Binding{}, false
	}
	return t.bindings[idx], true
}

// LookupName returns the first binding that assigns the given logical name.
func (t *Table) LookupName(name string) (Binding, bool) {
	if t == nil {
		return Binding{}, false
	}
	for _, b := range t.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Bindings returns a copy of the bindings in table order.
func (t *Table) Bindings() []Binding {
	if t == nil {
		return nil
	}
	out := make([]Binding, len(t.bindings))
	copy(out, t.bindings)
	return out
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bindings)
}
