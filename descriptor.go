package twstyle

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/gotailwindcss/twstyle/twunit"
)

// Prop is one property and its value, used where a descriptor or a
// semantic alias renders several declarations in a fixed order.
type Prop struct {
	Property string
	Value    string
}

// Semantic is a named alias that resolves to a literal value without value
// parsing. When Props is non-empty the alias renders those declarations
// instead of Value.
type Semantic struct {
	Name  string
	Value string
	Props []Prop
}

// Descriptor defines how one family of utility names maps to CSS.
// Descriptors are plain data; the zero value of every optional field
// disables it. A Descriptor must not be modified after Register.
type Descriptor struct {
	ID string // unique, used by Unregister and per-descriptor configuration

	Match       *regexp.Regexp // tested against the full name
	Semantics   []Semantic
	ColorPrefix string // regexp fragment placed before a color literal
	Symbol      string // single leading character
	Key         string // canonical "key:" prefix
	FullName    bool   // when Key is empty, Properties[0] serves as key

	Properties     []string
	PropertiesFunc func(prefix string) []string // by matched prefix, e.g. "gap-x:"

	Values        map[string]string // parsed value -> replacement
	Unit          string            // default unit, rem when empty
	Unitless      bool
	FixedSelector string
	Colorful      bool // resolve registered color names in values

	ValueFunc func(prefix, value string) string
	OrderFunc func(prefix string) int
}

// Kind is the shape of a descriptor's output.
type Kind int

const (
	KindSingle   Kind = iota // one property, value parsed
	KindByPrefix             // property set chosen from the matched prefix
	KindMapped               // semantic or value aliases drive the value
)

func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindByPrefix:
		return "by-prefix"
	case KindMapped:
		return "mapped"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kind reports the descriptor's shape.
func (d *Descriptor) Kind() Kind {
	switch {
	case d.PropertiesFunc != nil:
		return KindByPrefix
	case len(d.Semantics) > 0 || len(d.Values) > 0:
		return KindMapped
	}
	return KindSingle
}

func (d *Descriptor) unit() string {
	if d.Unitless {
		return ""
	}
	if d.Unit == "" {
		return twunit.REM
	}
	return d.Unit
}

func (d *Descriptor) key() string {
	if d.Key != "" {
		return d.Key
	}
	if d.FullName && len(d.Properties) > 0 {
		return d.Properties[0]
	}
	return ""
}

func (d *Descriptor) properties(prefix string) []string {
	if d.PropertiesFunc != nil {
		return d.PropertiesFunc(prefix)
	}
	return d.Properties
}

// clone returns a copy whose slices and maps may be changed without
// affecting d.
func (d *Descriptor) clone() *Descriptor {
	c := *d
	c.Semantics = append([]Semantic(nil), d.Semantics...)
	c.Properties = append([]string(nil), d.Properties...)
	if d.Values != nil {
		c.Values = make(map[string]string, len(d.Values))
		for k, v := range d.Values {
			c.Values[k] = v
		}
	}
	return &c
}

// entry is a registered descriptor with its derived matching data.
type entry struct {
	*Descriptor
	semantics []Semantic // longest name first
	colorRe   *regexp.Regexp
}

func newEntry(d *Descriptor) (*entry, error) {
	if d.ID == "" {
		return nil, fmt.Errorf("descriptor has no ID")
	}
	if len(d.Symbol) > 1 {
		return nil, fmt.Errorf("descriptor %q: symbol %q is more than one character", d.ID, d.Symbol)
	}
	if len(d.Properties) == 0 && d.PropertiesFunc == nil {
		return nil, fmt.Errorf("descriptor %q has no properties", d.ID)
	}
	e := &entry{Descriptor: d}
	if d.ColorPrefix != "" {
		re, err := regexp.Compile("^(?:" + d.ColorPrefix + ")")
		if err != nil {
			return nil, fmt.Errorf("descriptor %q: color prefix: %w", d.ID, err)
		}
		e.colorRe = re
	}
	e.semantics = append([]Semantic(nil), d.Semantics...)
	sort.SliceStable(e.semantics, func(i, j int) bool {
		return len(e.semantics[i].Name) > len(e.semantics[j].Name)
	})
	return e, nil
}

func (e *entry) semantic(name string) (Semantic, bool) {
	for _, s := range e.semantics {
		if s.Name == name {
			return s, true
		}
	}
	return Semantic{}, false
}
