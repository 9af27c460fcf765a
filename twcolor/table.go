package twcolor

import (
	"fmt"
	"io"
	"sort"

	yaml "gopkg.in/yaml.v3"
)

// Table holds the ramps of every registered color in registration order.
// A Table is not safe for concurrent mutation; callers that share one
// Clone it and swap the copy in.
type Table struct {
	names []string
	ramps map[string]*Ramp
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{ramps: make(map[string]*Ramp)}
}

// Clone returns a copy that can be mutated independently. Ramps are
// immutable and shared.
func (t *Table) Clone() *Table {
	c := &Table{
		names: append([]string(nil), t.names...),
		ramps: make(map[string]*Ramp, len(t.ramps)),
	}
	for k, v := range t.ramps {
		c.ramps[k] = v
	}
	return c
}

// Set regenerates the ramp of name from anchors. It returns the color's
// position in registration order and whether it replaced an existing
// ramp. On error the table is left unchanged.
func (t *Table) Set(name string, anchors Anchors) (index int, replaced bool, err error) {
	if name == "" {
		return -1, false, fmt.Errorf("empty color name")
	}
	ramp, err := NewRamp(anchors)
	if err != nil {
		return -1, false, fmt.Errorf("color %q: %w", name, err)
	}
	index = t.Index(name)
	replaced = index >= 0
	if !replaced {
		index = len(t.names)
		t.names = append(t.names, name)
	}
	t.ramps[name] = ramp
	return index, replaced, nil
}

// Remove tears down the whole ramp of name and returns its former index.
func (t *Table) Remove(name string) (index int, ok bool) {
	index = t.Index(name)
	if index < 0 {
		return -1, false
	}
	t.names = append(t.names[:index], t.names[index+1:]...)
	delete(t.ramps, name)
	return index, true
}

// Index returns the registration position of name or -1.
func (t *Table) Index(name string) int {
	for i, n := range t.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Names returns the color names in registration order.
func (t *Table) Names() []string {
	return append([]string(nil), t.names...)
}

// Ramp returns the ramp for name.
func (t *Table) Ramp(name string) (*Ramp, bool) {
	r, ok := t.ramps[name]
	return r, ok
}

// HasColor reports whether name has a stored level ("" for bare).
func (t *Table) HasColor(name, level string) bool {
	if t == nil {
		return false
	}
	r, ok := t.ramps[name]
	if !ok {
		return false
	}
	_, ok = r.levels[level]
	return ok
}

// ColorAt returns the channels of any integer level of name, in the
// space separated form custom properties use. Levels that are not stored
// are computed with Ramp.At.
func (t *Table) ColorAt(name string, level int) (string, bool) {
	if t == nil {
		return "", false
	}
	r, ok := t.ramps[name]
	if !ok {
		return "", false
	}
	rgb, ok := r.At(level)
	if !ok {
		return "", false
	}
	return rgb.String(), true
}

// Len returns the number of colors.
func (t *Table) Len() int {
	return len(t.names)
}

type snapshotEntry struct {
	Name   string  `yaml:"name"`
	Levels Anchors `yaml:"levels"`
}

// Save writes every ramp, fully expanded, as YAML. The output can be
// read back with Load and reproduces identical ramps.
func (t *Table) Save(w io.Writer) error {
	entries := make([]snapshotEntry, 0, len(t.names))
	for _, n := range t.names {
		entries = append(entries, snapshotEntry{Name: n, Levels: t.ramps[n].Anchors()})
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("twcolor: saving snapshot: %w", err)
	}
	return enc.Close()
}

// Load reads a snapshot written by Save into a new table.
func Load(r io.Reader) (*Table, error) {
	var entries []snapshotEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil && err != io.EOF {
		return nil, fmt.Errorf("twcolor: loading snapshot: %w", err)
	}
	t := NewTable()
	for _, e := range entries {
		if _, _, err := t.Set(e.Name, e.Levels); err != nil {
			return nil, fmt.Errorf("twcolor: loading snapshot: %w", err)
		}
	}
	return t, nil
}

// SortedNames returns the color names sorted by length, longest first,
// so prefix matching prefers "blue-gray" over "blue".
func (t *Table) SortedNames() []string {
	names := t.Names()
	sort.SliceStable(names, func(i, j int) bool { return len(names[i]) > len(names[j]) })
	return names
}
