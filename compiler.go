// Package twstyle compiles utility class names such as "bg-origin:center@>sm"
// into CSS rule text.
//
// A Compiler holds an ordered registry of Descriptors plus the shared
// configuration (breakpoints, media query aliases, colors and semantic
// classes). Names are matched against the registry, their value is
// tokenized and resolved, and the suffix after the value becomes a
// selector and nested at-rules. Configuration changes are published as
// immutable snapshots so Compile may run concurrently with them.
package twstyle

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gotailwindcss/twstyle/twcolor"
)

// ErrUnmatched is returned by Compile when no descriptor accepts a name.
var ErrUnmatched = errors.New("no style matches class name")

// state is one immutable configuration snapshot.
type state struct {
	entries      []*entry
	breakpoints  map[string]string
	mediaQueries map[string]string
	classes      map[string][]string // semantic class -> literal class names
	relations    map[string][]string // literal class name -> semantic classes
	colors       *twcolor.Table
	colorNames   []string // longest first
}

func newState() *state {
	return &state{
		breakpoints:  make(map[string]string),
		mediaQueries: make(map[string]string),
		classes:      make(map[string][]string),
		relations:    make(map[string][]string),
		colors:       twcolor.NewTable(),
	}
}

// clone returns a shallow copy; callers replace the fields they change.
func (s *state) clone() *state {
	c := *s
	return &c
}

// Compiler compiles class names against its registry. The zero value is
// not usable; call New.
type Compiler struct {
	log  *zap.Logger
	mu   sync.Mutex // serializes writers
	snap atomic.Pointer[state]
}

// New returns a Compiler with an empty registry. A nil log disables
// logging.
func New(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Compiler{log: log.Named("twstyle")}
	c.snap.Store(newState())
	return c
}

func (c *Compiler) load() *state {
	return c.snap.Load()
}

// update runs f on a copy of the current state under the writer lock and
// publishes the copy.
func (c *Compiler) update(f func(s *state) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.load().clone()
	err := f(s)
	c.snap.Store(s)
	return err
}

// Register appends descriptors to the registry. Registration order breaks
// ties between descriptors that accept the same name. Invalid descriptors
// are skipped and reported; valid ones in the same call are registered.
func (c *Compiler) Register(ds ...*Descriptor) error {
	return c.update(func(s *state) error {
		var errs error
		entries := append([]*entry(nil), s.entries...)
	next:
		for _, d := range ds {
			for _, e := range entries {
				if e.ID == d.ID {
					errs = multierr.Append(errs, fmt.Errorf("descriptor %q already registered", d.ID))
					continue next
				}
			}
			e, err := newEntry(d.clone())
			if err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			entries = append(entries, e)
		}
		s.entries = entries
		return errs
	})
}

// Unregister removes the descriptor with id and reports whether it was
// registered.
func (c *Compiler) Unregister(id string) bool {
	found := false
	c.update(func(s *state) error {
		entries := make([]*entry, 0, len(s.entries))
		for _, e := range s.entries {
			if e.ID == id {
				found = true
				continue
			}
			entries = append(entries, e)
		}
		s.entries = entries
		return nil
	})
	return found
}

// UnregisterSemantic removes the semantic alias from every descriptor
// that defines it and returns how many did.
func (c *Compiler) UnregisterSemantic(alias string) int {
	n := 0
	c.update(func(s *state) error {
		entries := make([]*entry, len(s.entries))
		for i, e := range s.entries {
			entries[i] = e
			if _, ok := e.semantic(alias); !ok {
				continue
			}
			d := e.Descriptor.clone()
			d.Semantics = d.Semantics[:0]
			for _, sem := range e.Descriptor.Semantics {
				if sem.Name != alias {
					d.Semantics = append(d.Semantics, sem)
				}
			}
			ne, err := newEntry(d)
			if err != nil {
				return err
			}
			entries[i] = ne
			n++
		}
		s.entries = entries
		return nil
	})
	return n
}

// Descriptors returns the registered descriptors in registration order.
func (c *Compiler) Descriptors() []*Descriptor {
	s := c.load()
	ret := make([]*Descriptor, len(s.entries))
	for i, e := range s.entries {
		ret[i] = e.Descriptor
	}
	return ret
}

// ClassNames returns the literal class names the semantic class aliases,
// as configured with Extend(Classes, ...).
func (c *Compiler) ClassNames(semantic string) ([]string, bool) {
	names, ok := c.load().classes[semantic]
	if !ok {
		return nil, false
	}
	return append([]string(nil), names...), true
}

// Colors returns a copy of the current color table.
func (c *Compiler) Colors() *twcolor.Table {
	return c.load().colors.Clone()
}
