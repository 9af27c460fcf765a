// Package twsheet collects compiled utility rules into an ordered,
// deduplicated stylesheet.
package twsheet

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gotailwindcss/twstyle"
)

// Sheet is a stylesheet of compiled class names. Color variable rules are
// written first, in color registration order, followed by class rules
// sorted by Order, then PriorityRank (unranked first), then insertion.
// A Sheet is safe for concurrent use.
type Sheet struct {
	c   *twstyle.Compiler
	log *zap.Logger

	rwmu    sync.RWMutex
	vars    []variables
	names   []string // insertion order, including names that failed
	known   map[string]bool
	rules   []rule
	hashes  map[uint64]bool
	seq     int
	version uint64
	minify  bool
}

type variables struct {
	name string
	text string
}

type rule struct {
	style *twstyle.Style
	seq   int
	hash  uint64
}

// New returns an empty Sheet compiling names with c. A nil log disables
// logging.
func New(c *twstyle.Compiler, log *zap.Logger) *Sheet {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sheet{
		c:      c,
		log:    log.Named("twsheet"),
		known:  make(map[string]bool),
		hashes: make(map[uint64]bool),
	}
}

// Compiler returns the compiler the sheet uses.
func (s *Sheet) Compiler() *twstyle.Compiler {
	return s.c
}

// SetMinify enables minified output from WriteTo.
func (s *Sheet) SetMinify(enabled bool) {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	s.minify = enabled
}

// Version increases every time the sheet content changes.
func (s *Sheet) Version() uint64 {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.version
}

// Add compiles and inserts names. A semantic class name configured with
// Extend(Classes, ...) adds the rules of its literal class names. Names
// already in the sheet are skipped. Names that fail to compile are
// remembered, so a later Refresh picks them up once the configuration
// accepts them, and their errors are returned combined.
func (s *Sheet) Add(names ...string) error {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()

	var errs error
	changed := false
	for _, n := range names {
		if s.known[n] {
			continue
		}
		s.known[n] = true
		s.names = append(s.names, n)
		styles, err := s.compile(n)
		errs = multierr.Append(errs, err)
		for _, st := range styles {
			if s.insert(st) {
				changed = true
			}
		}
	}
	if changed {
		s.version++
	}
	return errs
}

// compile compiles n, or the literal names n aliases when n is a
// semantic class.
func (s *Sheet) compile(n string) ([]*twstyle.Style, error) {
	literals, ok := s.c.ClassNames(n)
	if !ok {
		st, err := s.c.Compile(n)
		if err != nil {
			return nil, err
		}
		return []*twstyle.Style{st}, nil
	}

	var errs error
	styles := make([]*twstyle.Style, 0, len(literals))
	for _, l := range literals {
		st, err := s.c.Compile(l)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("class %q: %w", n, err))
			continue
		}
		styles = append(styles, st)
	}
	return styles, errs
}

// Insert adds an already compiled style and reports whether the sheet
// changed. Styles whose rule text is already present are dropped.
func (s *Sheet) Insert(st *twstyle.Style) bool {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	if !s.known[st.Name] {
		s.known[st.Name] = true
		s.names = append(s.names, st.Name)
	}
	if !s.insert(st) {
		return false
	}
	s.version++
	return true
}

func (s *Sheet) insert(st *twstyle.Style) bool {
	h := xxhash.Sum64([]byte(st.Text))
	if s.hashes[h] {
		return false
	}
	s.hashes[h] = true
	r := rule{style: st, seq: s.seq, hash: h}
	s.seq++

	i := sort.Search(len(s.rules), func(i int) bool {
		return less(r, s.rules[i])
	})
	s.rules = append(s.rules, rule{})
	copy(s.rules[i+1:], s.rules[i:])
	s.rules[i] = r
	return true
}

func less(a, b rule) bool {
	if a.style.Order != b.style.Order {
		return a.style.Order < b.style.Order
	}
	if a.style.PriorityRank != b.style.PriorityRank {
		return a.style.PriorityRank < b.style.PriorityRank
	}
	return a.seq < b.seq
}

// Apply performs the sheet operations returned by Compiler.Extend.
func (s *Sheet) Apply(ops []twstyle.SheetOp) error {
	var errs error
	for _, op := range ops {
		switch op.Kind {
		case twstyle.OpSetVariables:
			s.setVariables(op.Name, op.Index, op.Text)
		case twstyle.OpDeleteVariables:
			s.deleteVariables(op.Name, op.Index)
		case twstyle.OpRefresh:
			errs = multierr.Append(errs, s.Refresh())
		default:
			errs = multierr.Append(errs, fmt.Errorf("unknown sheet operation %v", op.Kind))
		}
	}
	return errs
}

func (s *Sheet) setVariables(name string, index int, text string) {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()
	s.version++

	for i := range s.vars {
		if s.vars[i].name == name {
			s.vars[i].text = text
			return
		}
	}
	if index < 0 || index > len(s.vars) {
		index = len(s.vars)
	}
	s.vars = append(s.vars, variables{})
	copy(s.vars[index+1:], s.vars[index:])
	s.vars[index] = variables{name: name, text: text}
}

func (s *Sheet) deleteVariables(name string, index int) {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()

	if index < 0 || index >= len(s.vars) || s.vars[index].name != name {
		index = -1
		for i := range s.vars {
			if s.vars[i].name == name {
				index = i
				break
			}
		}
	}
	if index < 0 {
		return
	}
	s.vars = append(s.vars[:index], s.vars[index+1:]...)
	s.version++
}

// Refresh recompiles every name the sheet has seen against the current
// configuration, expanding semantic classes with their current literal
// names. Names that no longer compile drop out of the output until a
// later Refresh accepts them again.
func (s *Sheet) Refresh() error {
	s.rwmu.Lock()
	defer s.rwmu.Unlock()

	old := s.rules
	s.rules = nil
	s.hashes = make(map[uint64]bool, len(old))
	s.seq = 0

	var errs error
	for _, n := range s.names {
		styles, err := s.compile(n)
		errs = multierr.Append(errs, err)
		for _, st := range styles {
			s.insert(st)
		}
	}

	changed := len(old) != len(s.rules)
	for i := 0; !changed && i < len(old); i++ {
		changed = old[i].hash != s.rules[i].hash
	}
	if changed {
		s.version++
	}
	s.log.Debug("refreshed sheet", zap.Int("names", len(s.names)), zap.Int("rules", len(s.rules)), zap.Bool("changed", changed))
	return errs
}

// Names returns every name added to the sheet in insertion order.
func (s *Sheet) Names() []string {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return append([]string(nil), s.names...)
}

// Styles returns the compiled styles in output order.
func (s *Sheet) Styles() []*twstyle.Style {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	ret := make([]*twstyle.Style, len(s.rules))
	for i, r := range s.rules {
		ret[i] = r.style
	}
	return ret
}

// String returns the unminified sheet text, one rule per line.
func (s *Sheet) String() string {
	s.rwmu.RLock()
	defer s.rwmu.RUnlock()
	return s.text()
}

func (s *Sheet) text() string {
	var sb strings.Builder
	for _, v := range s.vars {
		sb.WriteString(v.text)
		sb.WriteByte('\n')
	}
	for _, r := range s.rules {
		sb.WriteString(r.style.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// WriteTo writes the sheet to w, minified when enabled.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	s.rwmu.RLock()
	text, minified := s.text(), s.minify
	s.rwmu.RUnlock()

	if !minified {
		n, err := io.WriteString(w, text)
		return int64(n), err
	}

	var buf bytes.Buffer
	m := minify.New()
	m.AddFunc("text/css", css.Minify)
	if err := m.Minify("text/css", &buf, strings.NewReader(text)); err != nil {
		return 0, fmt.Errorf("minifying sheet: %w", err)
	}
	return buf.WriteTo(w)
}

// WriteUtilities is WriteTo without the count, in the shape
// Converter.SetUtilitiesFunc expects.
func (s *Sheet) WriteUtilities(w io.Writer) error {
	_, err := s.WriteTo(w)
	return err
}
