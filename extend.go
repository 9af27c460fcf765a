package twstyle

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gotailwindcss/twstyle/twcolor"
)

// Category selects what Extend changes.
type Category string

const (
	Classes      Category = "classes"
	Breakpoints  Category = "breakpoints"
	Colors       Category = "colors"
	Values       Category = "values"
	Semantics    Category = "semantics"
	MediaQueries Category = "mediaQueries"
)

// OpKind is the kind of a SheetOp.
type OpKind int

const (
	// OpSetVariables inserts, or replaces at Index, the :root variables
	// rule of color Name.
	OpSetVariables OpKind = iota + 1
	// OpDeleteVariables removes the variables rule at Index.
	OpDeleteVariables
	// OpRefresh asks the sheet to recompile every class name it holds.
	OpRefresh
)

func (k OpKind) String() string {
	switch k {
	case OpSetVariables:
		return "set-variables"
	case OpDeleteVariables:
		return "delete-variables"
	case OpRefresh:
		return "refresh"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// SheetOp is a change a stylesheet must apply after a configuration
// change.
type SheetOp struct {
	Kind  OpKind
	Name  string
	Index int
	Text  string
}

// Extend upserts or deletes configuration. A nil value deletes its key.
//
// For Classes each value is a space separated string or a list of class
// names that the key aliases. Breakpoints take numbers or numeric strings
// (pixels unless a unit is given). Colors take a hex string for the bare
// shade or a level map. MediaQueries take query text. Values and
// Semantics are keyed by descriptor ID and take a map of aliases.
//
// Keys apply in sorted order. Invalid entries are skipped and reported
// together; the returned ops cover every entry that was applied and end
// with OpRefresh.
func (c *Compiler) Extend(cat Category, settings map[string]any) ([]SheetOp, error) {
	if settings == nil {
		return nil, nil
	}
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var ops []SheetOp
	err := c.update(func(s *state) error {
		var errs error
		switch cat {
		case Classes:
			errs = s.extendClasses(keys, settings)
		case Breakpoints:
			errs = s.extendBreakpoints(keys, settings)
		case MediaQueries:
			errs = s.extendMediaQueries(keys, settings)
		case Colors:
			ops, errs = s.extendColors(keys, settings)
		case Values, Semantics:
			errs = s.extendDescriptors(cat, keys, settings)
		default:
			return fmt.Errorf("unknown configuration category %q", cat)
		}
		ops = append(ops, SheetOp{Kind: OpRefresh})
		return errs
	})
	c.log.Debug("extended configuration", zap.String("category", string(cat)), zap.Int("keys", len(keys)), zap.Error(err))
	return ops, err
}

func (s *state) extendClasses(keys []string, settings map[string]any) error {
	classes := make(map[string][]string, len(s.classes))
	for k, v := range s.classes {
		classes[k] = v
	}
	var errs error
	for _, k := range keys {
		v := settings[k]
		if v == nil {
			delete(classes, k)
			continue
		}
		names, err := classNames(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("classes %q: %w", k, err))
			continue
		}
		classes[k] = names
	}
	s.classes = classes

	// relations are derived, rebuild them from scratch
	semantic := make([]string, 0, len(classes))
	for k := range classes {
		semantic = append(semantic, k)
	}
	sort.Strings(semantic)
	s.relations = make(map[string][]string)
	for _, sem := range semantic {
		for _, n := range classes[sem] {
			s.relations[n] = append(s.relations[n], sem)
		}
	}
	return errs
}

func classNames(v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return strings.Fields(v), nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		ret := make([]string, 0, len(v))
		for _, x := range v {
			s, ok := x.(string)
			if !ok {
				return nil, fmt.Errorf("class name %v is not a string", x)
			}
			ret = append(ret, s)
		}
		return ret, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

func (s *state) extendBreakpoints(keys []string, settings map[string]any) error {
	bps := make(map[string]string, len(s.breakpoints))
	for k, v := range s.breakpoints {
		bps[k] = v
	}
	var errs error
	for _, k := range keys {
		v := settings[k]
		if v == nil {
			delete(bps, k)
			continue
		}
		str, err := scalar(v)
		if err == nil && !startsNumeric(str) {
			err = fmt.Errorf("%q is not a width", str)
		}
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("breakpoint %q: %w", k, err))
			continue
		}
		bps[k] = str
	}
	s.breakpoints = bps
	return errs
}

func startsNumeric(s string) bool {
	return s != "" && (isDigit(s[0]) || s[0] == '.' && len(s) > 1 && isDigit(s[1]))
}

func (s *state) extendMediaQueries(keys []string, settings map[string]any) error {
	mqs := make(map[string]string, len(s.mediaQueries))
	for k, v := range s.mediaQueries {
		mqs[k] = v
	}
	var errs error
	for _, k := range keys {
		v := settings[k]
		if v == nil {
			delete(mqs, k)
			continue
		}
		str, err := scalar(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("media query %q: %w", k, err))
			continue
		}
		mqs[k] = str
	}
	s.mediaQueries = mqs
	return errs
}

func (s *state) extendColors(keys []string, settings map[string]any) ([]SheetOp, error) {
	table := s.colors.Clone()
	var (
		ops  []SheetOp
		errs error
	)
	for _, k := range keys {
		v := settings[k]
		if v == nil {
			if i, ok := table.Remove(k); ok {
				ops = append(ops, SheetOp{Kind: OpDeleteVariables, Name: k, Index: i})
			}
			continue
		}
		anchors, err := colorAnchors(v)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("color %q: %w", k, err))
			continue
		}
		i, _, err := table.Set(k, anchors)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ramp, _ := table.Ramp(k)
		ops = append(ops, SheetOp{Kind: OpSetVariables, Name: k, Index: i, Text: ramp.VariablesText(k)})
	}
	s.colors = table
	s.colorNames = table.SortedNames()
	return ops, errs
}

func colorAnchors(v any) (twcolor.Anchors, error) {
	if str, ok := v.(string); ok {
		return twcolor.Anchors{"": str}, nil
	}
	m, ok := stringMap(v)
	if !ok {
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
	ret := make(twcolor.Anchors, len(m))
	for level, x := range m {
		str, ok := x.(string)
		if !ok {
			return nil, fmt.Errorf("level %q: %v is not a color", level, x)
		}
		ret[level] = str
	}
	return ret, nil
}

func (s *state) extendDescriptors(cat Category, keys []string, settings map[string]any) error {
	entries := append([]*entry(nil), s.entries...)
	var errs error
next:
	for _, id := range keys {
		for i, e := range entries {
			if e.ID != id {
				continue
			}
			m, ok := stringMap(settings[id])
			if !ok {
				errs = multierr.Append(errs, fmt.Errorf("%s %q: expected a map, got %T", cat, id, settings[id]))
				continue next
			}
			d := e.Descriptor.clone()
			var err error
			if cat == Values {
				err = extendValues(d, m)
			} else {
				err = extendSemantics(d, m)
			}
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("%s %q: %w", cat, id, err))
			}
			ne, err := newEntry(d)
			if err != nil {
				errs = multierr.Append(errs, err)
				continue next
			}
			entries[i] = ne
			continue next
		}
		errs = multierr.Append(errs, fmt.Errorf("%s: no descriptor %q", cat, id))
	}
	s.entries = entries
	return errs
}

func extendValues(d *Descriptor, m map[string]any) error {
	if d.Values == nil {
		d.Values = make(map[string]string, len(m))
	}
	var errs error
	for _, k := range sortedKeys(m) {
		if m[k] == nil {
			delete(d.Values, k)
			continue
		}
		str, err := scalar(m[k])
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("value %q: %w", k, err))
			continue
		}
		d.Values[k] = str
	}
	return errs
}

func extendSemantics(d *Descriptor, m map[string]any) error {
	var errs error
	for _, k := range sortedKeys(m) {
		kept := d.Semantics[:0]
		for _, s := range d.Semantics {
			if s.Name != k {
				kept = append(kept, s)
			}
		}
		d.Semantics = kept
		if m[k] == nil {
			continue
		}
		sem := Semantic{Name: k}
		if props, ok := stringMap(m[k]); ok {
			for _, p := range sortedKeys(props) {
				str, err := scalar(props[p])
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("semantic %q property %q: %w", k, p, err))
					continue
				}
				sem.Props = append(sem.Props, Prop{Property: p, Value: str})
			}
		} else {
			str, err := scalar(m[k])
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("semantic %q: %w", k, err))
				continue
			}
			sem.Value = str
		}
		d.Semantics = append(d.Semantics, sem)
	}
	return errs
}

// scalar renders a configuration scalar as text.
func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("unsupported value type %T", v)
}

// stringMap accepts the map shapes produced by Go literals and YAML
// decoding.
func stringMap(v any) (map[string]any, bool) {
	switch v := v.(type) {
	case map[string]any:
		return v, true
	case map[string]string:
		ret := make(map[string]any, len(v))
		for k, x := range v {
			ret[k] = x
		}
		return ret, true
	case map[any]any:
		ret := make(map[string]any, len(v))
		for k, x := range v {
			ret[fmt.Sprint(k)] = x
		}
		return ret, true
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
