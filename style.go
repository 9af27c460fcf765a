package twstyle

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/gotailwindcss/twstyle/twunit"
)

// Style is one compiled class name. It is immutable once returned.
type Style struct {
	Name         string
	Descriptor   string // ID of the matching descriptor
	Match        MatchResult
	Prefix       string // e.g. "gap-x:", empty for symbol and semantic matches
	Symbol       string
	Value        twunit.Value
	Props        []Prop // set instead of Value when a semantic renders several properties
	Selector     string // selector suffix with underscores as spaces
	HasWhere     bool
	Important    bool
	ColorScheme  string // "dark..." or "light..."
	Direction    string // "rtl" or "ltr"
	AtRules      []AtRule
	Media        *Media
	PriorityRank int // index into PrioritySelectors, -1 when none
	Order        int

	// Declarations is the declaration block body without braces.
	Declarations string
	// SelectorText is the full selector list the declarations apply to.
	SelectorText string
	// Text is the finished rule, wrapped in its at-rules.
	Text string
}

// Compile compiles one class name against the current configuration.
// A name no descriptor accepts yields an error wrapping ErrUnmatched.
func (c *Compiler) Compile(name string) (*Style, error) {
	s := c.load()
	e, m, ok := s.match(name)
	if !ok || name == "" {
		c.log.Warn("class name can't match any style", zap.String("name", name))
		return nil, fmt.Errorf("%w: %q", ErrUnmatched, name)
	}
	st, err := s.build(name, e, m)
	if err != nil {
		c.log.Warn("class name value can't resolve", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	return st, nil
}

// CompileAll compiles every name. Names that fail are skipped and their
// errors combined; the others are still returned in order.
func (c *Compiler) CompileAll(names []string) ([]*Style, error) {
	ret := make([]*Style, 0, len(names))
	var errs error
	for _, n := range names {
		st, err := c.Compile(n)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		ret = append(ret, st)
	}
	return ret, errs
}

func (s *state) build(name string, e *entry, m MatchResult) (*Style, error) {
	st := &Style{
		Name:       name,
		Descriptor: e.ID,
		Match:      m,
	}

	var colors twunit.ColorTable
	if e.Colorful {
		colors = s.colors
	}

	var sfx string
	if m.Origin == OriginSemantic {
		sem, _ := e.semantic(m.Semantic)
		sfx = name[len(sem.Name):]
		if len(sem.Props) > 0 {
			st.Props = sem.Props
		} else {
			st.Value = twunit.Text(sem.Value)
		}
	} else {
		var valueToken string
		switch m.Origin {
		case OriginSymbol:
			st.Symbol = name[:1]
			valueToken = name[1:]
		default:
			valueToken = name
			if name[0] != '{' {
				i := strings.IndexByte(name, ':')
				if prefix := name[:i+1]; !strings.Contains(prefix, "(") {
					st.Prefix = prefix
					valueToken = name[i+1:]
				}
			}
		}
		unit := e.unit()
		var resolveErr error
		st.Value, sfx = scanValue(valueToken, func(raw string) twunit.Value {
			v, err := twunit.Resolve(raw, unit, colors)
			if err != nil && resolveErr == nil {
				resolveErr = err
			}
			return v
		})
		if resolveErr != nil {
			return nil, fmt.Errorf("class name %q: %w", name, resolveErr)
		}
	}

	if e.ValueFunc != nil && st.Props == nil {
		st.Value = twunit.Text(e.ValueFunc(st.Prefix, st.Value.String()))
	}
	if alias, ok := e.Values[st.Value.String()]; ok && st.Props == nil {
		st.Value = twunit.Text(alias)
	}

	p := s.parseSuffix(sfx)
	st.Important = p.important
	st.Selector = p.selector
	st.HasWhere = p.hasWhere
	st.PriorityRank = p.priorityRank
	st.ColorScheme = p.colorScheme
	st.Direction = p.direction
	st.AtRules = p.atRules
	st.Media = p.media
	if e.OrderFunc != nil {
		st.Order = e.OrderFunc(st.Prefix)
	}

	st.Declarations = st.declarations(e)
	st.SelectorText = st.selectorText(e.FixedSelector, s.relations[name])
	st.Text = wrapAtRules(st.SelectorText+"{"+st.Declarations+"}", st.AtRules)
	return st, nil
}

func (st *Style) declarations(e *entry) string {
	var decls []string
	if len(st.Props) > 0 {
		for _, p := range st.Props {
			decls = append(decls, twunit.Format(p.Property, twunit.Text(p.Value), st.Important))
		}
	} else {
		for _, prop := range e.properties(st.Prefix) {
			decls = append(decls, twunit.Format(prop, st.Value, st.Important))
		}
	}
	return strings.Join(decls, ";")
}

// selectorText builds the selector list: color scheme class, direction
// attribute, escaped class name, selector suffix and fixed selector, then
// the same for every related semantic class.
func (st *Style) selectorText(fixed string, related []string) string {
	var prefix string
	if st.ColorScheme != "" {
		prefix += "." + st.ColorScheme + " "
	}
	if st.Direction != "" {
		prefix += "[dir=" + st.Direction + "] "
	}
	tail := st.Selector + fixed

	var sb strings.Builder
	sb.WriteString(prefix + "." + Escape(st.Name) + tail)
	for _, r := range related {
		sb.WriteString("," + prefix + "." + Escape(r) + tail)
	}
	return sb.String()
}
