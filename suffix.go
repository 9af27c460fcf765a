package twstyle

import (
	"strconv"
	"strings"

	"github.com/gotailwindcss/twstyle/twunit"
)

// PrioritySelectors are the pseudo-classes whose rules must keep a fixed
// cascade order. A rule's PriorityRank is the index of the first one its
// selector contains.
var PrioritySelectors = []string{":disabled", ":active", ":focus", ":hover"}

const (
	maxWidth = "max-width"
	minWidth = "min-width"

	// strict comparisons move the boundary off an inclusive breakpoint
	strictCorrection = 0.02
)

// webkitPseudos are pseudo-elements that only exist with a -webkit- prefix.
var webkitPseudos = []string{
	"scrollbar",
	"search",
	"slider-thumb",
	"slider-runnable-track",
	"meter",
	"resizer",
	"progress",
}

// AtRule is one conditional wrapper such as @media or @supports.
type AtRule struct {
	Type  string
	Query string
}

// MediaFeature is a width condition derived from a breakpoint token.
type MediaFeature struct {
	Token string // as written, e.g. ">md"
	Value twunit.Value
}

// Media is the structured form of a media shorthand segment.
type Media struct {
	Token    string
	Type     string // all, print, screen or speech
	Features map[string]MediaFeature
}

// suffix is the parsed selector and at-rule part of a name.
type suffix struct {
	important    bool
	selector     string
	hasWhere     bool
	priorityRank int
	colorScheme  string
	direction    string
	atRules      []AtRule
	media        *Media
}

func rewritePseudos(sfx string) string {
	if !strings.Contains(sfx, "::") {
		return sfx
	}
	for _, p := range webkitPseudos {
		sfx = strings.ReplaceAll(sfx, "::"+p, "::-webkit-"+p)
	}
	return sfx
}

// parseSuffix turns the text after the value into selector, flags and
// at-rules.
func (s *state) parseSuffix(sfx string) suffix {
	ret := suffix{priorityRank: -1}

	sfx = rewritePseudos(sfx)
	if strings.HasPrefix(sfx, "!") {
		ret.important = true
		sfx = sfx[1:]
	}

	parts := strings.Split(sfx, "@")
	ret.selector = strings.ReplaceAll(parts[0], "_", " ")
	if ret.selector != "" {
		ret.hasWhere = strings.Contains(ret.selector, ":where(")
		for i, p := range PrioritySelectors {
			if strings.Contains(ret.selector, p) {
				ret.priorityRank = i
				break
			}
		}
	}

	for _, tok := range parts[1:] {
		switch {
		case tok == "":
		case strings.HasPrefix(tok, "dark"), strings.HasPrefix(tok, "light"):
			ret.colorScheme = tok
		case tok == "rtl", tok == "ltr":
			ret.direction = tok
		default:
			typ, query := s.atRule(tok, &ret)
			if query != "" {
				ret.setAtRule(typ, strings.TrimSpace(strings.ReplaceAll(query, "_", " ")))
			}
		}
	}
	return ret
}

// setAtRule records query for typ. A later segment of the same type
// replaces the earlier one but keeps its position.
func (r *suffix) setAtRule(typ, query string) {
	for i := range r.atRules {
		if r.atRules[i].Type == typ {
			r.atRules[i].Query = query
			return
		}
	}
	r.atRules = append(r.atRules, AtRule{Type: typ, Query: query})
}

// atRule classifies one @-segment. "type_query" and "type(query)" name
// the at-rule explicitly; anything else is a media shorthand.
func (s *state) atRule(tok string, r *suffix) (typ, query string) {
	if i := strings.IndexByte(tok, '_'); i >= 0 {
		return tok[:i], tok[i:]
	}
	if i := strings.IndexByte(tok, '('); i >= 0 {
		return tok[:i], tok[i:]
	}

	media := &Media{Token: tok, Features: make(map[string]MediaFeature)}
	r.media = media

	var clauses []string
	for _, part := range strings.Split(tok, "&") {
		switch part {
		case "all", "print", "screen", "speech":
			media.Type = part
		case "🖨":
			media.Type = "print"
		case "landscape", "portrait":
			clauses = append(clauses, "(orientation:"+part+")")
		case "motion":
			clauses = append(clauses, "(prefers-reduced-motion:no-preference)")
		case "reduced-motion":
			clauses = append(clauses, "(prefers-reduced-motion:reduce)")
		default:
			if q, ok := s.mediaQueries[part]; ok {
				clauses = append(clauses, q)
				continue
			}
			if name, f, ok := s.widthFeature(part); ok {
				media.Features[name] = f
				clauses = append(clauses, "("+name+":"+f.Value.String()+")")
			}
		}
	}

	query = media.Type
	if len(clauses) > 0 {
		if query != "" {
			query += " and "
		}
		query += strings.Join(clauses, " and ")
	}
	return "media", query
}

// widthFeature parses a breakpoint comparison such as ">=md", "<600" or
// a bare registered breakpoint.
func (s *state) widthFeature(tok string) (string, MediaFeature, bool) {
	var (
		name       string
		op         string
		correction float64
	)
	switch {
	case strings.HasPrefix(tok, "<="):
		op, name = "<=", maxWidth
	case strings.HasPrefix(tok, ">="):
		op, name = ">=", minWidth
	case s.breakpoints[tok] != "":
		name = minWidth
	case strings.HasPrefix(tok, ">"):
		op, name, correction = ">", minWidth, strictCorrection
	case strings.HasPrefix(tok, "<"):
		op, name, correction = "<", maxWidth, -strictCorrection
	default:
		return "", MediaFeature{}, false
	}

	raw := tok[len(op):]
	if bp, ok := s.breakpoints[raw]; ok {
		raw = bp
	}
	v, err := twunit.Resolve(raw, twunit.PX, nil)
	if err != nil || !v.IsNumber {
		return "", MediaFeature{}, false
	}
	if v.Unit == twunit.PX {
		v.Number = roundFeature(v.Number + correction)
	}
	return name, MediaFeature{Token: tok, Value: v}, true
}

// roundFeature trims float noise from a corrected width, e.g.
// 767.9799999 -> 767.98.
func roundFeature(f float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 4, 64), 64)
	if err != nil {
		return f
	}
	return r
}

// wrapAtRules wraps text in at-rules. @supports always sits innermost;
// the other types wrap outward in the order they were written.
func wrapAtRules(text string, rules []AtRule) string {
	ordered := make([]AtRule, 0, len(rules))
	for _, r := range rules {
		if r.Type == "supports" {
			ordered = append(ordered, r)
		}
	}
	for _, r := range rules {
		if r.Type != "supports" {
			ordered = append(ordered, r)
		}
	}
	for _, r := range ordered {
		text = "@" + r.Type + " " + r.Query + "{" + text + "}"
	}
	return text
}
