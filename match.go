package twstyle

import (
	"fmt"
	"strings"
)

// Origin records which matching step accepted a name.
type Origin int

const (
	OriginSemantic Origin = iota + 1
	OriginPattern
	OriginColor
	OriginSymbol
	OriginKey
)

func (o Origin) String() string {
	switch o {
	case OriginSemantic:
		return "semantic"
	case OriginPattern:
		return "pattern"
	case OriginColor:
		return "color"
	case OriginSymbol:
		return "symbol"
	case OriginKey:
		return "key"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// MatchResult is the outcome of matching one name against a descriptor.
type MatchResult struct {
	Origin   Origin
	Semantic string // matched alias, OriginSemantic only
}

// selectorSymbols begin a selector suffix. A semantic alias may also be
// followed by '.' or nothing.
const selectorSymbols = "!*>+~:[@_"

func semanticBoundary(name string, n int) bool {
	if len(name) == n {
		return true
	}
	c := name[n]
	return c == '.' || strings.IndexByte(selectorSymbols, c) >= 0
}

// match tries the five matching steps in order: semantic alias, pattern,
// color literal, symbol, key name.
func (e *entry) match(name string, colorNames []string) (MatchResult, bool) {
	for _, s := range e.semantics {
		if strings.HasPrefix(name, s.Name) && semanticBoundary(name, len(s.Name)) {
			return MatchResult{Origin: OriginSemantic, Semantic: s.Name}, true
		}
	}

	if e.Match != nil && e.Match.MatchString(name) {
		return MatchResult{Origin: OriginPattern}, true
	}

	if e.colorRe != nil {
		if loc := e.colorRe.FindStringIndex(name); loc != nil && isColorLiteral(name[loc[1]:], colorNames) {
			return MatchResult{Origin: OriginColor}, true
		}
	}

	if e.Symbol != "" && strings.HasPrefix(name, e.Symbol) {
		return MatchResult{Origin: OriginSymbol}, true
	}

	if k := e.key(); k != "" && strings.HasPrefix(name, k+":") {
		return MatchResult{Origin: OriginKey}, true
	}

	return MatchResult{}, false
}

// isColorLiteral reports whether rest starts with a single color: a hex
// literal, an rgb()/hsl() literal, or a registered color name. A raw '|'
// outside the literal means a multi-value expression instead.
func isColorLiteral(rest string, colorNames []string) bool {
	switch {
	case strings.HasPrefix(rest, "#"):
		return !strings.Contains(rest, "|")
	case strings.HasPrefix(rest, "rgb("), strings.HasPrefix(rest, "hsl("):
		i := closeParen(rest)
		return i >= 0 && !strings.Contains(rest[i+1:], "|")
	}
	if strings.Contains(rest, "|") {
		return false
	}
	for _, n := range colorNames {
		if strings.HasPrefix(rest, n) {
			return true
		}
	}
	return false
}

// closeParen returns the index of the ')' closing the first '(' in s, or -1.
func closeParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Match reports the first registered descriptor that accepts name.
func (c *Compiler) Match(name string) (*Descriptor, MatchResult, bool) {
	s := c.load()
	e, m, ok := s.match(name)
	if !ok {
		return nil, m, false
	}
	return e.Descriptor, m, true
}

// Accepts reports whether name is a configured semantic class or a name
// some descriptor matches, i.e. whether it belongs in a stylesheet.
func (c *Compiler) Accepts(name string) bool {
	s := c.load()
	if _, ok := s.classes[name]; ok {
		return true
	}
	_, _, ok := s.match(name)
	return ok
}

func (s *state) match(name string) (*entry, MatchResult, bool) {
	for _, e := range s.entries {
		if m, ok := e.match(name, s.colorNames); ok {
			return e, m, true
		}
	}
	return nil, MatchResult{}, false
}
