// Package twunit resolves raw value segments into magnitudes and units and
// renders property declarations.
package twunit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Common default units.
const (
	REM = "rem"
	EM  = "em"
	PX  = "px"
)

// ColorTable looks up registered colors. HasColor reports stored levels
// ("" for the bare shade); ColorAt computes the channels of any level
// the color's ramp can produce. A nil ColorTable disables color
// resolution.
type ColorTable interface {
	HasColor(name, level string) bool
	ColorAt(name string, level int) (string, bool)
}

// Value is a resolved value. Numeric values carry their magnitude in
// Number with IsNumber set; everything else is Text.
type Value struct {
	Number   float64
	IsNumber bool
	Text     string
	Unit     string
}

// Text returns a non-numeric value with no unit.
func Text(s string) Value {
	return Value{Text: s}
}

// Magnitude returns the value without its unit.
func (v Value) Magnitude() string {
	if v.IsNumber {
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	}
	return v.Text
}

// String returns magnitude and unit as they appear in CSS.
func (v Value) String() string {
	return v.Magnitude() + v.Unit
}

// IsZero reports whether v is the empty value.
func (v Value) IsZero() bool {
	return !v.IsNumber && v.Text == "" && v.Unit == ""
}

// Resolve splits raw into magnitude and unit.
//
// A bare number takes defaultUnit; with rem or em defaults the number is
// read as pixels and divided by 16. Dimensions and percentages keep their
// own unit. "$name" becomes var(--name). When colors is non-nil, a
// registered color written as name, name-level, or either followed by
// /alpha becomes rgb(var(--name-level)/alpha); a level that is not stored
// is computed and written as rgb(r g b/alpha), and a level the ramp cannot
// produce is an error. Anything else passes through unchanged.
func Resolve(raw, defaultUnit string, colors ColorTable) (Value, error) {
	if raw == "" {
		return Value{}, nil
	}

	tt, data, ok := single(raw)
	if ok {
		switch tt {
		case css.NumberToken:
			n, err := strconv.ParseFloat(string(data), 64)
			if err == nil {
				if defaultUnit == REM || defaultUnit == EM {
					n /= 16
				}
				return Value{Number: n, IsNumber: true, Unit: defaultUnit}, nil
			}
		case css.PercentageToken:
			n, err := strconv.ParseFloat(string(data[:len(data)-1]), 64)
			if err == nil {
				return Value{Number: n, IsNumber: true, Unit: "%"}, nil
			}
		case css.DimensionToken:
			num, _ := parse.Dimension(data)
			n, err := strconv.ParseFloat(string(data[:num]), 64)
			if err == nil && num > 0 {
				return Value{Number: n, IsNumber: true, Unit: string(data[num:])}, nil
			}
		}
	}

	if strings.HasPrefix(raw, "$") && len(raw) > 1 && !strings.ContainsAny(raw, "()") {
		return Text("var(--" + raw[1:] + ")"), nil
	}

	if colors != nil {
		s, ok, err := resolveColor(raw, colors)
		if err != nil {
			return Value{}, err
		}
		if ok {
			return Text(s), nil
		}
	}
	return Text(raw), nil
}

// single lexes raw and reports its token when raw is exactly one token.
func single(raw string) (css.TokenType, []byte, bool) {
	l := css.NewLexer(parse.NewInputString(raw))
	tt, data := l.Next()
	if tt == css.ErrorToken {
		return tt, nil, false
	}
	// data aliases the lexer buffer
	data = append([]byte(nil), data...)
	if next, _ := l.Next(); next != css.ErrorToken {
		return tt, nil, false
	}
	return tt, data, true
}

func resolveColor(raw string, colors ColorTable) (string, bool, error) {
	name, alpha := raw, ""
	if i := strings.IndexByte(raw, '/'); i > 0 {
		name, alpha = raw[:i], raw[i+1:]
		if alpha == "" {
			return "", false, nil
		}
	}
	if alpha != "" {
		alpha = "/" + alpha
	}

	if colors.HasColor(name, "") {
		return "rgb(var(--" + name + ")" + alpha + ")", true, nil
	}
	i := strings.LastIndexByte(name, '-')
	if i <= 0 {
		return "", false, nil
	}
	base, level := name[:i], name[i+1:]
	if colors.HasColor(base, level) {
		return "rgb(var(--" + name + ")" + alpha + ")", true, nil
	}
	n, err := strconv.Atoi(level)
	if err != nil || !colors.HasColor(base, "") {
		return "", false, nil
	}
	ch, ok := colors.ColorAt(base, n)
	if !ok {
		return "", false, fmt.Errorf("color %q has no level %s", base, level)
	}
	return "rgb(" + ch + alpha + ")", true, nil
}

// Format renders a single declaration.
func Format(property string, v Value, important bool) string {
	s := property + ":" + v.String()
	if important {
		s += "!important"
	}
	return s
}
