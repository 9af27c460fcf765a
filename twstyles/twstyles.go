// Package twstyles provides the default descriptor table for twstyle.
package twstyles

import (
	"regexp"
	"strings"

	"github.com/gotailwindcss/twstyle"
)

func sizingValues() map[string]string {
	return map[string]string{
		"full": "100%",
		"fit":  "fit-content",
		"max":  "max-content",
		"min":  "min-content",
	}
}

var weights = map[string]string{
	"thin":       "100",
	"extralight": "200",
	"light":      "300",
	"regular":    "400",
	"medium":     "500",
	"semibold":   "600",
	"bold":       "700",
	"extrabold":  "800",
	"heavy":      "900",
}

// Default returns a fresh copy of the default descriptors in registration
// order.
func Default() []*twstyle.Descriptor {
	return []*twstyle.Descriptor{
		{
			ID:         "gap",
			Match:      regexp.MustCompile(`^gap(?:-x|-y)?:`),
			Properties: []string{"gap"},
			PropertiesFunc: func(prefix string) []string {
				switch axis(prefix) {
				case 'x':
					return []string{"column-gap"}
				case 'y':
					return []string{"row-gap"}
				}
				return []string{"gap"}
			},
		},
		{
			ID:         "position",
			FullName:   true,
			Properties: []string{"position"},
			Semantics: []twstyle.Semantic{
				{Name: "static", Value: "static"},
				{Name: "fixed", Value: "fixed"},
				{Name: "abs", Value: "absolute"},
				{Name: "rel", Value: "relative"},
				{Name: "sticky", Value: "sticky"},
			},
		},
		{
			ID:         "break-after",
			FullName:   true,
			Properties: []string{"break-after"},
		},
		{
			ID:         "max-height",
			Match:      regexp.MustCompile(`^max-h:`),
			FullName:   true,
			Properties: []string{"max-height"},
			Values:     sizingValues(),
		},
		{
			ID:         "text-overflow",
			Match:      regexp.MustCompile(`^(?:t-overflow:|t:(?:ellipsis|clip))`),
			FullName:   true,
			Properties: []string{"text-overflow"},
		},
		{
			ID:         "width",
			Match:      regexp.MustCompile(`^w:`),
			FullName:   true,
			Properties: []string{"width"},
			Values:     sizingValues(),
		},
		{
			ID:         "cursor",
			FullName:   true,
			Properties: []string{"cursor"},
		},
		{
			ID:         "place-items",
			FullName:   true,
			Properties: []string{"place-items"},
		},
		{
			ID:         "font-size",
			Match:      regexp.MustCompile(`^(?:f-size:|f(?:ont)?:[0-9][^;]*$)`),
			FullName:   true,
			Properties: []string{"font-size"},
		},
		{
			ID:         "font-weight",
			Match:      regexp.MustCompile(`^(?:f-weight:|f(?:ont)?:(?:thin|extralight|light|regular|medium|semibold|bold|extrabold|heavy)(?:[^|]|$))`),
			FullName:   true,
			Properties: []string{"font-weight"},
			Values:     fontWeights(),
			Unitless:   true,
			Semantics:  weightSemantics(),
		},
		{
			ID:         "display",
			Match:      regexp.MustCompile(`^(?:display|d):`),
			FullName:   true,
			Properties: []string{"display"},
			Semantics: []twstyle.Semantic{
				{Name: "block", Value: "block"},
				{Name: "inline-block", Value: "inline-block"},
				{Name: "inline", Value: "inline"},
				{Name: "flex", Value: "flex"},
				{Name: "inline-flex", Value: "inline-flex"},
				{Name: "grid", Value: "grid"},
				{Name: "inline-grid", Value: "inline-grid"},
				{Name: "contents", Value: "contents"},
			},
		},
		{
			ID:         "vertical-align",
			Match:      regexp.MustCompile(`^v:.`),
			Key:        "vertical-align",
			Properties: []string{"vertical-align"},
		},
		{
			ID:          "border-color",
			Match:       regexp.MustCompile(`^(?:b|border(?:-(?:left|right|top|bottom))?)-color:.`),
			ColorPrefix: `b(?:[xytblr]|order(?:-(?:left|right|top|bottom))?)?:`,
			Colorful:    true,
			Properties:  []string{"border-color"},
			PropertiesFunc: func(prefix string) []string {
				return borderProps(prefix, "color")
			},
			OrderFunc: func(prefix string) int {
				if len(borderSides(borderBase(prefix, "color"))) == 0 {
					return -1
				}
				return 0
			},
		},
		{
			ID:          "font-color",
			Match:       regexp.MustCompile(`^(?:f(?:ont)?-)?color:`),
			ColorPrefix: `f(?:ont)?:`,
			Colorful:    true,
			Properties:  []string{"color"},
		},
		{
			ID:          "background-color",
			Match:       regexp.MustCompile(`^(?:bg|background)-color:`),
			ColorPrefix: `(?:bg|background):`,
			Colorful:    true,
			Properties:  []string{"background-color"},
		},
		{
			ID:       "variable",
			Match:    regexp.MustCompile(`^\$[^:]+:`),
			Unitless: true,
			PropertiesFunc: func(prefix string) []string {
				return []string{"--" + strings.TrimSuffix(strings.TrimPrefix(prefix, "$"), ":")}
			},
		},
		{
			ID:         "grid-column",
			Match:      regexp.MustCompile(`^grid-col(?:umn)?(?:-span)?:`),
			Unitless:   true,
			Properties: []string{"grid-column"},
			ValueFunc: func(prefix, value string) string {
				if strings.HasSuffix(prefix, "span:") && value != "auto" {
					return "span " + value + "/span " + value
				}
				return value
			},
		},
		{
			ID:         "background-clip",
			Match:      regexp.MustCompile(`^(?:bg|background)-clip:`),
			Properties: []string{"-webkit-background-clip", "background-clip"},
		},
		{
			ID:         "overflow",
			Match:      regexp.MustCompile(`^(?:overflow|ovf)(?:-x|-y)?:`),
			FullName:   true,
			Properties: []string{"overflow"},
			PropertiesFunc: func(prefix string) []string {
				switch axis(prefix) {
				case 'x':
					return []string{"overflow-x"}
				case 'y':
					return []string{"overflow-y"}
				}
				return []string{"overflow"}
			},
		},
		{
			ID:         "transition-property",
			Match:      regexp.MustCompile(`^(?:transition-property|~property):`),
			Properties: []string{"transition-property"},
		},
		{
			ID:          "fill",
			Match:       regexp.MustCompile(`^fill:`),
			ColorPrefix: `fill:`,
			Colorful:    true,
			Properties:  []string{"fill"},
		},
		{
			ID:         "overscroll-behavior",
			Match:      regexp.MustCompile(`^overscroll-behavior(?:-x|-y)?:`),
			Properties: []string{"overscroll-behavior"},
			PropertiesFunc: func(prefix string) []string {
				switch axis(prefix) {
				case 'x':
					return []string{"overscroll-behavior-x"}
				case 'y':
					return []string{"overscroll-behavior-y"}
				}
				return []string{"overscroll-behavior"}
			},
		},
		{
			ID:         "text-transform",
			Match:      regexp.MustCompile(`^(?:t-transform:|t(?:ext)?:(?:uppercase|lowercase|capitalize))`),
			FullName:   true,
			Properties: []string{"text-transform"},
		},
		{
			ID:         "background-origin",
			Match:      regexp.MustCompile(`^bg-origin:`),
			FullName:   true,
			Properties: []string{"background-origin"},
		},
		{
			ID:          "stroke",
			FullName:    true,
			ColorPrefix: `stroke:`,
			Colorful:    true,
			Properties:  []string{"stroke"},
		},
	}
}

// Register registers the default descriptors with c.
func Register(c *twstyle.Compiler) error {
	return c.Register(Default()...)
}

func fontWeights() map[string]string {
	ret := make(map[string]string, len(weights))
	for k, v := range weights {
		ret[k] = v
	}
	return ret
}

func weightSemantics() []twstyle.Semantic {
	// "light" is left out, it reads as a color scheme
	names := []string{"thin", "extralight", "regular", "medium", "semibold", "bold", "extrabold", "heavy"}
	ret := make([]twstyle.Semantic, len(names))
	for i, n := range names {
		ret[i] = twstyle.Semantic{Name: n, Value: weights[n]}
	}
	return ret
}

// axis returns 'x' or 'y' for prefixes such as "gap-x:", else 0.
func axis(prefix string) byte {
	if len(prefix) >= 3 && prefix[len(prefix)-3] == '-' {
		switch c := prefix[len(prefix)-2]; c {
		case 'x', 'y':
			return c
		}
	}
	return 0
}

var sideNames = map[byte]string{
	't': "top",
	'b': "bottom",
	'l': "left",
	'r': "right",
}

// borderBase strips the colon and property suffix, e.g.
// "border-left-color:" -> "border-left", "bx:" -> "bx".
func borderBase(prefix, suffix string) string {
	p := strings.TrimSuffix(prefix, ":")
	return strings.TrimSuffix(p, "-"+suffix)
}

func borderSides(base string) []string {
	switch {
	case base == "b", base == "border", base == "":
		return nil
	case base == "bx":
		return []string{"left", "right"}
	case base == "by":
		return []string{"top", "bottom"}
	case len(base) == 2 && base[0] == 'b':
		if s, ok := sideNames[base[1]]; ok {
			return []string{s}
		}
	case strings.HasPrefix(base, "border-"):
		return []string{strings.TrimPrefix(base, "border-")}
	}
	return nil
}

// borderProps expands a border prefix into per-side properties, e.g.
// "bx:" with "color" -> border-left-color, border-right-color.
func borderProps(prefix, suffix string) []string {
	sides := borderSides(borderBase(prefix, suffix))
	if len(sides) == 0 {
		return []string{"border-" + suffix}
	}
	ret := make([]string, len(sides))
	for i, s := range sides {
		ret[i] = "border-" + s + "-" + suffix
	}
	return ret
}
