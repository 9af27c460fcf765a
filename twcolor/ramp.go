// Package twcolor expands sparse color anchors into dense tonal ramps and
// renders them as CSS custom properties.
package twcolor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Anchors maps a level ("" for the bare shade, otherwise an integer) to a
// hex color.
type Anchors map[string]string

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

var (
	black = RGB{0, 0, 0}
	white = RGB{255, 255, 255}
)

// ParseHex parses "#rrggbb" or "#rgb".
func ParseHex(s string) (RGB, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{r, g, b}, nil
}

// Hex returns the color as "#rrggbb".
func (c RGB) Hex() string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}

// String returns the space separated channel form used in custom
// properties, e.g. "128 128 128".
func (c RGB) String() string {
	return strconv.Itoa(int(c.R)) + " " + strconv.Itoa(int(c.G)) + " " + strconv.Itoa(int(c.B))
}

// lerp blends from a to b over span levels and returns the color d levels
// past a. Channels round half up.
func lerp(a, b RGB, span, d int) RGB {
	ch := func(x, y uint8) uint8 {
		step := (float64(y) - float64(x)) / float64(span)
		return uint8(math.Floor(float64(x) + step*float64(d) + 0.5))
	}
	return RGB{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B)}
}

// Ramp is the generated level table for one color. A Ramp is immutable.
type Ramp struct {
	levels  map[string]RGB
	anchors map[int]RGB // supplied numeric anchors
	more100 bool
	interp  bool
}

// NewRamp derives a ramp from anchors.
//
// When any numeric level is above 100 the anchors are taken as a
// 0..1000 scale and copied without interpolation, and the bare shade
// defaults to 500. Otherwise every missing even level between known
// anchors is interpolated, with level 0 defaulting to black and level 100
// to white, and the bare shade defaults to 50.
func NewRamp(anchors Anchors) (*Ramp, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("no color anchors")
	}
	r := &Ramp{
		levels:  make(map[string]RGB, 52),
		anchors: make(map[int]RGB, len(anchors)),
	}

	main, hasMain := anchors[""]
	if hasMain {
		rgb, err := ParseHex(main)
		if err != nil {
			return nil, err
		}
		r.levels[""] = rgb
	}
	for k, v := range anchors {
		if k == "" {
			continue
		}
		level, err := strconv.Atoi(k)
		if err != nil || level < 0 {
			return nil, fmt.Errorf("invalid color level %q", k)
		}
		rgb, err := ParseHex(v)
		if err != nil {
			return nil, fmt.Errorf("level %s: %w", k, err)
		}
		r.anchors[level] = rgb
		if level > 100 {
			r.more100 = true
		}
	}

	if r.more100 {
		for level, rgb := range r.anchors {
			r.levels[strconv.Itoa(level)] = rgb
		}
	} else if !hasMain || len(anchors) > 1 {
		r.interp = true
		r.interpolate()
	}

	if !hasMain {
		key := "50"
		if r.more100 {
			key = "500"
		}
		rgb, ok := r.levels[key]
		if !ok {
			return nil, fmt.Errorf("no bare shade and no level %s to derive it from", key)
		}
		r.levels[""] = rgb
	}
	return r, nil
}

func (r *Ramp) interpolate() {
	start, startRGB := 0, r.bound(0)
	var pending []int
	fill := func(end int, endRGB RGB) {
		for _, level := range pending {
			r.levels[strconv.Itoa(level)] = lerp(startRGB, endRGB, end-start, level-start)
		}
		pending = pending[:0]
	}
	for i := 1; i < 100; i++ {
		if rgb, ok := r.anchors[i]; ok {
			if len(pending) > 0 {
				fill(i, rgb)
			}
			start, startRGB = i, rgb
			r.levels[strconv.Itoa(i)] = rgb
		} else if i%2 == 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) > 0 {
		fill(100, r.bound(100))
	}
	r.levels["0"] = r.bound(0)
	r.levels["100"] = r.bound(100)
}

// bound returns the anchor at 0 or 100, or black or white.
func (r *Ramp) bound(level int) RGB {
	if rgb, ok := r.anchors[level]; ok {
		return rgb
	}
	if level == 0 {
		return black
	}
	return white
}

// Level returns the color stored for level ("" for the bare shade).
func (r *Ramp) Level(level string) (RGB, bool) {
	rgb, ok := r.levels[level]
	return rgb, ok
}

// Main returns the bare shade.
func (r *Ramp) Main() RGB {
	return r.levels[""]
}

// At returns the color at any integer level. Stored levels are returned
// as is. Other levels on an interpolated ramp are blended between the
// nearest anchors the same way the stored even levels were; on a 0..1000
// ramp they are blended between the nearest supplied levels on either
// side, and levels outside those are unavailable.
func (r *Ramp) At(level int) (RGB, bool) {
	if rgb, ok := r.levels[strconv.Itoa(level)]; ok {
		return rgb, true
	}
	switch {
	case r.interp:
		if level < 0 || level > 100 {
			return RGB{}, false
		}
		lo, hi := 0, 100
		for l := range r.anchors {
			if l <= level && l > lo {
				lo = l
			}
			if l >= level && l < hi {
				hi = l
			}
		}
		return lerp(r.bound2(lo), r.bound2(hi), hi-lo, level-lo), true
	case r.more100:
		lo, hi := -1, -1
		for l := range r.anchors {
			if l < level && l > lo {
				lo = l
			}
			if l > level && (hi < 0 || l < hi) {
				hi = l
			}
		}
		if lo < 0 || hi < 0 {
			return RGB{}, false
		}
		return lerp(r.anchors[lo], r.anchors[hi], hi-lo, level-lo), true
	}
	return RGB{}, false
}

func (r *Ramp) bound2(level int) RGB {
	if level == 0 || level == 100 {
		return r.bound(level)
	}
	return r.anchors[level]
}

// Keys returns the stored levels, bare shade first then numerically.
func (r *Ramp) Keys() []string {
	keys := make([]string, 0, len(r.levels))
	for k := range r.levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i] == "" || keys[j] == "" {
			return keys[i] == ""
		}
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// Anchors returns every stored level as hex, suitable for persisting and
// feeding back to NewRamp.
func (r *Ramp) Anchors() Anchors {
	ret := make(Anchors, len(r.levels))
	for k, v := range r.levels {
		ret[k] = v.Hex()
	}
	return ret
}

// VariablesText renders the ramp as a :root rule, one custom property per
// level: --name for the bare shade and --name-level for the others.
func (r *Ramp) VariablesText(name string) string {
	var sb strings.Builder
	sb.WriteString(":root{")
	for i, k := range r.Keys() {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString("--")
		sb.WriteString(name)
		if k != "" {
			sb.WriteByte('-')
			sb.WriteString(k)
		}
		sb.WriteByte(':')
		sb.WriteString(r.levels[k].String())
	}
	sb.WriteByte('}')
	return sb.String()
}
