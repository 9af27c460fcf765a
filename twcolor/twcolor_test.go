package twcolor_test

import (
	"bytes"
	"strconv"
	"strings"
	"testing"

	"github.com/gotailwindcss/twstyle/twcolor"
)

func mustRamp(t *testing.T, a twcolor.Anchors) *twcolor.Ramp {
	t.Helper()
	r, err := twcolor.NewRamp(a)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestHexRoundTrip(t *testing.T) {
	for _, h := range []string{"#000000", "#ffffff", "#808080", "#1a2b3c", "#fe0102"} {
		c, err := twcolor.ParseHex(h)
		if err != nil {
			t.Fatal(err)
		}
		if got := c.Hex(); got != h {
			t.Errorf("round trip %s: got %s", h, got)
		}
	}
	c, err := twcolor.ParseHex("#f00")
	if err != nil {
		t.Fatal(err)
	}
	if c != (twcolor.RGB{R: 255}) {
		t.Errorf("short hex: got %v", c)
	}
	if _, err := twcolor.ParseHex("red"); err == nil {
		t.Errorf("expected error for non-hex input")
	}
}

func TestRampMidpoint(t *testing.T) {
	r := mustRamp(t, twcolor.Anchors{"0": "#000000", "50": "#808080", "100": "#ffffff"})

	l25, ok := r.At(25)
	if !ok {
		t.Fatal("level 25 missing")
	}
	if l25 != (twcolor.RGB{R: 64, G: 64, B: 64}) {
		t.Errorf("level 25: got %v", l25)
	}
	if r.Main() != (twcolor.RGB{R: 128, G: 128, B: 128}) {
		t.Errorf("bare shade: got %v", r.Main())
	}
	l50, _ := r.Level("50")
	if r.Main() != l50 {
		t.Errorf("bare shade %v != level 50 %v", r.Main(), l50)
	}
	// stored even level agrees with At
	l24, ok := r.Level("24")
	if !ok {
		t.Fatal("level 24 not generated")
	}
	if at, _ := r.At(24); at != l24 {
		t.Errorf("At(24)=%v, Level(24)=%v", at, l24)
	}
}

func TestRampEvenLevels(t *testing.T) {
	r := mustRamp(t, twcolor.Anchors{"40": "#ff0000"})

	for i := 0; i <= 100; i += 2 {
		if _, ok := r.Level(strconv.Itoa(i)); !ok {
			t.Errorf("missing level %d", i)
		}
	}
	if _, ok := r.Level("41"); ok {
		t.Errorf("odd level 41 should not be stored")
	}
	if l0, _ := r.Level("0"); l0 != (twcolor.RGB{}) {
		t.Errorf("level 0 should default to black, got %v", l0)
	}
	if l100, _ := r.Level("100"); l100 != (twcolor.RGB{R: 255, G: 255, B: 255}) {
		t.Errorf("level 100 should default to white, got %v", l100)
	}
	// 20 is halfway between black at 0 and red at 40
	if l20, _ := r.Level("20"); l20 != (twcolor.RGB{R: 128}) {
		t.Errorf("level 20: got %v", l20)
	}
	// 70 is halfway between red at 40 and white at 100
	if l70, _ := r.Level("70"); l70 != (twcolor.RGB{R: 255, G: 128, B: 128}) {
		t.Errorf("level 70: got %v", l70)
	}
}

func TestRampBareOnly(t *testing.T) {
	r := mustRamp(t, twcolor.Anchors{"": "#123456"})
	if keys := r.Keys(); len(keys) != 1 || keys[0] != "" {
		t.Errorf("bare only ramp should not interpolate, keys=%v", keys)
	}
}

func TestRampMore100(t *testing.T) {
	r := mustRamp(t, twcolor.Anchors{"100": "#eeeeee", "500": "#777777", "900": "#111111"})
	if keys := r.Keys(); strings.Join(keys, ",") != ",100,500,900" {
		t.Errorf("unexpected keys %v", keys)
	}
	if r.Main().Hex() != "#777777" {
		t.Errorf("bare should come from 500, got %s", r.Main().Hex())
	}
	if at, ok := r.At(200); !ok || at.Hex() != "#d0d0d0" {
		t.Errorf("At(200) = %v %v", at, ok)
	}
	for _, level := range []int{50, 950} {
		if _, ok := r.At(level); ok {
			t.Errorf("At(%d) outside the supplied levels", level)
		}
	}
	if _, err := twcolor.NewRamp(twcolor.Anchors{"200": "#eeeeee"}); err == nil {
		t.Errorf("expected error when 500 is missing")
	}
}

func TestRampErrors(t *testing.T) {
	for _, a := range []twcolor.Anchors{
		{},
		{"": "nope"},
		{"x": "#000000"},
		{"10": "#zzzzzz"},
	} {
		if _, err := twcolor.NewRamp(a); err == nil {
			t.Errorf("expected error for %v", a)
		}
	}
}

func TestVariablesText(t *testing.T) {
	r := mustRamp(t, twcolor.Anchors{"": "#ff0000"})
	if got := r.VariablesText("red"); got != ":root{--red:255 0 0}" {
		t.Errorf("got %s", got)
	}
	r = mustRamp(t, twcolor.Anchors{"50": "#808080"})
	got := r.VariablesText("gray")
	if !strings.HasPrefix(got, ":root{--gray:128 128 128;--gray-0:0 0 0;--gray-2:") {
		t.Errorf("got %s", got)
	}
	if !strings.HasSuffix(got, ";--gray-100:255 255 255}") {
		t.Errorf("got %s", got)
	}
}

func TestTable(t *testing.T) {
	tb := twcolor.NewTable()
	if i, replaced, err := tb.Set("blue", twcolor.Anchors{"": "#0000ff"}); err != nil || i != 0 || replaced {
		t.Fatalf("Set blue: %d %v %v", i, replaced, err)
	}
	if i, _, _ := tb.Set("red", twcolor.Anchors{"": "#ff0000"}); i != 1 {
		t.Errorf("red index %d", i)
	}
	if i, replaced, _ := tb.Set("blue", twcolor.Anchors{"50": "#0000ff"}); i != 0 || !replaced {
		t.Errorf("replace blue: %d %v", i, replaced)
	}
	if !tb.HasColor("blue", "24") || tb.HasColor("red", "24") || !tb.HasColor("red", "") {
		t.Errorf("HasColor mismatch")
	}
	if ch, ok := tb.ColorAt("blue", 21); !ok || ch != "0 0 107" {
		t.Errorf("ColorAt(blue, 21) = %q %v", ch, ok)
	}
	if _, ok := tb.ColorAt("red", 21); ok {
		t.Errorf("bare only color has no levels")
	}
	if _, ok := tb.ColorAt("nope", 20); ok {
		t.Errorf("unknown color has levels")
	}
	if _, _, err := tb.Set("green", twcolor.Anchors{"": "bad"}); err == nil {
		t.Errorf("expected error")
	}
	if tb.Len() != 2 {
		t.Errorf("failed Set must not register, len=%d", tb.Len())
	}

	c := tb.Clone()
	if i, ok := c.Remove("blue"); !ok || i != 0 {
		t.Errorf("Remove: %d %v", i, ok)
	}
	if tb.Index("blue") != 0 || c.Index("red") != 0 {
		t.Errorf("clone not independent")
	}
}

func TestSnapshot(t *testing.T) {
	tb := twcolor.NewTable()
	tb.Set("gray", twcolor.Anchors{"10": "#111111", "90": "#eeeeee"})
	tb.Set("brand", twcolor.Anchors{"": "#ff8800"})

	var buf bytes.Buffer
	if err := tb.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := twcolor.Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(loaded.Names(), ",") != "gray,brand" {
		t.Errorf("names: %v", loaded.Names())
	}
	for _, n := range tb.Names() {
		a, _ := tb.Ramp(n)
		b, _ := loaded.Ramp(n)
		if a.VariablesText(n) != b.VariablesText(n) {
			t.Errorf("%s differs after reload:\n%s\n%s", n, a.VariablesText(n), b.VariablesText(n))
		}
	}
}
