package twsheet_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/gotailwindcss/twstyle"
	"github.com/gotailwindcss/twstyle/twsheet"
	"github.com/gotailwindcss/twstyle/twstyles"
)

func newCompiler(t testing.TB) *twstyle.Compiler {
	c := twstyle.New(nil)
	if err := twstyles.Register(c); err != nil {
		t.Fatal(err)
	}
	return c
}

func ExampleSheet() {
	c := twstyle.New(nil)
	if err := twstyles.Register(c); err != nil {
		panic(err)
	}
	ops, err := c.Extend(twstyle.Colors, map[string]any{"brand": "#ff6600"})
	if err != nil {
		panic(err)
	}

	s := twsheet.New(c, nil)
	if err := s.Apply(ops); err != nil {
		panic(err)
	}
	if err := s.Add("bg:brand", "w:full"); err != nil {
		panic(err)
	}
	s.WriteTo(os.Stdout)

	// Output:
	// :root{--brand:255 102 0}
	// .bg\:brand{background-color:rgb(var(--brand))}
	// .w\:full{width:100%}
}

func TestSheetOrder(t *testing.T) {
	s := twsheet.New(newCompiler(t), nil)
	err := s.Add("w:full:hover", "bx:#000", "w:full", "bg:#fff:focus", "b:#000", "w:1", "bg:#fff:disabled")
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, st := range s.Styles() {
		got = append(got, st.Name)
	}
	want := []string{"b:#000", "bx:#000", "w:full", "w:1", "bg:#fff:disabled", "bg:#fff:focus", "w:full:hover"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("got  %v\nwant %v", got, want)
	}
}

func TestSheetDedupe(t *testing.T) {
	c := newCompiler(t)
	s := twsheet.New(c, nil)

	if err := s.Add("w:full", "w:full"); err != nil {
		t.Fatal(err)
	}
	v := s.Version()
	if err := s.Add("w:full"); err != nil {
		t.Fatal(err)
	}
	st, err := c.Compile("w:full")
	if err != nil {
		t.Fatal(err)
	}
	if s.Insert(st) {
		t.Errorf("Insert reported a change for a duplicate rule")
	}
	if len(s.Styles()) != 1 || s.Version() != v {
		t.Errorf("duplicate changed the sheet: %d rules, version %d -> %d", len(s.Styles()), v, s.Version())
	}
	if names := s.Names(); len(names) != 1 {
		t.Errorf("unexpected names %v", names)
	}
}

func TestSheetUnmatched(t *testing.T) {
	c := newCompiler(t)
	s := twsheet.New(c, nil)

	err := s.Add("w:full", "bg:brand")
	if !errors.Is(err, twstyle.ErrUnmatched) {
		t.Fatalf("expected ErrUnmatched, got %v", err)
	}
	if s.String() != ".w\\:full{width:100%}\n" {
		t.Errorf("unexpected sheet %q", s.String())
	}

	// once brand exists the remembered name compiles
	ops, err := c.Extend(twstyle.Colors, map[string]any{"brand": "#ff6600"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ops); err != nil {
		t.Fatal(err)
	}
	want := ":root{--brand:255 102 0}\n" +
		".w\\:full{width:100%}\n" +
		".bg\\:brand{background-color:rgb(var(--brand))}\n"
	if s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}
}

func TestSheetSemanticClass(t *testing.T) {
	c := newCompiler(t)
	s := twsheet.New(c, nil)

	extend := func(settings map[string]any) {
		t.Helper()
		ops, err := c.Extend(twstyle.Classes, settings)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Apply(ops); err != nil {
			t.Fatal(err)
		}
	}

	// unknown until configured, then picked up by the refresh
	if err := s.Add("btn"); !errors.Is(err, twstyle.ErrUnmatched) {
		t.Fatalf("expected ErrUnmatched, got %v", err)
	}
	extend(map[string]any{"btn": "w:full block"})

	out := s.String()
	for _, want := range []string{".w\\:full,.btn{width:100%}\n", ".block,.btn{display:block}\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
	if n := len(s.Styles()); n != 2 {
		t.Errorf("expected 2 rules, got %d", n)
	}

	// swapping the literals replaces the rules
	v := s.Version()
	extend(map[string]any{"btn": "w:1"})
	if s.Version() == v {
		t.Errorf("version unchanged after swapping class names")
	}
	if want := ".w\\:1,.btn{width:0.0625rem}\n"; s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}

	// a literal that doesn't compile names the semantic class
	ops, err := c.Extend(twstyle.Classes, map[string]any{"card": "w:full zz:1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ops); err != nil {
		t.Fatal(err)
	}
	err = s.Add("card")
	if !errors.Is(err, twstyle.ErrUnmatched) || !strings.Contains(err.Error(), `class "card"`) {
		t.Errorf("unexpected error %v", err)
	}
	if !strings.Contains(s.String(), ".w\\:full,.card{width:100%}\n") {
		t.Errorf("valid literal of card missing from %q", s.String())
	}
}

func TestSheetVariables(t *testing.T) {
	c := newCompiler(t)
	s := twsheet.New(c, nil)

	apply := func(settings map[string]any) {
		t.Helper()
		ops, err := c.Extend(twstyle.Colors, settings)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Apply(ops); err != nil && !errors.Is(err, twstyle.ErrUnmatched) {
			t.Fatal(err)
		}
	}

	apply(map[string]any{"a": "#000000", "b": "#ffffff"})
	if err := s.Add("f:a", "f:b"); err != nil {
		t.Fatal(err)
	}

	v := s.Version()
	apply(map[string]any{"a": "#ff0000"})
	if s.Version() == v {
		t.Errorf("version unchanged after replacing a color")
	}
	want := ":root{--a:255 0 0}\n" +
		":root{--b:255 255 255}\n" +
		".f\\:a{color:rgb(var(--a))}\n" +
		".f\\:b{color:rgb(var(--b))}\n"
	if s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}

	// removing a color drops its variables and the rules using it
	apply(map[string]any{"a": nil})
	want = ":root{--b:255 255 255}\n" +
		".f\\:b{color:rgb(var(--b))}\n"
	if s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}

	// re-adding puts it back at the end of the color order
	apply(map[string]any{"a": "#000000"})
	want = ":root{--b:255 255 255}\n" +
		":root{--a:0 0 0}\n" +
		".f\\:a{color:rgb(var(--a))}\n" +
		".f\\:b{color:rgb(var(--b))}\n"
	if s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}
}

func TestSheetApplyUnknown(t *testing.T) {
	s := twsheet.New(newCompiler(t), nil)
	if err := s.Apply([]twstyle.SheetOp{{Kind: twstyle.OpKind(42)}}); err == nil {
		t.Errorf("expected error for unknown operation")
	}
}

func TestSheetRefreshVersion(t *testing.T) {
	c := newCompiler(t)
	s := twsheet.New(c, nil)
	if err := s.Add("gap:1@bp"); err != nil {
		t.Fatal(err)
	}

	v := s.Version()
	if err := s.Refresh(); err != nil {
		t.Fatal(err)
	}
	if s.Version() != v {
		t.Errorf("refresh without changes bumped the version")
	}

	ops, err := c.Extend(twstyle.Breakpoints, map[string]any{"bp": 500})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ops); err != nil {
		t.Fatal(err)
	}
	if s.Version() == v {
		t.Errorf("version unchanged after a breakpoint change")
	}
	if want := "@media (min-width:500px){.gap\\:1\\@bp{gap:0.0625rem}}\n"; s.String() != want {
		t.Errorf("got  %q\nwant %q", s.String(), want)
	}
}

func TestSheetMinify(t *testing.T) {
	s := twsheet.New(newCompiler(t), nil)
	if err := s.Add("w:full", "d:none@print"); err != nil {
		t.Fatal(err)
	}
	s.SetMinify(true)

	var buf bytes.Buffer
	if err := s.WriteUtilities(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "\n") {
		t.Errorf("minified output has newlines: %q", out)
	}
	for _, want := range []string{`.w\:full{width:100%}`, `@media print{.d\:none\@print{display:none}}`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %q", want, out)
		}
	}
}

func TestSheetConcurrent(t *testing.T) {
	s := twsheet.New(newCompiler(t), nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Add(fmt.Sprintf("w:%d", j))
				if i%2 == 0 {
					_ = s.String()
				} else {
					s.Refresh()
				}
			}
		}(i)
	}
	wg.Wait()
	if n := len(s.Styles()); n != 20 {
		t.Errorf("expected 20 rules, got %d", n)
	}
}
