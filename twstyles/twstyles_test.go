package twstyles

import (
	"reflect"
	"testing"

	"github.com/gotailwindcss/twstyle"
)

func TestRegister(t *testing.T) {
	c := twstyle.New(nil)
	if err := Register(c); err != nil {
		t.Fatal(err)
	}
	ds := c.Descriptors()
	if len(ds) != len(Default()) {
		t.Errorf("registered %d of %d descriptors", len(ds), len(Default()))
	}
	seen := make(map[string]bool)
	for _, d := range ds {
		if seen[d.ID] {
			t.Errorf("duplicate descriptor %q", d.ID)
		}
		seen[d.ID] = true
	}

	// a second registration of the same table must be rejected whole
	if err := Register(c); err == nil {
		t.Errorf("expected duplicate errors")
	}
}

func TestDefaultIsFresh(t *testing.T) {
	a, b := Default(), Default()
	a[5].Values["full"] = "changed"
	if b[5].Values["full"] != "100%" {
		t.Errorf("Default shares value maps between calls")
	}
}

func TestBorderProps(t *testing.T) {
	tcaseList := []struct {
		prefix string
		props  []string
	}{
		{"b:", []string{"border-color"}},
		{"border:", []string{"border-color"}},
		{"b-color:", []string{"border-color"}},
		{"bx:", []string{"border-left-color", "border-right-color"}},
		{"by:", []string{"border-top-color", "border-bottom-color"}},
		{"bt:", []string{"border-top-color"}},
		{"bl:", []string{"border-left-color"}},
		{"border-bottom:", []string{"border-bottom-color"}},
		{"border-left-color:", []string{"border-left-color"}},
	}
	for _, tc := range tcaseList {
		if got := borderProps(tc.prefix, "color"); !reflect.DeepEqual(got, tc.props) {
			t.Errorf("%s: got %v, want %v", tc.prefix, got, tc.props)
		}
	}
}

func TestAxis(t *testing.T) {
	for prefix, want := range map[string]byte{
		"gap:":                   0,
		"gap-x:":                 'x',
		"ovf-y:":                 'y',
		"overscroll-behavior-z:": 0,
		"x:":                     0,
	} {
		if got := axis(prefix); got != want {
			t.Errorf("axis(%q) = %q, want %q", prefix, got, want)
		}
	}
}

func TestDefaultStyles(t *testing.T) {
	c := twstyle.New(nil)
	if err := Register(c); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Extend(twstyle.Colors, map[string]any{"ink": "#111111"}); err != nil {
		t.Fatal(err)
	}

	tcaseList := []struct {
		name string
		decl string
	}{
		{"static", "position:static"},
		{"sticky", "position:sticky"},
		{"max-h:50vh", "max-height:50vh"},
		{"max-height:min", "max-height:min-content"},
		{"t-overflow:clip", "text-overflow:clip"},
		{"width:max", "width:max-content"},
		{"font-size:2em", "font-size:2em"},
		{"f:24", "font-size:1.5rem"},
		{"f-weight:heavy", "font-weight:900"},
		{"font:light", "font-weight:300"},
		{"thin", "font-weight:100"},
		{"flex", "display:flex"},
		{"display:table", "display:table"},
		{"v:top", "vertical-align:top"},
		{"vertical-align:sub", "vertical-align:sub"},
		{"by:ink", "border-top-color:rgb(var(--ink));border-bottom-color:rgb(var(--ink))"},
		{"border-left:ink", "border-left-color:rgb(var(--ink))"},
		{"b-color:red", "border-color:red"},
		{"font:ink/.5", "color:rgb(var(--ink)/.5)"},
		{"font-color:ink", "color:rgb(var(--ink))"},
		{"background:ink", "background-color:rgb(var(--ink))"},
		{"bg-color:transparent", "background-color:transparent"},
		{"$space:$(gap)", "--space:var(--gap)"},
		{"grid-column-span:auto", "grid-column:auto"},
		{"background-clip:padding-box", "-webkit-background-clip:padding-box;background-clip:padding-box"},
		{"transition-property:color,opacity", "transition-property:color, opacity"},
		{"fill:none", "fill:none"},
		{"overscroll-behavior:none", "overscroll-behavior:none"},
		{"text:capitalize", "text-transform:capitalize"},
		{"background-origin:border-box", "background-origin:border-box"},
		{"stroke:ink", "stroke:rgb(var(--ink))"},
	}

	for _, tc := range tcaseList {
		st, err := c.Compile(tc.name)
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if st.Declarations != tc.decl {
			t.Errorf("%s: got %q, want %q", tc.name, st.Declarations, tc.decl)
		}
	}
}
