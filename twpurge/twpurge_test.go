package twpurge

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func tokens(t *testing.T, tz Tokenizer) map[string]bool {
	t.Helper()
	tokMap := make(map[string]bool)
	for {
		tok, err := tz.NextToken()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			t.Fatal(err)
		}
		tokMap[string(tok)] = true
	}
	return tokMap
}

func TestDefaultTokenizer(t *testing.T) {

	tokMap := tokens(t, NewDefaultTokenizer(strings.NewReader(`
	<html class="blah"><body id="blee" class="gap:1@>sm w:10@<md"><div class='grid-col-span:2'></div>  </body></html>
	<Comp className={"bg-origin:center"} />
`)))

	for _, want := range []string{"gap:1@>sm", "w:10@<md", "grid-col-span:2", "bg-origin:center", "blah"} {
		if !tokMap[want] {
			t.Errorf("missing token %q", want)
		}
	}
	if tokMap["class="] { // should not have trailing equal sign
		t.Errorf("unexpected class= token")
	}
	if tokMap["<html"] {
		t.Errorf("tag delimiter not trimmed")
	}
}

func TestHTMLTokenizer(t *testing.T) {

	tokMap := tokens(t, NewHTMLTokenizer(strings.NewReader(`
	<html class="blah"><body id="blee" class="gap:1@>sm  w:10@&lt;md"><br/><img class="d:block" />
	<p>class="not:an-attr"</p></body></html>
`)))

	want := map[string]bool{"blah": true, "gap:1@>sm": true, "w:10@<md": true, "d:block": true}
	if !reflect.DeepEqual(tokMap, want) {
		t.Errorf("unexpected tokens: %v", tokMap)
	}
}

func TestPurger(t *testing.T) {

	p := New(func(name string) bool { return strings.Contains(name, ":") })
	err := p.ParseReader(strings.NewReader(`<div class="p:10 p:2 p:1 plain"></div>`))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.Names(), []string{"p:1", "p:2", "p:10"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if p.Contains("plain") {
		t.Errorf("rejected token kept")
	}
}

func TestPurgerWalk(t *testing.T) {

	dir := t.TempDir()
	files := map[string]string{
		"index.html":     `<p class="w:full">class="d:none"</p>`,
		"sub/app.vue":    `<template><div class="bg-origin:center"></div></template>`,
		"sub/ignored.go": `var s = "w:ignored"`,
	}
	for name, content := range files {
		fp := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(fp), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(fp, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	p := New(func(name string) bool { return strings.Contains(name, ":") })
	if err := filepath.Walk(dir, p.WalkFunc(nil)); err != nil {
		t.Fatal(err)
	}
	if got, want := p.Names(), []string{"bg-origin:center", "w:full"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestCSSUnescape(t *testing.T) {
	tcases := []struct {
		in, out string
	}{
		{`plain`, `plain`},
		{`w\:full`, `w:full`},
		{`gap\:1\@\>sm`, `gap:1@>sm`},
		{`\31 0`, `10`},
		{`\31 23`, `123`},
		{`a\\b`, `a\b`},
	}
	for _, tc := range tcases {
		if got := cssUnescape([]byte(tc.in)); got != tc.out {
			t.Errorf("cssUnescape(%q) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestNamesFromCSS(t *testing.T) {

	names, err := NamesFromCSS(strings.NewReader(`
:root{--brand:255 102 0}
.bg-origin\:center{background-origin:center}
@media (min-width:768.02px){.gap\:1\@\>sm{gap:0.0625rem}}
.dark .f\:brand\@dark{color:rgb(var(--brand))}
.p\:1,.btn{padding:0.0625rem}
.w\:full{width:100%}
.bg-origin\:center:hover{background-origin:center}
`))
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"bg-origin:center", "gap:1@>sm", "dark", "f:brand@dark", "p:1", "btn", "w:full"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("unexpected result: %q", names)
	}
}
