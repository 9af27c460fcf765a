package twfiles_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/gotailwindcss/twstyle"
	"github.com/gotailwindcss/twstyle/twfiles"
)

func TestHTTPFiles(t *testing.T) {

	fs := fstest.MapFS{
		"site.yaml": &fstest.MapFile{Data: []byte("breakpoints:\n  md: 834\n")},
		"site.yml":  &fstest.MapFile{Data: []byte("breakpoints:\n  md: 900\n")},
	}

	cfg, err := twstyle.OpenConfig(twfiles.NewHTTP(http.FS(fs)), "site")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Breakpoints["md"]; got != 834 {
		t.Errorf("md = %v", got)
	}

	hf := twfiles.NewHTTP(http.FS(fs))
	hf.NameMapFunc = func(name string) string { return name + ".yml" }
	cfg, err = twstyle.OpenConfig(hf, "site")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Breakpoints["md"]; got != 900 {
		t.Errorf("md = %v", got)
	}

	if _, err := twstyle.OpenConfig(hf, "missing"); err == nil {
		t.Errorf("expected error for missing config")
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "colors.yaml"), []byte("colors:\n  brand: '#ff6600'\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := twstyle.OpenConfig(twfiles.New(dir), "colors")
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Colors["brand"]; got != "#ff6600" {
		t.Errorf("brand = %v", got)
	}
}
