// Package twpurge collects the utility class names used by markup so only
// those need to be compiled.
package twpurge

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// MatchDefault is a filename matcher function which will return true for files
// that end in .html, .htm, .vugu, .jsx, .tsx, .vue or .svelte.
var MatchDefault = func(fn string) bool {
	ext := strings.ToLower(filepath.Ext(fn))
	switch ext {
	case ".html", ".htm", ".vugu", ".jsx", ".tsx", ".vue", ".svelte":
		return true
	}
	return false
}

// TokenizerFor picks a tokenizer by file name: class attributes for HTML
// files, the default splitting for everything else.
func TokenizerFor(fn string, r io.Reader) Tokenizer {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".html", ".htm":
		return NewHTMLTokenizer(r)
	}
	return NewDefaultTokenizer(r)
}

// Purger parses markup and accumulates the class names it uses.
type Purger struct {
	accept        func(name string) bool // nil accepts every token
	names         map[string]struct{}
	tokenizerFunc func(fn string, r io.Reader) Tokenizer
}

// New returns a new Purger instance. If accept is not nil, only tokens it
// returns true for are kept, typically those some descriptor matches.
func New(accept func(name string) bool) *Purger {
	return &Purger{
		accept:        accept,
		names:         make(map[string]struct{}),
		tokenizerFunc: TokenizerFor,
	}
}

// SetTokenizerFunc replaces TokenizerFor.
func (p *Purger) SetTokenizerFunc(f func(fn string, r io.Reader) Tokenizer) {
	p.tokenizerFunc = f
}

// WalkFunc returns a function which can be called by filepath.Walk
func (p *Purger) WalkFunc(fnmatch func(fn string) bool) filepath.WalkFunc {
	if fnmatch == nil {
		fnmatch = MatchDefault
	}
	return filepath.WalkFunc(func(fpath string, info os.FileInfo, err error) error {
		if err != nil { // any stat errors get returned as-is
			return err
		}
		if info.IsDir() { // ignore dirs
			return nil
		}
		if !fnmatch(fpath) { // ignore if filename doesn't match
			return nil
		}
		return p.ParseFile(fpath)
	})
}

// ParseReader reads markup from r with the default tokenizer.
func (p *Purger) ParseReader(r io.Reader) error {
	return p.ParseTokens(NewDefaultTokenizer(r))
}

// ParseTokens consumes every token from t.
func (p *Purger) ParseTokens(t Tokenizer) error {
	for {
		tok, err := t.NextToken()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		name := string(tok)
		if _, ok := p.names[name]; ok {
			continue
		}
		if p.accept != nil && !p.accept(name) {
			continue
		}
		p.names[name] = struct{}{}
	}
}

// ParseFile reads the markup file at fpath with the tokenizer chosen for
// its name.
func (p *Purger) ParseFile(fpath string) error {
	f, err := os.Open(fpath)
	if err != nil {
		return err
	}
	defer f.Close()
	return p.ParseTokens(p.tokenizerFunc(fpath, f))
}

// Contains reports whether name was found.
func (p *Purger) Contains(name string) bool {
	_, ok := p.names[name]
	return ok
}

// Names returns the names found, in natural order so "p:2" sorts before
// "p:10".
func (p *Purger) Names() []string {
	ret := make([]string, 0, len(p.names))
	for k := range p.names {
		ret = append(ret, k)
	}
	sort.Sort(natural.StringSlice(ret))
	return ret
}
