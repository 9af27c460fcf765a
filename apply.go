package twstyle

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// applier expands @apply names into declarations, caching per name.
type applier struct {
	c *Compiler
	m map[string]string
}

func newApplier(c *Compiler) *applier {
	return &applier{c: c, m: make(map[string]string, 32)}
}

func (a *applier) apply(names []string) ([]byte, error) {
	ret := make([]byte, 0, len(names)*16)
	for _, name := range names {
		decls, ok := a.m[name]
		if !ok {
			var err error
			decls, err = a.declarations(name)
			if err != nil {
				return ret, err
			}
			a.m[name] = decls
		}
		ret = append(ret, decls...)
		ret = append(ret, ';')
	}
	return ret, nil
}

// declarations compiles name, or every literal name of a semantic class,
// into one declaration list.
func (a *applier) declarations(name string) (string, error) {
	names := []string{name}
	if literals, ok := a.c.ClassNames(name); ok {
		names = literals
	}
	decls := make([]string, 0, len(names))
	for _, n := range names {
		st, err := a.c.Compile(n)
		if err != nil {
			return "", fmt.Errorf("unknown @apply name: %s", n)
		}
		if st.Selector != "" || len(st.AtRules) > 0 || st.ColorScheme != "" || st.Direction != "" {
			return "", fmt.Errorf("@apply name %s has a selector or at-rule", n)
		}
		decls = append(decls, st.Declarations)
	}
	return strings.Join(decls, ";"), nil
}

// applyNames joins the tokens of an @apply rule back into text and splits
// it on whitespace; utility names span several css tokens (w:full is an
// ident, a colon and another ident).
func applyNames(tokens []css.Token) []string {
	var sb strings.Builder
	for _, tok := range tokens {
		if tok.TokenType == css.CommentToken {
			sb.WriteByte(' ')
			continue
		}
		sb.Write(tok.Data)
	}
	return strings.Fields(sb.String())
}
