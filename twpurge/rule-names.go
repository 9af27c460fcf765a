package twpurge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// classNames returns every class in a selector token list, e.g.
// ".dark .bg\:red:hover" gives "dark" and "bg:red".
func classNames(tokens []css.Token) []string {
	var ret []string
	priorDot := false
	for _, tok := range tokens {
		if tok.TokenType == css.DelimToken && bytes.Equal(tok.Data, []byte(".")) {
			priorDot = true
			continue
		}
		if priorDot && tok.TokenType == css.IdentToken {
			ret = append(ret, cssUnescape(tok.Data))
		}
		priorDot = false
	}
	return ret
}

// cssUnescape undoes CSS identifier escapes: `\:` becomes ":" and hex
// escapes such as `\31 ` become the code point they name.
func cssUnescape(b []byte) string {
	i := bytes.IndexByte(b, '\\')
	if i < 0 {
		// no escaping needed
		return string(b)
	}

	var buf bytes.Buffer
	buf.Grow(len(b))
	buf.Write(b[:i])
	for i < len(b) {
		if b[i] != '\\' || i+1 >= len(b) {
			buf.WriteByte(b[i])
			i++
			continue
		}
		i++ // backslash
		j := i
		for j < len(b) && j-i < 6 && isHex(b[j]) {
			j++
		}
		if j == i {
			buf.WriteByte(b[i])
			i++
			continue
		}
		n, err := strconv.ParseUint(string(b[i:j]), 16, 32)
		if err != nil || n == 0 || n > utf8.MaxRune {
			n = utf8.RuneError
		}
		buf.WriteRune(rune(n))
		i = j
		if i < len(b) && b[i] == ' ' { // a single space ends a hex escape
			i++
		}
	}
	return buf.String()
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

// NamesFromCSS parses previously generated CSS and returns the class names
// its rules select, in order of first appearance. It lets a build start
// from the names of an earlier output.
func NamesFromCSS(cssR io.Reader) ([]string, error) {
	var ret []string
	seen := make(map[string]bool)
	add := func(names []string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				ret = append(ret, n)
			}
		}
	}

	p := css.NewParser(parse.NewInput(cssR), false)

mainLoop:
	for {

		gt, _, _ := p.Next()

		switch gt {

		case css.ErrorGrammar:
			err := p.Err()
			if errors.Is(err, io.EOF) {
				break mainLoop
			}
			return ret, err

		case css.QualifiedRuleGrammar, css.BeginRulesetGrammar:
			add(classNames(p.Values()))

		case css.AtRuleGrammar:
		case css.BeginAtRuleGrammar:
		case css.EndAtRuleGrammar:
		case css.DeclarationGrammar:
		case css.CustomPropertyGrammar:
		case css.EndRulesetGrammar:
		case css.TokenGrammar:
		case css.CommentGrammar:

		default: // verify we aren't missing a type
			return ret, fmt.Errorf("unexpected grammar type %v", gt)

		}

	}

	return ret, nil
}
