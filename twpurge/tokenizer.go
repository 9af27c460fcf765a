package twpurge

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Tokenizer returns the next token from a markup file.
type Tokenizer interface {
	NextToken() ([]byte, error) // returns a token or error (not both), io.EOF indicates end of stream
}

// Class names may contain '<' and '>' (e.g. "w:10@<md"), so unlike tag
// delimiters in general those only trim token edges.
func isbr(c byte) bool {
	switch c {
	// NOTE: We're going to assume ASCII is fine here - we could do some UTF-8 fanciness but I don't know
	// of any situation where it would matter for our purposes here.
	case '"', '\'', '`',
		'\t', '\n', '\v', '\f', '\r', ' ':
		return true
	}
	return false
}

// NewDefaultTokenizer returns a tokenizer that splits any markup on
// quotes and whitespace. It suits templates (jsx, vue) where class lists
// are not plain HTML attributes.
func NewDefaultTokenizer(r io.Reader) *DefaultTokenizer {
	s := bufio.NewScanner(r)
	s.Split(func(data []byte, atEOF bool) (advance int, token []byte, err error) {

		// consume any break text
		for len(data) > 0 {
			if !isbr(data[0]) {
				break
			}
			data = data[1:]
			advance++
		}

		// now read through any non-break text
		var i int
		for i = 0; i < len(data); i++ {
			if isbr(data[i]) {
				// if we encounter a break, then return what we've read so far as the token
				if i > 0 {
					token = data[:i]
				}
				advance += i
				return
			}
		}

		// if we get here it means we read until the end of the buffer
		// and it's still in the middle of non-break text

		if atEOF { // this is the end of the stream, return this last as a token
			if i > 0 {
				token = data[:i]
			}
			advance += i
			return
		}

		// not end of stream, tell it we need more (advance may have been incremented above)
		return advance, nil, nil
	})
	return &DefaultTokenizer{
		s: s,
	}
}

// DefaultTokenizer implements Tokenizer with a sensible default tokenization.
type DefaultTokenizer struct {
	s *bufio.Scanner
}

// NextToken implements Tokenizer.
func (t *DefaultTokenizer) NextToken() ([]byte, error) {
	for t.s.Scan() {
		b := bytes.TrimLeft(t.s.Bytes(), `/\=<{`)
		b = bytes.TrimRight(b, `/\=>}`)
		if len(b) == 0 {
			continue
		}
		return b, nil
	}
	if err := t.s.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// HTMLTokenizer implements Tokenizer for HTML, returning only the names
// listed in class attributes.
type HTMLTokenizer struct {
	z       *html.Tokenizer
	pending []string
}

// NewHTMLTokenizer returns a tokenizer reading HTML from r.
func NewHTMLTokenizer(r io.Reader) *HTMLTokenizer {
	return &HTMLTokenizer{z: html.NewTokenizer(r)}
}

// NextToken implements Tokenizer.
func (t *HTMLTokenizer) NextToken() ([]byte, error) {
	for len(t.pending) == 0 {
		switch t.z.Next() {
		case html.ErrorToken:
			err := t.z.Err()
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		case html.StartTagToken, html.SelfClosingTagToken:
			if _, hasAttr := t.z.TagName(); !hasAttr {
				continue
			}
			for {
				key, val, more := t.z.TagAttr()
				if string(key) == "class" {
					t.pending = append(t.pending, strings.Fields(string(val))...)
				}
				if !more {
					break
				}
			}
		}
	}
	tok := t.pending[0]
	t.pending = t.pending[1:]
	return []byte(tok), nil
}
