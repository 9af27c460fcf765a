package twstyle

import (
	"strings"

	"github.com/gotailwindcss/twstyle/twunit"
)

// closers maps each opening delimiter to its terminator.
var closers = [256]byte{
	'(':  ')',
	'{':  '}',
	'\'': '\'',
	'"':  '"',
}

// valueScanner splits the value part of a class name into resolved
// segments. It only knows where segments begin and end; resolving units
// and colors is left to resolve.
type valueScanner struct {
	src     string
	i       int
	cur     []byte
	vals    []twunit.Value
	resolve func(raw string) twunit.Value
}

// scanValue scans src from the start and returns the combined value and
// the unscanned remainder, which begins at the selector or at-rule suffix.
// Unterminated delimiters are flushed as they are.
func scanValue(src string, resolve func(raw string) twunit.Value) (twunit.Value, string) {
	s := &valueScanner{src: src, resolve: resolve}
	s.top()
	s.flush()
	if s.i > len(src) {
		s.i = len(src)
	}
	return s.value(), src[s.i:]
}

func (s *valueScanner) value() twunit.Value {
	switch len(s.vals) {
	case 0:
		return twunit.Value{}
	case 1:
		return s.vals[0]
	}
	var sb strings.Builder
	for i, v := range s.vals {
		str := v.String()
		if i > 0 && str != "," {
			sb.WriteByte(' ')
		}
		sb.WriteString(str)
	}
	return twunit.Text(sb.String())
}

func (s *valueScanner) flush() {
	if len(s.cur) == 0 {
		return
	}
	s.vals = append(s.vals, s.resolve(string(s.cur)))
	s.cur = s.cur[:0]
}

func (s *valueScanner) pushRaw(raw string) {
	s.vals = append(s.vals, twunit.Text(raw))
	s.cur = s.cur[:0]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// top scans at depth zero until a suffix boundary or the end of src.
func (s *valueScanner) top() {
	fn := "" // name of the function being written, e.g. "path"
	for ; s.i < len(s.src); s.i++ {
		ch := s.src[s.i]
		switch {
		case closers[ch] != 0:
			s.nested(closers[ch], 0, fn)
			fn = ""

		case ch == '|':
			s.flush()
			fn = ""

		case ch == ',':
			s.flush()
			s.pushRaw(",")
			fn = ""

		case ch == '.':
			if s.i+1 >= len(s.src) || !isDigit(s.src[s.i+1]) {
				return
			}
			if s.i > 0 && s.src[s.i-1] == '-' {
				s.cur = append(s.cur, '0')
			}
			fn += "."
			s.cur = append(s.cur, ch)

		case ch == '#' && s.hashEndsValue():
			return

		case strings.IndexByte(selectorSymbols, ch) >= 0:
			return

		default:
			fn += string(ch)
			s.cur = append(s.cur, ch)
		}
	}
}

// hashEndsValue reports whether a '#' at the cursor starts an id selector
// rather than a hex color. A hex color must start a fresh segment.
func (s *valueScanner) hashEndsValue() bool {
	if len(s.cur) > 0 {
		return true
	}
	if len(s.vals) == 0 {
		return false
	}
	prev := s.src[s.i-1]
	return prev != '|' && prev != ','
}

// nested scans from the opening delimiter at the cursor through its
// matching end. At depth zero the completed segment is flushed. On return
// the cursor rests on end, or past the input when end never appeared.
func (s *valueScanner) nested(end byte, depth int, fn string) {
	varIndex := -1
	if end == ')' && len(s.cur) > 0 && s.cur[len(s.cur)-1] == '$' {
		varIndex = len(s.cur) - 1
	}
	quoted := end == '\'' || end == '"'

	s.cur = append(s.cur, s.src[s.i])
	s.i++
	for ; s.i < len(s.src); s.i++ {
		ch := s.src[s.i]
		switch {
		case ch == end:
			s.cur = append(s.cur, ch)
			if varIndex >= 0 {
				// $(name) -> var(--name)
				inner := string(s.cur[varIndex+2 : len(s.cur)-1])
				s.cur = append(s.cur[:varIndex], "var(--"+inner+")"...)
			}
			if depth == 0 {
				if quoted {
					s.pushRaw(string(s.cur))
				} else {
					s.flush()
				}
			}
			return

		case quoted:
			if ch == '|' && fn == "path" {
				ch = ' '
			}
			s.cur = append(s.cur, ch)

		case closers[ch] != 0:
			s.nested(closers[ch], depth+1, fn)

		case ch == '|':
			s.cur = append(s.cur, ' ')

		default:
			s.cur = append(s.cur, ch)
		}
	}
}
