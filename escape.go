package twstyle

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Escape escapes a class name for use in a selector, following the CSSOM
// CSS.escape algorithm.
func Escape(name string) string {
	var sb strings.Builder
	sb.Grow(len(name) + 8)
	first := true
	for i, r := range name {
		switch {
		case r == 0:
			sb.WriteRune(utf8.RuneError)
		case (r >= 0x1 && r <= 0x1f) || r == 0x7f,
			first && r >= '0' && r <= '9',
			i == 1 && r >= '0' && r <= '9' && name[0] == '-':
			sb.WriteString(`\` + strconv.FormatInt(int64(r), 16) + " ")
		case first && r == '-' && len(name) == 1:
			sb.WriteString(`\-`)
		case r >= 0x80, r == '-', r == '_',
			r >= '0' && r <= '9',
			r >= 'A' && r <= 'Z',
			r >= 'a' && r <= 'z':
			sb.WriteRune(r)
		default:
			sb.WriteByte('\\')
			sb.WriteRune(r)
		}
		first = false
	}
	return sb.String()
}
