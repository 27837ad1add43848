package reflection

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName turns a loader type name into the dotted form used by symbol
// tables: nested separators '+' become '.', generic arity suffixes ("`1",
// "`12") are dropped from every segment and the result is NFC normalized.
func NormalizeName(name string) string {
	name = norm.NFC.String(name)
	if strings.IndexByte(name, '`') < 0 && strings.IndexByte(name, '+') < 0 {
		return name
	}
	var sb strings.Builder
	sb.Grow(len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch c {
		case '`':
			j := i + 1
			for j < len(name) && name[j] >= '0' && name[j] <= '9' {
				j++
			}
			if j == i+1 {
				sb.WriteByte(c)
				continue
			}
			i = j - 1
		case '+':
			sb.WriteByte('.')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
