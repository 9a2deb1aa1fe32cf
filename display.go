package qrscan

import "strings"

const displayPlaceholder = '¿'

// ForDisplay makes decoded text safe to print. Printable ASCII and every
// character from U+00A0 upward pass through, CR and LF line breaks are
// normalized to CRLF, and any other control character is replaced by an
// inverted question mark.
func ForDisplay(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c >= ' ' && c <= '~', c >= 0xA0:
			sb.WriteRune(c)
		case c == '\r':
			sb.WriteString("\r\n")
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
		case c == '\n':
			sb.WriteString("\r\n")
		default:
			sb.WriteRune(displayPlaceholder)
		}
	}
	return sb.String()
}
