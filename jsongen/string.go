package jsongen

import "unicode/utf8"

// appendString appends s as a quoted JSON string:
//   - " → \"
//   - \ → \\
//   - U+0008 → \b, U+0009 → \t, U+000A → \n, U+000C → \f, U+000D → \r
//   - Other control chars U+0000-U+001F → \u00xx (lowercase hex)
//   - Invalid UTF-8 bytes → U+FFFD
//   - Everything else: raw UTF-8, no escaping
func appendString(buf []byte, s string) []byte {
	buf = append(buf, '"')
	for i := 0; i < len(s); {
		b := s[i]
		if b >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			if r == utf8.RuneError && size == 1 {
				buf = append(buf, "\ufffd"...)
			} else {
				buf = append(buf, s[i:i+size]...)
			}
			i += size
			continue
		}
		switch {
		case b == '"':
			buf = append(buf, '\\', '"')
		case b == '\\':
			buf = append(buf, '\\', '\\')
		case b == '\b':
			buf = append(buf, '\\', 'b')
		case b == '\t':
			buf = append(buf, '\\', 't')
		case b == '\n':
			buf = append(buf, '\\', 'n')
		case b == '\f':
			buf = append(buf, '\\', 'f')
		case b == '\r':
			buf = append(buf, '\\', 'r')
		case b < 0x20:
			buf = append(buf, '\\', 'u', '0', '0', hexDigit(b>>4), hexDigit(b&0x0F))
		default:
			buf = append(buf, b)
		}
		i++
	}
	return append(buf, '"')
}

func hexDigit(b byte) byte {
	if b < 10 {
		return '0' + b
	}
	return 'a' + (b - 10)
}
