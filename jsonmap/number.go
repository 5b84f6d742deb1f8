package jsonmap

import (
	"errors"
	"math"
	"strconv"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

var errNotFinite = errors.New("jsonmap: number is not finite")

// formatFloat returns the JSON literal for f. Doubles use the ECMAScript
// Number::toString form (shortest round-trip, -0 written as 0). Singles use
// the shortest text that round-trips through float32.
func formatFloat(f float64, bits int) (string, error) {
	if bits == 64 {
		return jsoncanonicalizer.NumberToJSON(f)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", errNotFinite
	}
	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (float32(abs) < 1e-6 || float32(abs) >= 1e21) {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 32)
	if format == 'e' {
		// e-09 → e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b), nil
}

// isValidNumber reports whether s is a JSON number literal (RFC 8259 §6).
func isValidNumber(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' {
		s = s[1:]
		if s == "" {
			return false
		}
	}

	switch {
	case s[0] == '0':
		s = s[1:]
	case '1' <= s[0] && s[0] <= '9':
		s = skipDigits(s[1:])
	default:
		return false
	}

	if len(s) >= 2 && s[0] == '.' && isDigit(s[1]) {
		s = skipDigits(s[2:])
	}

	if len(s) >= 1 && (s[0] == 'e' || s[0] == 'E') {
		s = s[1:]
		if len(s) >= 1 && (s[0] == '+' || s[0] == '-') {
			s = s[1:]
		}
		if s == "" || !isDigit(s[0]) {
			return false
		}
		s = skipDigits(s)
	}
	return s == ""
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func skipDigits(s string) string {
	for len(s) > 0 && isDigit(s[0]) {
		s = s[1:]
	}
	return s
}
