package ir

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// LiteralKeyMap records, per record name, the properties whose declared type
// is exactly one string literal: record -> property -> literal value.
type LiteralKeyMap map[string]map[string]string

// Set records that property key of record holds the literal value.
func (m LiteralKeyMap) Set(record, key, value string) {
	props, ok := m[record]
	if !ok {
		props = make(map[string]string)
		m[record] = props
	}
	props[key] = value
}

// Get returns the literal properties of record.
func (m LiteralKeyMap) Get(record string) (map[string]string, bool) {
	props, ok := m[record]
	return props, ok
}

// LiteralIdent derives a variant identifier from a literal string value.
// Separators (-, space, _) split terms; each term keeps its ASCII letters and
// digits, lower-cased with the first character upper-cased. A term starting
// with a digit gets an N prefix and an empty result becomes Value.
func LiteralIdent(value string) string {
	terms := strings.FieldsFunc(value, func(r rune) bool {
		return r == '-' || r == ' ' || r == '_'
	})
	var sb strings.Builder
	for _, term := range terms {
		var clean []byte
		for i := 0; i < len(term); i++ {
			c := term[i]
			if c < unicode.MaxASCII && (isASCIILetter(c) || isASCIIDigit(c)) {
				clean = append(clean, toLowerASCII(c))
			}
		}
		if len(clean) == 0 {
			continue
		}
		if isASCIIDigit(clean[0]) {
			sb.WriteByte('N')
		}
		clean[0] = toUpperASCII(clean[0])
		sb.Write(clean)
	}
	if sb.Len() == 0 {
		return "Value"
	}
	return sb.String()
}

// IsIdent reports whether s is a valid identifier in the target language.
func IsIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}
	return s != "_"
}

// LiteralSetKey returns the canonical key of a set of literal values. The
// key is independent of order and duplicates, and of Unicode normalization.
func LiteralSetKey(values []string) string {
	norms := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		n := norm.NFC.String(v)
		if seen[n] {
			continue
		}
		seen[n] = true
		norms = append(norms, n)
	}
	sort.Strings(norms)
	return strings.Join(norms, "\x00")
}

func isASCIILetter(c byte) bool { return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isASCIIDigit(c byte) bool  { return c >= '0' && c <= '9' }

func toLowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
