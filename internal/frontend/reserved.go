package frontend

import (
	"strings"
	"unicode"

	"github.com/roach88/tsbind/internal/ir"
)

// builtinReserved maps property keys that cannot be used as field names.
var builtinReserved = map[string]string{
	"type": "type_",
	"ref":  "ref_",
	"self": "self_",
	"+1":   "plus_1",
	"-1":   "minus_1",
}

var keywords = []string{
	"as", "async", "await", "break", "const", "continue", "crate", "dyn",
	"else", "enum", "extern", "false", "fn", "for", "if", "impl", "in",
	"let", "loop", "match", "mod", "move", "mut", "pub", "return", "static",
	"struct", "super", "trait", "true", "unsafe", "use", "where", "while",
	"abstract", "become", "box", "do", "final", "macro", "override", "priv",
	"try", "typeof", "unsized", "virtual", "yield",
}

// ReservedTable returns the built-in key renames merged with extra. Entries
// in extra win.
func ReservedTable(extra map[string]string) map[string]string {
	table := make(map[string]string, len(builtinReserved)+len(keywords)+len(extra))
	for _, kw := range keywords {
		table[kw] = kw + "_"
	}
	for k, v := range builtinReserved {
		table[k] = v
	}
	for k, v := range extra {
		table[k] = v
	}
	return table
}

// fieldName resolves a property key to a field identifier. rename is the
// wire key when it differs from the identifier, or "".
func (c *converter) fieldName(key string) (name, rename string) {
	if r, ok := c.reserved[key]; ok {
		return r, key
	}
	if ir.IsIdent(key) {
		return key, ""
	}
	return sanitizeKey(key), key
}

// sanitizeKey replaces every character that cannot appear in an identifier
// with an underscore.
func sanitizeKey(key string) string {
	var sb strings.Builder
	for _, r := range key {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	s := strings.Trim(sb.String(), "_")
	switch {
	case s == "":
		return "field"
	case unicode.IsDigit([]rune(s)[0]):
		return "_" + s
	}
	return s
}
