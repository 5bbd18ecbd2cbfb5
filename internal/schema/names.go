package schema

import (
	"strings"
	"unicode"
)

// SymbolName derives the canonical UpperCamel symbol for a dictionary
// name. Separated names ("GOOD_TILL_CANCEL", "per-unit") split into
// lowercased words before titling; single words keep their interior
// case unless fully uppercase. The derivation is deterministic and
// collisions are rejected where symbols are registered, not here.
func SymbolName(name string) string {
	parts := splitParts(name)
	if len(parts) == 0 {
		return ""
	}
	for i := range parts {
		parts[i] = title(parts[i])
	}
	symbol := strings.Join(parts, "")
	if r := []rune(symbol); len(r) > 0 && unicode.IsDigit(r[0]) {
		symbol = "V" + symbol
	}
	return symbol
}

func splitParts(name string) []string {
	if name == "" {
		return nil
	}
	if strings.ContainsAny(name, "_- ") {
		parts := strings.FieldsFunc(name, func(r rune) bool {
			return r == '_' || r == '-' || r == ' '
		})
		for i := range parts {
			parts[i] = strings.ToLower(parts[i])
		}
		return parts
	}
	if allUpper(name) {
		return []string{strings.ToLower(name)}
	}
	return []string{name}
}

func allUpper(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

func title(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
