package strings

import (
	"strings"
	"unicode"
)

// Capitalize uppercases the first byte of s when it is an ASCII letter and
// leaves the remainder untouched. No locale-aware casing is applied.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	c := s[0]
	if c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// Slug lowercases s and replaces spaces with hyphens
// ("Internal Server Error" -> "internal-server-error").
func Slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "-")
}

// ReplacePlaceholders rewrites every {name} placeholder in a pattern using fn.
// Unterminated braces are copied through unchanged.
func ReplacePlaceholders(pattern string, fn func(name string) string) string {
	var result strings.Builder
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '{' {
			result.WriteByte(pattern[i])
			continue
		}
		end := strings.IndexByte(pattern[i:], '}')
		if end < 0 {
			result.WriteString(pattern[i:])
			break
		}
		result.WriteString(fn(pattern[i+1 : i+end]))
		i += end
	}
	return result.String()
}

// Placeholders returns the names of every {name} placeholder in pattern,
// in order of appearance.
func Placeholders(pattern string) []string {
	var names []string
	ReplacePlaceholders(pattern, func(name string) string {
		names = append(names, name)
		return ""
	})
	return names
}

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
