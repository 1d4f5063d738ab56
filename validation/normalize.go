package validation

import (
	"strings"
	"unicode"
)

// FirstName trims s and capitalizes it
func FirstName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LastName trims and upper-cases s
func LastName(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Sex reduces s to its upper-cased first letter
func Sex(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return string([]rune(strings.ToUpper(s))[0])
}

// Trim trims the string p points at, if any
func Trim(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}

// TrimAll trims every element of ss and drops the blank ones
func TrimAll(ss []string) []string {
	if ss == nil {
		return nil
	}
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Value returns the string p points at, or an empty string
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Optional trims the string p points at and returns nil when it is blank
func Optional(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

// Upper trims and upper-cases the string p points at, if any
func Upper(p *string) {
	if p != nil {
		*p = strings.ToUpper(strings.TrimSpace(*p))
	}
}
