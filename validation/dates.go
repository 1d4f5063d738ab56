package validation

import (
	"fmt"
	"strings"
	"time"
)

// layouts accepted by ParseISO, naive values are taken as UTC
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseISO parses an ISO 8601 date or date-time, with or without a zone suffix,
// and returns it in UTC.
func ParseISO(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[10] == ' ' {
		s = s[:10] + "T" + s[11:]
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%q is not an ISO 8601 date", s)
}

// ParseISOPtr parses s when set and returns nil otherwise
func ParseISOPtr(field string, s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := ParseISO(*s)
	if err != nil {
		return nil, Errorf(field, "%s must be an ISO 8601 date", field)
	}
	return &t, nil
}
