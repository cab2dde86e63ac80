package exporter

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/tj/go-naturaldate"
)

// wildcardSuffix marks a folder level that is matched by patterns instead of the prefix
const wildcardSuffix = "*/"

var baseDateLayouts = []string{
	"2006-01-02",
	"20060102",
	time.RFC3339,
}

// ResolveBaseDate turns a base_date expression into a point in time relative to now.
// It accepts "today", ISO dates and natural language such as "yesterday" or "3 days ago".
func ResolveBaseDate(expr string, now time.Time) (time.Time, error) {
	expr = strings.TrimSpace(expr)
	switch strings.ToLower(expr) {
	case "", "today", "now":
		return now, nil
	}

	for _, layout := range baseDateLayouts {
		if t, err := time.ParseInLocation(layout, expr, now.Location()); err == nil {
			return t, nil
		}
	}

	t, err := naturaldate.Parse(expr, now, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid base_date %q: %w", expr, err)
	}
	// naturaldate hands back now unchanged for text it does not understand
	if t.Equal(now) {
		return time.Time{}, fmt.Errorf("invalid base_date %q: unrecognized expression", expr)
	}
	return t, nil
}

// ValidateTemplate checks that a strftime template compiles
func ValidateTemplate(template string) error {
	if _, err := strftime.New(template); err != nil {
		return fmt.Errorf("invalid date template %q: %w", template, err)
	}
	return nil
}

// Expand substitutes strftime placeholders in template with base.
// A template that does not compile is returned verbatim.
func Expand(template string, base time.Time) string {
	out, err := strftime.Format(template, base)
	if err != nil {
		return template
	}
	return out
}

// ResolvePrefix turns a configured folder into the literal listing prefix.
// ok is false when the whole bucket should be listed.
func ResolvePrefix(folder string, smart bool, base time.Time) (prefix string, ok bool) {
	if folder == "" {
		return "", false
	}

	prefix = folder
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	if smart {
		prefix = Expand(prefix, base)
	}

	prefix = strings.TrimSuffix(prefix, wildcardSuffix)

	if prefix == "" || prefix == "/" {
		return "", false
	}
	return prefix, true
}
