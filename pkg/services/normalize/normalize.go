// Package normalize converts raw field values to their canonical form.
// Every function is total: inputs that cannot be normalized come back as
// domain.Invalid and absent inputs as domain.Missing, never as an error.
package normalize

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/de-tools/fleximart/pkg/models/domain"
)

const (
	// CountryCode is prefixed to every canonical phone number.
	CountryCode = "91"

	// DateLayout is the canonical calendar date format.
	DateLayout = "2006-01-02"
)

// dateLayouts are tried in order and the first successful parse wins.
// Day-first precedes month-first, so 03/04/2024 is 3 April.
var dateLayouts = []string{
	"2006-1-2", // ISO
	"2/1/2006", // day-first slash
	"1-2-2006", // US dash
	"1/2/2006", // US slash
}

var nonDigit = regexp.MustCompile(`\D`)

// Phone strips every non-digit and formats the result as +91-XXXXXXXXXX.
// Ten digits are taken as a domestic number; twelve digits must start with
// the country code, which is dropped before reformatting.
func Phone(v domain.Value) domain.Value {
	if !v.IsPresent() {
		return domain.Missing()
	}

	digits := nonDigit.ReplaceAllString(v.Text(), "")
	switch {
	case len(digits) == 10:
		return domain.Present("+" + CountryCode + "-" + digits)
	case len(digits) == 12 && strings.HasPrefix(digits, CountryCode):
		return domain.Present("+" + CountryCode + "-" + digits[len(CountryCode):])
	}
	return domain.Invalid(v.Text())
}

// Date parses v with the first matching layout and renders it as YYYY-MM-DD.
func Date(v domain.Value) domain.Value {
	if !v.IsPresent() {
		return domain.Missing()
	}

	t, ok := ParseDate(v.Text())
	if !ok {
		return domain.Invalid(v.Text())
	}
	return domain.Present(t.Format(DateLayout))
}

// ParseDate applies the ordered layout list to s.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Category trims surrounding whitespace, upper-cases the first letter and
// lower-cases the rest.
func Category(v domain.Value) domain.Value {
	if !v.IsPresent() {
		return domain.Missing()
	}

	s := strings.TrimSpace(v.Text())
	if s == "" {
		return domain.Missing()
	}
	first, size := utf8.DecodeRuneInString(s)
	return domain.Present(string(unicode.ToTitle(first)) + strings.ToLower(s[size:]))
}
