// Package coerce converts raw value text into the native type of a schema
// field. Conversion failures are reported as *TypeMismatchError values and
// never propagate as panics.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xhit/go-str2duration/v2"

	"github.com/eugenenazirov/simconfig/internal/schema"
)

const day = 24 * time.Hour

var errMalformedClock = errors.New("malformed clock duration")

// CheckSchema returns an error wrapping ErrUnsupportedType for the first
// field whose kind has no conversion rule.
func CheckSchema(fields []schema.Field) error {
	for _, f := range fields {
		if !supported(f.Kind) {
			return fmt.Errorf("field %s of kind %s: %w", f.Name, f.Kind, ErrUnsupportedType)
		}
	}
	return nil
}

func supported(kind schema.Kind) bool {
	switch kind {
	case schema.KindInteger, schema.KindDuration, schema.KindInboundStrategy, schema.KindPowerSupply:
		return true
	default:
		return false
	}
}

// Value converts text into the Go type backing field f: int, time.Duration,
// schema.InboundStrategy or schema.PowerSupply.
func Value(f schema.Field, text string) (v any, err error) {
	if !supported(f.Kind) {
		return nil, fmt.Errorf("field %s of kind %s: %w", f.Name, f.Kind, ErrUnsupportedType)
	}

	defer func() {
		if r := recover(); r != nil {
			v = nil
			err = &TypeMismatchError{Field: f.Name, Text: text, Expected: f.Kind.String(), Err: fmt.Errorf("%v", r)}
		}
	}()

	v, err = convert(f.Kind, text)
	if err != nil {
		return nil, &TypeMismatchError{Field: f.Name, Text: text, Expected: f.Kind.String(), Err: err}
	}
	return v, nil
}

func convert(kind schema.Kind, text string) (any, error) {
	switch kind {
	case schema.KindInteger:
		return strconv.Atoi(text)
	case schema.KindDuration:
		return ParseDuration(text)
	case schema.KindInboundStrategy:
		if s, ok := schema.ParseInboundStrategy(text); ok {
			return s, nil
		}
	case schema.KindPowerSupply:
		if p, ok := schema.ParsePowerSupply(text); ok {
			return p, nil
		}
	}
	return nil, fmt.Errorf("expected one of %s", strings.Join(schema.Variants(kind), ", "))
}

// ParseDuration accepts the clock grammar
//
//	[-]d
//	[-][d.]hh:mm[:ss[.fffffff]]
//	[-]d:hh:mm:ss[.fffffff]
//
// with hours in 0-23 and minutes and seconds in 0-59.
//
// As an extension beyond the clock grammar, text without ':' that carries
// unit suffixes ("8h", "1d12h", "90m") is also accepted and parsed with
// str2duration. Strict clock parsers reject these forms.
func ParseDuration(text string) (time.Duration, error) {
	s, negative := strings.CutPrefix(text, "-")
	if s == "" {
		return 0, errMalformedClock
	}

	var d time.Duration
	var err error
	switch {
	case !strings.Contains(s, ":") && isDigits(s):
		var days int64
		days, err = parseComponent(s, math.MaxInt64/int64(day))
		d = time.Duration(days) * day
	case !strings.Contains(s, ":"):
		d, err = str2duration.ParseDuration(s)
		if err == nil && d < 0 {
			err = errMalformedClock
		}
	default:
		d, err = parseClock(s)
	}
	if err != nil {
		return 0, err
	}

	if negative {
		d = -d
	}
	return d, nil
}

func parseClock(s string) (time.Duration, error) {
	parts := strings.Split(s, ":")

	var daysText string
	var hasDays bool
	switch len(parts) {
	case 2, 3:
		daysText, parts[0], hasDays = cutDays(parts[0])
	case 4:
		daysText, parts, hasDays = parts[0], parts[1:], true
	default:
		return 0, errMalformedClock
	}

	var fracText string
	var hasFrac bool
	if len(parts) == 3 {
		parts[2], fracText, hasFrac = strings.Cut(parts[2], ".")
	}

	var d time.Duration
	if hasDays {
		days, err := parseComponent(daysText, math.MaxInt64/int64(day)-1)
		if err != nil {
			return 0, err
		}
		d = time.Duration(days) * day
	}

	limits := []int64{23, 59, 59}
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, part := range parts {
		n, err := parseComponent(part, limits[i])
		if err != nil {
			return 0, err
		}
		d += time.Duration(n) * units[i]
	}

	if hasFrac {
		if len(fracText) > 7 || !isDigits(fracText) {
			return 0, errMalformedClock
		}
		ticks, err := strconv.ParseInt(fracText+strings.Repeat("0", 7-len(fracText)), 10, 64)
		if err != nil {
			return 0, err
		}
		d += time.Duration(ticks) * 100 * time.Nanosecond
	}
	return d, nil
}

// cutDays splits a leading "d." days component off the hours text.
func cutDays(hours string) (days, rest string, found bool) {
	days, rest, found = strings.Cut(hours, ".")
	if !found {
		return "", hours, false
	}
	return days, rest, true
}

func parseComponent(text string, limit int64) (int64, error) {
	if !isDigits(text) {
		return 0, errMalformedClock
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, fmt.Errorf("component %d exceeds %d: %w", n, limit, errMalformedClock)
	}
	return n, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
