package common

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

var clockRe = regexp.MustCompile(`(\d{2}):(\d{2})`)

// ParseFloat parses the trimmed text as a float64, returning nil for anything
// that is not a finite number (blank cells, "-" placeholders, NaN, Inf).
func ParseFloat(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// ClockTime finds the first HH:MM in text and places it on day's calendar date,
// in day's location.
func ClockTime(text string, day time.Time) (time.Time, bool) {
	m := clockRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}

// SameName compares two display names after trimming and NFC normalization,
// since upstream pages mix composed and decomposed Hangul.
func SameName(a, b string) bool {
	return norm.NFC.String(strings.TrimSpace(a)) == norm.NFC.String(strings.TrimSpace(b))
}

// CollapseSpace replaces runs of whitespace with a single space and trims the ends.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
