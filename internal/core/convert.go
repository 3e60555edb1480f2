package core

// convert.go turns cell text into typed values for sorting and spreadsheet output.
//
// Rendered tables carry the messy reality of formatted numbers:
//   - Currency symbols and thousand separators
//   - Accounting negatives "(123.45)"
//   - Several date layouts (ISO, US, day-month-name)
//   - Non-breaking spaces and runs of whitespace from markup
//
// All Parse* functions report ok=false for empty or unrecognised input so
// callers can fall back to plain text.

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// whitespaceRegex matches runs of whitespace including NBSP.
var whitespaceRegex = regexp.MustCompile(`[\s\x{00a0}]+`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would result in dates more than this many years in the future
// are assumed to be in the previous century.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z07:00",
		"2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006", "Jan 2006",
		"20060102",
	}
)

// NormalizeText collapses whitespace runs (including NBSP) to single spaces
// and trims the result, matching how browsers render cell text.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// ParseNumber converts cell text to a float64.
// Handles currency symbols, thousands separators, and accounting format (parentheses for negative).
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	// Remove common currency symbols and thousands separators
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseDate converts cell text to a time.Time.
// Supports multiple date formats and handles 2-digit years with pivot.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// Try 4-digit year layouts first (unambiguous)
	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	// Try 2-digit year layouts with pivot year adjustment
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// ParseBool accepts various representations: true/false, yes/no, t/f, y/n, 1/0.
func ParseBool(s string) (bool, bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}

// CellValue returns the typed value of a cell for spreadsheet output:
// float64, bool, time.Time or string. An explicit type hint wins; without one
// only numbers are inferred, dates and booleans stay text.
func CellValue(c Cell) interface{} {
	raw := c.Raw()
	switch c.Type {
	case CellString:
		return raw
	case CellNumber:
		if f, ok := ParseNumber(raw); ok {
			return f
		}
		return raw
	case CellBool:
		if b, ok := ParseBool(raw); ok {
			return b
		}
		return raw
	case CellDate:
		if t, ok := ParseDate(raw); ok {
			return t
		}
		return raw
	}

	if f, ok := ParseNumber(raw); ok {
		return f
	}
	return raw
}
