package recon

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"bitbucket.org/khsdfiscal/icecube_backend/utils"
)

// Cell coercions. Decoded spreadsheet cells arrive as strings; an empty or
// whitespace-only cell means "absent" and every coercion maps it to nil.
// The functions are total: they never panic, and only the strict ones
// (ToInt, ToBool) can return an error for a present-but-garbage value.

// dateLayouts covers the renderings observed in district uploads: ISO from
// exports, US slash and dash forms from Excel, with and without a time part.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"01/02/06",
	"2006/01/02",
	"Jan 2, 2006",
	"2-Jan-06",
}

func isAbsent(raw string) bool {
	s := strings.TrimSpace(raw)
	return s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null")
}

// CleanCode normalizes short alphanumeric codes (employee record, work
// schedule) where upstream systems drop leading zeros or render the value as
// a number ("2.0"). The result is left-zero-padded to width unless its
// natural length already exceeds it.
func CleanCode(raw string, width int) *string {
	if isAbsent(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		s = strconv.Itoa(int(f))
	}
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	return &s
}

// CleanString trims; absent stays absent.
func CleanString(raw string) *string {
	if isAbsent(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	return &s
}

// ToDate tries the known layouts and gives up quietly: a cell that is not a
// date is treated as absent, never as a row failure.
func ToDate(raw string) *time.Time {
	if isAbsent(raw) {
		return nil
	}
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

// ToFloat is best-effort: absent or unparseable both come back nil so one
// dirty money cell does not sink the row.
func ToFloat(raw string) *float64 {
	if isAbsent(raw) {
		return nil
	}
	dec, err := utils.ParseDecimal(raw)
	if err != nil {
		return nil
	}
	f := dec.InexactFloat64()
	return &f
}

// ToInt is strict: integer-coded fields (contribution code, member code)
// are load-bearing for downstream reporting, so garbage aborts the row.
// Excel often renders integers as "7.0"; that still parses.
func ToInt(raw string) (*int, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	n := int(f)
	if float64(n) != f {
		return nil, fmt.Errorf("%q is not an integer", raw)
	}
	return &n, nil
}

// ToBool accepts the verified-flag renderings seen in uploads: 0/1,
// true/false, yes/no, y/n.
func ToBool(raw string) (*bool, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "1", "1.0", "true", "t", "yes", "y":
		b := true
		return &b, nil
	case "0", "0.0", "false", "f", "no", "n":
		b := false
		return &b, nil
	}
	return nil, fmt.Errorf("%q is not a boolean", raw)
}
