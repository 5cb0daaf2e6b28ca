package recon

import "strings"

const (
	PlanPers = "PERS"
	PlanStrs = "STRS"
)

// Column maps translate the human-readable header text the district exports
// use into canonical field names. Header text is trimmed and upper-cased
// before lookup, so casing and stray spaces in the source file don't matter.

var persColumnMap = map[string]string{
	"EMPLOYEE ID":         "empl_id",
	"FIRST NAME":          "first_name",
	"LAST NAME":           "last_name",
	"SERVICE PERIOD":      "service_period",
	"EMPLOYEE RECORD":     "empl_rcd",
	"EARNINGS CODE":       "earnings_code",
	"EARNINGS RATE":       "ern_rate",
	"EARNINGS":            "earnings",
	"CONTRIBUTION RATE":   "contribution_rate",
	"CONTRIBUTION AMOUNT": "contribution_amt",
	"EARN CODE":           "erncd",
	"CONTRIBUTION CODE":   "contribution_code",
	"WORK SCHEDULE CODE":  "work_schedule_code",
	"SOURCE":              "user_source",
	"RETIREMENT CODE":     "retirement_code",
	"CHECK DATE":          "check_date",
	"RECON PERIOD":        "recon_period",
}

var strsColumnMap = map[string]string{
	"EMPLOYEE ID":         "empl_id",
	"FIRST NAME":          "first_name",
	"LAST NAME":           "last_name",
	"CHECK DATE":          "check_date",
	"EMPLOYEE RECORD":     "empl_rcd",
	"MEMBER CODE":         "member_code",
	"EARNINGS CODE":       "earnings_code",
	"EARNINGS BEGIN":      "earnings_begin",
	"EARNINGS END":        "earnings_end",
	"EARNINGS RATE":       "ern_rate",
	"EARNINGS":            "earnings",
	"CONTRIBUTION RATE":   "contribution_rate",
	"CONTRIBUTION AMOUNT": "contribution_amt",
	"ASSIGNMENT":          "assignment",
	"CONTRIBUTION CODE":   "contribution_code",
	"PAY CODE":            "pay_code",
	"SOURCE":              "input_source",
	"VERIFIED":            "verified",
	"STRS":                "retirement_type",
	"RECON PERIOD":        "recon_period",
}

// Keyword sets for plan detection. Scored by substring containment; a header
// counts once no matter how many keywords it contains.
var (
	persKeywords = []string{"SERVICE PERIOD", "WORK SCHEDULE", "EMPLOYEE RECORD"}
	strsKeywords = []string{"STRS", "ASSIGNMENT", "PAY CODE"}
)

// NormalizeHeaders trims and upper-cases every header.
func NormalizeHeaders(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return out
}

// MapColumns renames normalized headers to canonical field names for the
// given plan. Unmapped headers pass through unchanged; the record builders
// simply never read them.
func MapColumns(columns []string, plan string) []string {
	table := persColumnMap
	if plan == PlanStrs {
		table = strsColumnMap
	}
	out := make([]string, len(columns))
	for i, c := range columns {
		if mapped, ok := table[c]; ok {
			out[i] = mapped
		} else {
			out[i] = c
		}
	}
	return out
}

// DetectPlan guesses which plan a spreadsheet belongs to from its headers.
// It is advisory only: the caller's declared plan stays authoritative, and
// detection is used to reject a confident disagreement, never to override.
// Returns "" on a tie or when no keyword matches.
func DetectPlan(columns []string) string {
	normalized := NormalizeHeaders(columns)
	persScore := scoreKeywords(normalized, persKeywords)
	strsScore := scoreKeywords(normalized, strsKeywords)

	switch {
	case persScore > strsScore:
		return PlanPers
	case strsScore > persScore:
		return PlanStrs
	default:
		return ""
	}
}

func scoreKeywords(columns []string, keywords []string) int {
	score := 0
	for _, col := range columns {
		for _, kw := range keywords {
			if strings.Contains(col, kw) {
				score++
				break
			}
		}
	}
	return score
}
