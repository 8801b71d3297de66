package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// monthNumbers accepts full English month names and their common
// abbreviations, lower-case.
var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may": 5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sept": 9, "sep": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

const (
	monthGroup = `(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)`
	// separatorGroup covers hyphen, en dash, em dash and the word "to".
	separatorGroup = `\s*(?:[-\x{2013}\x{2014}]|to)\s*`
)

var (
	singleMonthPattern    = regexp.MustCompile(`(?i)^` + monthGroup + `\.?\s+(\d{4})$`)
	sameYearRangePattern  = regexp.MustCompile(`(?i)^` + monthGroup + `\.?` + separatorGroup + monthGroup + `\.?\s+(\d{4})$`)
	crossYearRangePattern = regexp.MustCompile(`(?i)^` + monthGroup + `\.?\s+(\d{4})` + separatorGroup + monthGroup + `\.?\s+(\d{4})$`)
)

// ParsePeriod parses free-text statement period descriptions such as
// "January 2024", "March - May 2024" or "November 2023 - February 2024".
// The three patterns are tried most-specific-first. Unparsable text returns
// ok=false; callers then assume their target month rather than failing the
// document.
func ParsePeriod(text string) (StatementPeriod, bool) {
	s := strings.Join(strings.Fields(strings.TrimSpace(text)), " ")
	if s == "" {
		return StatementPeriod{}, false
	}

	if m := singleMonthPattern.FindStringSubmatch(s); m != nil {
		month := monthNumbers[strings.ToLower(m[1])]
		year, _ := strconv.Atoi(m[2])
		my := MonthYear{Month: month, Year: year}
		return StatementPeriod{Start: my, End: my}, true
	}

	if m := sameYearRangePattern.FindStringSubmatch(s); m != nil {
		start := monthNumbers[strings.ToLower(m[1])]
		end := monthNumbers[strings.ToLower(m[2])]
		year, _ := strconv.Atoi(m[3])
		if end < start {
			return StatementPeriod{}, false
		}
		return StatementPeriod{
			Start: MonthYear{Month: start, Year: year},
			End:   MonthYear{Month: end, Year: year},
		}, true
	}

	if m := crossYearRangePattern.FindStringSubmatch(s); m != nil {
		startMonth := monthNumbers[strings.ToLower(m[1])]
		startYear, _ := strconv.Atoi(m[2])
		endMonth := monthNumbers[strings.ToLower(m[3])]
		endYear, _ := strconv.Atoi(m[4])
		start := MonthYear{Month: startMonth, Year: startYear}
		end := MonthYear{Month: endMonth, Year: endYear}
		if end.Year < start.Year || (end.Year == start.Year && end.Month < start.Month) {
			return StatementPeriod{}, false
		}
		return StatementPeriod{Start: start, End: end}, true
	}

	return StatementPeriod{}, false
}

// Expand enumerates every month from Start to End inclusive, rolling over
// year boundaries.
func (p StatementPeriod) Expand() []MonthYear {
	var months []MonthYear
	current := p.Start
	for {
		months = append(months, current)
		if current == p.End {
			return months
		}
		current.Month++
		if current.Month > 12 {
			current.Month = 1
			current.Year++
		}
	}
}
