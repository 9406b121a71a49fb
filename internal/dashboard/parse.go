package dashboard

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// The source data is hand-typed grid cells and Excel imports, so amounts and
// dates arrive in whatever shape the encoder used. These helpers keep the
// grid's lenient read-time parsing: bad values degrade to zero / unparsed,
// never to an error.

var currencyCleaner = strings.NewReplacer("₱", "", ",", "")

// ParseCurrency reads an amount out of a raw cell value. Strips the peso
// sign and thousands separators; parenthesized values are negative; anything
// unreadable is 0.
func ParseCurrency(v interface{}) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case *string:
		if t == nil {
			return 0
		}
		return ParseCurrency(*t)
	case string:
		s := strings.TrimSpace(currencyCleaner.Replace(t))
		neg := false
		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
			neg = true
			s = strings.Trim(s, "()")
		}
		f := parseLeadingFloat(s)
		if neg {
			return -f
		}
		return f
	}
	return 0
}

// parseLeadingFloat mimics parseFloat: reads the longest numeric prefix.
func parseLeadingFloat(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
	for i, r := range s {
		if r == '-' || r == '+' {
			if i != 0 {
				break
			}
		} else if r == '.' {
			if seenDot {
				break
			}
			seenDot = true
		} else if r < '0' || r > '9' {
			break
		}
		end = i + 1
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return f
}

var (
	isoDateRe      = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`)
	slashDateRe    = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	ymdSlashRe     = regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`)
	monthDayRe     = regexp.MustCompile(`^[A-Za-z]{3}-\d{1,2}$`)
	dowMonthDayRe  = regexp.MustCompile(`^[A-Za-z]{3},\s[A-Za-z]{3}-\d{1,2}$`)
	excelSerialMin = 25569.0 // days from 1899-12-30 to the unix epoch
)

// RobustParseDate attempts the date formats seen in the data: ISO, M/D/YYYY,
// D/M/YYYY (only when the day is unambiguous), YYYY/MM/DD, "Mon-DD" and
// "Dow, Mon-DD" (current year), and Excel serial numbers. The result is
// normalized to UTC midnight.
func RobustParseDate(val string) (time.Time, bool) {
	s := strings.TrimSpace(val)
	if s == "" {
		return time.Time{}, false
	}

	// Excel serial date
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f > excelSerialMin {
			d := time.Unix(int64((f-excelSerialMin)*86400), 0).UTC()
			return midnightUTC(d), true
		}
		return time.Time{}, false
	}

	if isoDateRe.MatchString(s) {
		head := s
		if i := strings.IndexAny(head, "T "); i > 0 {
			head = head[:i]
		}
		if d, err := time.Parse("2006-1-2", head); err == nil {
			return midnightUTC(d), true
		}
	}
	if slashDateRe.MatchString(s) {
		parts := strings.Split(s, "/")
		a, _ := strconv.Atoi(parts[0])
		b, _ := strconv.Atoi(parts[1])
		y, _ := strconv.Atoi(parts[2])
		if a >= 1 && a <= 12 {
			if d, ok := ymd(y, a, b); ok {
				return d, true
			}
		}
		// Day first, only when it can't be a month
		if a > 12 && b >= 1 && b <= 12 {
			if d, ok := ymd(y, b, a); ok {
				return d, true
			}
		}
	}
	if ymdSlashRe.MatchString(s) {
		parts := strings.Split(s, "/")
		y, _ := strconv.Atoi(parts[0])
		m, _ := strconv.Atoi(parts[1])
		d, _ := strconv.Atoi(parts[2])
		if res, ok := ymd(y, m, d); ok {
			return res, true
		}
	}
	if dowMonthDayRe.MatchString(s) {
		if i := strings.Index(s, ", "); i > 0 {
			s = s[i+2:]
		}
	}
	if monthDayRe.MatchString(s) {
		year := time.Now().UTC().Year()
		if d, err := time.Parse("Jan-2 2006", s+" "+strconv.Itoa(year)); err == nil {
			return midnightUTC(d), true
		}
	}

	return time.Time{}, false
}

func ymd(y, m, d int) (time.Time, bool) {
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// Reject rollovers like 2/31 -> 3/3
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FormatMonthYear renders "Jan 2025", the bucket label the dashboards use.
func FormatMonthYear(t time.Time) string {
	return t.Format("Jan 2006")
}

// WeekOfMonth is the 1-based calendar week within the month, weeks starting
// on Sunday (the CMRP reporting convention).
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return (t.Day() + int(first.Weekday()) + 6) / 7
}
