package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestParseCurrency(t *testing.T) {
	assert.Equal(t, 0.0, ParseCurrency(nil))
	assert.Equal(t, 0.0, ParseCurrency((*string)(nil)))
	assert.Equal(t, 1500.0, ParseCurrency(1500.0))
	assert.Equal(t, 1500.0, ParseCurrency("1,500"))
	assert.Equal(t, 1234567.89, ParseCurrency("₱1,234,567.89"))
	assert.Equal(t, -2000.0, ParseCurrency("(2,000)"))
	assert.Equal(t, 1500.0, ParseCurrency(strp("₱1,500.00")))
	assert.Equal(t, 0.0, ParseCurrency("TBD"))
	assert.Equal(t, 0.0, ParseCurrency(""))
	// parseFloat semantics: numeric prefix wins
	assert.Equal(t, 500.0, ParseCurrency("500 est."))
}

func TestRobustParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2025-03-15", "2025-03-15"},
		{"2025-3-5", "2025-03-05"},
		{"2025-03-15T10:30:00Z", "2025-03-15"},
		{"2025-03-15 10:30:00", "2025-03-15"},
		{"3/15/2025", "2025-03-15"},
		{"15/3/2025", "2025-03-15"},
		{"2025/03/15", "2025-03-15"},
		{"45000", "2023-03-15"},
	}
	for _, tc := range cases {
		got, ok := RobustParseDate(tc.in)
		require.True(t, ok, "expected %q to parse", tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), "input %q", tc.in)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestRobustParseDateCurrentYearForms(t *testing.T) {
	year := time.Now().UTC().Year()

	got, ok := RobustParseDate("Mar-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC), got)

	got, ok = RobustParseDate("Sat, Mar-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC), got)
}

func TestRobustParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "2/31/2025", "123", "13/13/2025"} {
		_, ok := RobustParseDate(in)
		assert.False(t, ok, "expected %q to be rejected", in)
	}
}

func TestWeekOfMonth(t *testing.T) {
	// March 2025 starts on a Saturday, so the 2nd is already week 2.
	assert.Equal(t, 1, WeekOfMonth(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekOfMonth(time.Date(2025, time.March, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, WeekOfMonth(time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)))
	// June 2025 starts on a Sunday.
	assert.Equal(t, 1, WeekOfMonth(time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, WeekOfMonth(time.Date(2025, time.June, 8, 0, 0, 0, 0, time.UTC)))
}

func TestFormatMonthYear(t *testing.T) {
	assert.Equal(t, "Mar 2025", FormatMonthYear(time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)))
}
