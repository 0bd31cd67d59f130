package http

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

func TestParsePeriodSelector(t *testing.T) {
	sel, err := ParsePeriodSelector(url.Values{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, analytics.PeriodMonth, sel.Kind)

	sel, err = ParsePeriodSelector(url.Values{"period": {"Week"}}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, analytics.PeriodWeek, sel.Kind)

	sel, err = ParsePeriodSelector(url.Values{"period": {"year"}, "start": {"garbage"}}, time.UTC)
	require.NoError(t, err, "dates are ignored unless the period is custom")
	assert.True(t, sel.Start.IsZero())

	sel, err = ParsePeriodSelector(url.Values{
		"period": {"custom"}, "start": {"2024-01-01"}, "end": {"2024-01-31"},
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, core.NewDate(2024, time.January, 1), sel.Start)
	assert.Equal(t, core.NewDate(2024, time.February, 1).Add(-time.Nanosecond), sel.End)

	_, err = ParsePeriodSelector(url.Values{"period": {"custom"}, "start": {"01-01-2024"}}, time.UTC)
	assert.ErrorIs(t, err, analytics.ErrInvalidSelector)

	_, err = ParsePeriodSelector(url.Values{"period": {"fortnight"}}, time.UTC)
	assert.ErrorIs(t, err, analytics.ErrInvalidSelector)
}

func TestParseQueryOptions_Defaults(t *testing.T) {
	opts, err := ParseQueryOptions(url.Values{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, analytics.DefaultPageSize, opts.PageSize)
	assert.Equal(t, analytics.SortByDate, opts.SortBy)
	assert.False(t, opts.Ascending)
	assert.Nil(t, opts.Range)
	assert.Nil(t, opts.MinAmount)
}

func TestParseQueryOptions_All(t *testing.T) {
	opts, err := ParseQueryOptions(url.Values{
		"type":      {"income"},
		"category":  {" Salary "},
		"search":    {"pay\x00"},
		"start":     {"2024-01-01"},
		"min":       {"10.5"},
		"max":       {"100"},
		"sort":      {"amount"},
		"dir":       {"ASC"},
		"page":      {"3"},
		"page_size": {"500"},
	}, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, core.Income, opts.Type)
	assert.Equal(t, "Salary", opts.Category)
	assert.Equal(t, "pay", opts.Search)
	require.NotNil(t, opts.Range)
	assert.Equal(t, core.NewDate(2024, time.January, 1), opts.Range.Start)
	assert.True(t, opts.Range.Contains(core.NewDate(2030, time.June, 1)), "open end")
	assert.Equal(t, "10.5", opts.MinAmount.String())
	assert.Equal(t, "100", opts.MaxAmount.String())
	assert.Equal(t, analytics.SortByAmount, opts.SortBy)
	assert.True(t, opts.Ascending)
	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, maxPageSize, opts.PageSize)
}

func TestParseQueryOptions_AllType(t *testing.T) {
	opts, err := ParseQueryOptions(url.Values{"type": {"all"}}, time.UTC)
	require.NoError(t, err)
	assert.Empty(t, opts.Type)
}

func TestParseRawAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{`12.345`, "12.35", false},
		{`"7.1"`, "7.1", false},
		{`""`, "0", false},
		{`null`, "0", false},
		{`"ten"`, "", true},
		{`true`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			d, err := parseRawAmount([]byte(tt.raw))
			if tt.wantErr {
				assert.ErrorIs(t, err, errBadRequest)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.String())
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	assert.Equal(t, "a\tb", sanitizeInput("  a\tb\x07 "))
}
