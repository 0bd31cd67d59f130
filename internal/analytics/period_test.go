package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	lastNano := 999999999
	now := time.Date(2024, time.January, 10, 15, 4, 5, 0, time.UTC) // Wednesday

	tests := []struct {
		name      string
		sel       PeriodSelector
		now       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "week starts on sunday",
			sel:       PeriodSelector{Kind: PeriodWeek},
			now:       now,
			wantStart: time.Date(2024, time.January, 7, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.January, 13, 23, 59, 59, lastNano, time.UTC),
		},
		{
			name:      "week crossing a year boundary",
			sel:       PeriodSelector{Kind: PeriodWeek},
			now:       time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2025, time.January, 4, 23, 59, 59, lastNano, time.UTC),
		},
		{
			name:      "month",
			sel:       PeriodSelector{Kind: PeriodMonth},
			now:       now,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.January, 31, 23, 59, 59, lastNano, time.UTC),
		},
		{
			name:      "leap february",
			sel:       PeriodSelector{Kind: PeriodMonth},
			now:       time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
			wantStart: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.February, 29, 23, 59, 59, lastNano, time.UTC),
		},
		{
			name:      "year",
			sel:       PeriodSelector{Kind: PeriodYear},
			now:       now,
			wantStart: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2024, time.December, 31, 23, 59, 59, lastNano, time.UTC),
		},
		{
			name: "custom passes bounds through",
			sel: PeriodSelector{
				Kind:  PeriodCustom,
				Start: time.Date(2023, time.March, 3, 10, 0, 0, 0, time.UTC),
				End:   time.Date(2023, time.March, 9, 10, 0, 0, 0, time.UTC),
			},
			now:       now,
			wantStart: time.Date(2023, time.March, 3, 10, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2023, time.March, 9, 10, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.sel, tt.now)
			require.NoError(t, err)
			assert.True(t, got.Start.Equal(tt.wantStart), "start = %v, want %v", got.Start, tt.wantStart)
			assert.True(t, got.End.Equal(tt.wantEnd), "end = %v, want %v", got.End, tt.wantEnd)
		})
	}
}

func TestResolveUsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	now := time.Date(2024, time.March, 1, 1, 0, 0, 0, loc)

	got, err := Resolve(PeriodSelector{Kind: PeriodMonth}, now)
	require.NoError(t, err)
	assert.True(t, got.Start.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, loc)))
}

func TestResolveInvalidSelector(t *testing.T) {
	now := time.Now()
	a := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)

	cases := map[string]PeriodSelector{
		"missing start": {Kind: PeriodCustom, End: b},
		"missing end":   {Kind: PeriodCustom, Start: a},
		"inverted":      {Kind: PeriodCustom, Start: b, End: a},
		"unknown kind":  {Kind: "fortnight"},
	}
	for name, sel := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(sel, now)
			assert.ErrorIs(t, err, ErrInvalidSelector)
		})
	}
}

func TestResolveCustomSingleInstant(t *testing.T) {
	at := time.Date(2024, time.May, 5, 5, 5, 5, 0, time.UTC)
	got, err := Resolve(PeriodSelector{Kind: PeriodCustom, Start: at, End: at}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, time.Nanosecond, got.Span())
}

func TestPreviousIsAdjacentAndEqualLength(t *testing.T) {
	now := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	cur, err := Resolve(PeriodSelector{Kind: PeriodMonth}, now)
	require.NoError(t, err)

	prev := cur.Previous()
	assert.Equal(t, cur.Span(), prev.Span())
	assert.True(t, prev.End.Equal(cur.Start.Add(-time.Nanosecond)), "previous must end right before current start")
	assert.False(t, prev.Contains(cur.Start))
	// January and December have the same length, so the window is exactly December.
	assert.True(t, prev.Start.Equal(time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParsePeriodKind(t *testing.T) {
	k, err := ParsePeriodKind("")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, k)

	k, err = ParsePeriodKind("year")
	require.NoError(t, err)
	assert.Equal(t, PeriodYear, k)

	_, err = ParsePeriodKind("decade")
	assert.ErrorIs(t, err, ErrInvalidSelector)
}

func TestParseSelector(t *testing.T) {
	sel, err := ParseSelector("", "", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, PeriodSelector{Kind: PeriodMonth}, sel)

	sel, err = ParseSelector(" Year ", "garbage", "", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, PeriodSelector{Kind: PeriodYear}, sel)

	sel, err = ParseSelector("custom", "2024-01-01", "2024-01-31", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), sel.Start)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC).Add(-time.Nanosecond), sel.End)

	for _, bad := range [][3]string{
		{"decade", "", ""},
		{"custom", "01/01/2024", ""},
		{"custom", "2024-01-01", "tomorrow"},
	} {
		_, err := ParseSelector(bad[0], bad[1], bad[2], time.UTC)
		assert.ErrorIs(t, err, ErrInvalidSelector, bad)
	}
}
