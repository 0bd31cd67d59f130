// Package http provides HTTP server and handler implementations.
//
// This file implements parsing of query parameters and request bodies into
// engine inputs.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finboard/internal/analytics"
	"finboard/internal/core"
)

const (
	dateLayout   = "2006-01-02"
	maxBodyBytes = 1 << 20
	maxPageSize  = 100
)

var errBadRequest = errors.New("bad request")

func badRequestf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// ParseDate parses a YYYY-MM-DD value as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, badRequestf("invalid date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

func endOfDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParsePeriodSelector reads period, start and end. Errors wrap
// analytics.ErrInvalidSelector.
func ParsePeriodSelector(query url.Values, loc *time.Location) (analytics.PeriodSelector, error) {
	return analytics.ParseSelector(query.Get("period"), query.Get("start"), query.Get("end"), loc)
}

// ParseQueryOptions reads the transaction list filters. Paging is on by
// default; page_size is capped at 100.
func ParseQueryOptions(query url.Values, loc *time.Location) (analytics.QueryOptions, error) {
	opts := analytics.QueryOptions{
		Category:  sanitizeInput(query.Get("category")),
		Search:    sanitizeInput(query.Get("search")),
		SortBy:    analytics.ParseSortField(query.Get("sort")),
		Ascending: strings.EqualFold(query.Get("dir"), "asc"),
		Page:      1,
		PageSize:  analytics.DefaultPageSize,
	}

	if v := strings.TrimSpace(query.Get("type")); v != "" && v != "all" {
		t := core.TransactionType(strings.ToLower(v))
		if !t.IsValid() {
			return analytics.QueryOptions{}, badRequestf("invalid type %q", v)
		}
		opts.Type = t
	}

	start, end := query.Get("start"), query.Get("end")
	if start != "" || end != "" {
		r := &analytics.DateRange{
			Start: time.Time{},
			End:   time.Date(9999, time.December, 31, 0, 0, 0, 0, loc),
		}
		if start != "" {
			s, err := ParseDate(start, loc)
			if err != nil {
				return analytics.QueryOptions{}, err
			}
			r.Start = s
		}
		if end != "" {
			e, err := ParseDate(end, loc)
			if err != nil {
				return analytics.QueryOptions{}, err
			}
			r.End = endOfDay(e)
		}
		if r.Start.After(r.End) {
			return analytics.QueryOptions{}, badRequestf("start %s is after end %s", start, end)
		}
		opts.Range = r
	}

	var err error
	if opts.MinAmount, err = parseAmountParam(query, "min"); err != nil {
		return analytics.QueryOptions{}, err
	}
	if opts.MaxAmount, err = parseAmountParam(query, "max"); err != nil {
		return analytics.QueryOptions{}, err
	}

	if v := strings.TrimSpace(query.Get("page")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return analytics.QueryOptions{}, badRequestf("invalid page %q", v)
		}
		opts.Page = p
	}
	if v := strings.TrimSpace(query.Get("page_size")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return analytics.QueryOptions{}, badRequestf("invalid page_size %q", v)
		}
		opts.PageSize = min(n, maxPageSize)
	}
	return opts, nil
}

func parseAmountParam(query url.Values, key string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return nil, badRequestf("invalid %s %q", key, v)
	}
	return &d, nil
}

// transactionRequest is the POST /api/transactions body. Amount is accepted
// as a JSON number or string.
type transactionRequest struct {
	AccountID   string          `json:"accountId"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	Type        string          `json:"type"`
}

// decodeJSON reads at most maxBodyBytes and rejects unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequestf("request body is empty")
		}
		return badRequestf("invalid JSON body: %v", err)
	}
	return nil
}

// parseRawAmount accepts 12.5 or "12.5". Range checks are left to
// validation so they surface as 422.
func parseRawAmount(raw json.RawMessage) (decimal.Decimal, error) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(raw, &str); err != nil {
			return decimal.Zero, badRequestf("invalid amount")
		}
		s = strings.TrimSpace(str)
		if s == "" {
			return decimal.Zero, nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, badRequestf("invalid amount %q", s)
	}
	return d.Round(2), nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
