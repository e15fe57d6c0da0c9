package gcat

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// updatePattern matches the homepage's published refresh date, e.g.
// "Data Update 2026 Jan 2". The label is matched case-insensitively and
// tolerates arbitrary whitespace between words.
var updatePattern = regexp.MustCompile(`(?i)data\s+update\s+(\d{4})\s+([A-Za-z]{3})\s+(\d{1,2})`)

// monthsByAbbr is the fixed English month table. Abbreviations outside
// it do not resolve to a date.
var monthsByAbbr = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// FetchUpdateDate fetches the catalog homepage and extracts its "Data
// Update" date, normalized to UTC midnight. It fails with
// ErrSourceUnavailable when the page cannot be fetched and with
// ErrDateFormatNotFound when no line of the page carries the expected
// pattern.
func (c *Client) FetchUpdateDate(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.homepageURL, nil)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: create request: %v", ErrSourceUnavailable, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fetch homepage: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return time.Time{}, fmt.Errorf("%w: homepage returned HTTP %d", ErrSourceUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: read homepage: %v", ErrSourceUnavailable, err)
	}

	return ParseUpdateDate(string(body))
}

// ParseUpdateDate extracts the "Data Update <YYYY> <Mon> <D>" date from
// page text. Split out from the fetch so the pattern matching is
// testable against captured fixtures without network access.
func ParseUpdateDate(page string) (time.Time, error) {
	m := updatePattern.FindStringSubmatch(page)
	if m == nil {
		return time.Time{}, ErrDateFormatNotFound
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad year %q", ErrDateFormatNotFound, m[1])
	}

	abbr := canonicalMonthAbbr(m[2])
	month, ok := monthsByAbbr[abbr]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown month %q", ErrDateFormatNotFound, m[2])
	}

	day, err := strconv.Atoi(m[3])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: bad day %q", ErrDateFormatNotFound, m[3])
	}

	// time.Date normalizes overflow (Feb 31 -> Mar 3); an impossible
	// day for the month is a malformed date, not a different one.
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: impossible date %s %d %d", ErrDateFormatNotFound, m[2], year, day)
	}
	return date, nil
}

func canonicalMonthAbbr(s string) string {
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}
