// internal/infra/edupage/client.go
package edupage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"substitution_notification_bot/internal/domain/substitution"

	"github.com/PuerkitoBio/goquery"
)

const (
	guestSessionHash = "00000000"

	// retryBackoff is the wait before the second attempt; it doubles per attempt.
	retryBackoff = 500 * time.Millisecond

	selectorNoSubstitutions = ".nosubst"
	selectorDayContainer    = "[data-date]"
	selectorClassSection    = "[data-date] .section, [data-date] .print-nobreak"
	selectorSectionHeader   = ".header"
	selectorRow             = ".rows .row"
	selectorRowInfo         = ".info"
)

// Client fetches a day of substitutions from the portal.
type Client struct {
	url        string
	httpClient *http.Client
	attempts   int
	backoff    time.Duration
}

var _ substitution.Fetcher = (*Client)(nil)

// NewClient creates a portal client. attempts below 1 are treated as 1.
func NewClient(url string, httpClient *http.Client, attempts int) *Client {
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		url:        url,
		httpClient: httpClient,
		attempts:   attempts,
		backoff:    retryBackoff,
	}
}

func DefaultHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

type dayRequest struct {
	Args []any  `json:"__args"`
	Gsh  string `json:"__gsh"`
}

type dayRequestArgs struct {
	Date string            `json:"date"`
	Mode substitution.Mode `json:"mode"`
}

type dayResponse struct {
	R *string `json:"r"`
}

// transientError marks failures that may succeed on another attempt:
// transport errors and non-200 responses.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func transient(err error) error {
	return &transientError{err: err}
}

// Fetch returns the records published for date. Failures wrap substitution.ErrFetchFailure.
// Transient failures are retried with backoff up to the configured number of attempts;
// malformed responses and empty days are not.
func (c *Client) Fetch(ctx context.Context, date time.Time, mode substitution.Mode) ([]substitution.Record, error) {
	wait := c.backoff
	for attempt := 1; ; attempt++ {
		records, err := c.fetchOnce(ctx, date, mode)
		if err == nil {
			return records, nil
		}

		var te *transientError
		if attempt >= c.attempts || !errors.As(err, &te) {
			return nil, err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}
		wait *= 2
	}
}

func (c *Client) fetchOnce(ctx context.Context, date time.Time, mode substitution.Mode) ([]substitution.Record, error) {
	body, err := json.Marshal(dayRequest{
		Args: []any{nil, dayRequestArgs{Date: date.Format(substitution.DateLayout), Mode: mode}},
		Gsh:  guestSessionHash,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", substitution.ErrFetchFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", substitution.ErrFetchFailure, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transient(fmt.Errorf("%w: %v", substitution.ErrFetchFailure, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, transient(fmt.Errorf("%w: portal unexpected status: %d", substitution.ErrFetchFailure, resp.StatusCode))
	}

	var payload dayResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", substitution.ErrFetchFailure, err)
	}
	if payload.R == nil {
		return nil, fmt.Errorf("%w: response missing html fragment", substitution.ErrFetchFailure)
	}

	return ParseDay(*payload.R)
}

// ParseDay extracts per-class records from the viewer's HTML fragment.
func ParseDay(fragment string) ([]substitution.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", substitution.ErrFetchFailure, err)
	}

	if doc.Find(selectorNoSubstitutions).Length() > 0 {
		return []substitution.Record{}, nil
	}
	if doc.Find(selectorDayContainer).Length() == 0 {
		return nil, fmt.Errorf("%w: fragment has no day container", substitution.ErrFetchFailure)
	}

	records := []substitution.Record{}
	var parseErr error
	doc.Find(selectorClassSection).EachWithBreak(func(i int, section *goquery.Selection) bool {
		header := section.Find(selectorSectionHeader).First()
		if header.Length() == 0 {
			parseErr = fmt.Errorf("%w: section %d has no header", substitution.ErrFetchFailure, i)
			return false
		}

		record := substitution.Record{ClassName: strings.TrimSpace(header.Text())}
		section.Find(selectorRow).EachWithBreak(func(j int, row *goquery.Selection) bool {
			info := row.Find(selectorRowInfo).First()
			if info.Length() == 0 {
				parseErr = fmt.Errorf("%w: row %d of %q has no info", substitution.ErrFetchFailure, j, record.ClassName)
				return false
			}
			record.Rows = append(record.Rows, strings.TrimSpace(info.Text()))
			return true
		})
		if parseErr != nil {
			return false
		}

		records = append(records, record)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return records, nil
}
