// internal/domain/substitution/fetcher.go
package substitution

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrFetchFailure marks a request or parse failure, as opposed to a day that simply has no substitutions.
var ErrFetchFailure = errors.New("substitution fetch failed")

// Fetcher retrieves the published substitutions for a single day.
// An empty slice with a nil error means the portal reported no substitutions.
type Fetcher interface {
	Fetch(ctx context.Context, date time.Time, mode Mode) ([]Record, error)
}

// FetchOrEmpty calls f and turns any failure into an empty result after logging it.
// Callers cannot tell a failed fetch from a day without substitutions.
func FetchOrEmpty(ctx context.Context, f Fetcher, date time.Time, mode Mode, log *logrus.Entry) []Record {
	records, err := f.Fetch(ctx, date, mode)
	if err != nil {
		log.WithError(err).WithField("date", date.Format(DateLayout)).Error("Failed to fetch substitutions, treating day as empty")
		return nil
	}
	return records
}
