// Package sheets publishes extraction results to a Google Sheets range
package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"google.golang.org/api/googleapi"

	"swotscraper/swot"
)

// TimestampLayout formats the capture time column
const TimestampLayout = "1/2/2006, 3:04:05 PM"

const (
	DefaultMaxRetries    = 2
	DefaultRetryInterval = time.Second
)

// Header is the first row of every published batch
var Header = []string{"Name", "Strength", "Weakness", "Opportunity", "Threat", "MC Essential Score", "Timestamp"}

// Mode selects how a batch lands in the range
type Mode string

const (
	// ModeAppend inserts the batch after the existing content of the range
	ModeAppend Mode = "append"
	// ModeUpdate overwrites the range from its top-left cell
	ModeUpdate Mode = "update"
)

// ErrUnknownMode is returned for a write mode other than append or update
var ErrUnknownMode = errors.New("unknown write mode")

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAppend, ModeUpdate:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// ValuesAPI is the subset of the spreadsheet values service the sink writes through
type ValuesAPI interface {
	Append(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
	Update(ctx context.Context, spreadsheetID, writeRange string, rows [][]interface{}) error
}

// Sink writes a batch of results, headed by Header, in one call
type Sink struct {
	API           ValuesAPI
	SpreadsheetID string
	Range         string
	Mode          Mode
	// MaxRetries bounds the extra attempts after a failed write. Zero fails fast.
	MaxRetries    uint64
	RetryInterval time.Duration
	Now           func() time.Time
	Logger        zerolog.Logger
}

// Rows projects results into sheet rows, header first, every row stamped with now
func Rows(results []swot.Result, now time.Time) [][]interface{} {
	stamp := now.Format(TimestampLayout)

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}

	rows := make([][]interface{}, 0, len(results)+1)
	rows = append(rows, header)
	for _, r := range results {
		rows = append(rows, []interface{}{
			r.Name,
			cell(r.Strengths),
			cell(r.Weakness),
			cell(r.Opportunity),
			cell(r.Threat),
			r.Essentials,
			stamp,
		})
	}
	return rows
}

// cell keeps present counts numeric so the sheet can sum them
func cell(c swot.Count) interface{} {
	if n, ok := c.Value(); ok {
		return n
	}
	return c.String()
}

// Publish writes results to the configured range. Errors are returned to the caller
// once the retry budget is spent. Update retries 429, 5xx and network errors.
// Append retries only 429: any other failure may have landed rows server side,
// and a second append would duplicate the batch.
func (s *Sink) Publish(ctx context.Context, results []swot.Result) error {
	if s.API == nil {
		return errors.New("sheets: no values api configured")
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	rows := Rows(results, now())

	write, err := s.writer()
	if err != nil {
		return err
	}

	interval := s.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = interval
	bo := backoff.WithContext(backoff.WithMaxRetries(b, s.MaxRetries), ctx)

	attempt := 0
	op := func() error {
		attempt++
		err := write(ctx, s.SpreadsheetID, s.Range, rows)
		if err == nil {
			return nil
		}
		if !retryable(s.Mode, err) {
			return backoff.Permanent(err)
		}
		s.Logger.Warn().Err(err).Int("attempt", attempt).Msg("sheet write failed")
		return err
	}

	if err := backoff.Retry(op, bo); err != nil {
		return fmt.Errorf("write %d rows to %s: %w", len(rows), s.Range, err)
	}

	s.Logger.Info().
		Str("mode", string(s.Mode)).
		Str("range", s.Range).
		Int("rows", len(rows)).
		Msg("sheet updated")
	return nil
}

func (s *Sink) writer() (func(context.Context, string, string, [][]interface{}) error, error) {
	switch s.Mode {
	case ModeAppend:
		return s.API.Append, nil
	case ModeUpdate:
		return s.API.Update, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.Mode)
}

func retryable(mode Mode, err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return mode == ModeUpdate
	}
	if apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return mode == ModeUpdate && apiErr.Code >= http.StatusInternalServerError
}
