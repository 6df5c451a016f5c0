// Package swot extracts SWOT counts and the essentials summary from a rendered quote page
package swot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ErrorValue is written in place of every field of a failed result
const ErrorValue = "Error"

// NotAvailable replaces the essentials text when its element is absent
const NotAvailable = "N/A"

// Target is one company and the address of its quote page
type Target struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Status tells whether a result was extracted or degraded
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

type countState uint8

const (
	countMissing countState = iota
	countPresent
	countError
)

// Count is a SWOT count that is either present, missing or failed.
// The zero value is missing.
type Count struct {
	n     int
	state countState
}

// Of returns a present count
func Of(n int) Count {
	return Count{n: n, state: countPresent}
}

// Missing returns a count whose element or number was not found
func Missing() Count {
	return Count{}
}

// Failed returns the error sentinel count
func Failed() Count {
	return Count{state: countError}
}

// Value returns the count and whether it is present
func (c Count) Value() (int, bool) {
	return c.n, c.state == countPresent
}

func (c Count) IsMissing() bool { return c.state == countMissing }

func (c Count) IsError() bool { return c.state == countError }

// String renders the count for display: the number, "" when missing, or "Error"
func (c Count) String() string {
	switch c.state {
	case countPresent:
		return strconv.Itoa(c.n)
	case countError:
		return ErrorValue
	default:
		return ""
	}
}

// MarshalJSON encodes a present count as a number, a missing one as null
// and a failed one as the string "Error".
func (c Count) MarshalJSON() ([]byte, error) {
	switch c.state {
	case countPresent:
		return []byte(strconv.Itoa(c.n)), nil
	case countError:
		return json.Marshal(ErrorValue)
	default:
		return []byte("null"), nil
	}
}

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Missing()
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s != ErrorValue {
			return fmt.Errorf("invalid count %q", s)
		}
		*c = Failed()
		return nil
	}

	n, err := strconv.Atoi(string(data))
	if err != nil {
		return fmt.Errorf("invalid count %s: %w", data, err)
	}
	*c = Of(n)
	return nil
}

// Result is the extraction outcome for one target
type Result struct {
	Name        string `json:"name"`
	Strengths   Count  `json:"strengths"`
	Weakness    Count  `json:"weakness"`
	Opportunity Count  `json:"opportunity"`
	Threat      Count  `json:"threat"`
	Essentials  string `json:"essentials"`
	Status      Status `json:"status"`
}

// Failure returns the degraded result recorded when extraction fails at any step
func Failure(name string) Result {
	return Result{
		Name:        name,
		Strengths:   Failed(),
		Weakness:    Failed(),
		Opportunity: Failed(),
		Threat:      Failed(),
		Essentials:  ErrorValue,
		Status:      StatusError,
	}
}

// OK reports whether the result was extracted successfully
func (r Result) OK() bool {
	return r.Status == StatusOK
}
