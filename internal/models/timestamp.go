// Turnstile - Access Control Dashboard Synchronization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// DateLayout is the ISO calendar date format used for date filters and file names.
const DateLayout = "2006-01-02"

// wireLayout is the layout used when encoding a Timestamp that has no raw text.
const wireLayout = "2006-01-02T15:04:05"

// Layouts accepted for fechaHora and ultimaActividad. Timestamps without an
// offset are wall-clock values and are kept in UTC so that their calendar
// date is exactly the one written by the backend.
var timestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
}

// ErrInvalidTimestamp is returned when a timestamp string matches no known layout.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Timestamp is a backend date-time that remembers its original text.
// The raw text is what CSV export writes, matching what the dashboard showed.
type Timestamp struct {
	Time time.Time
	Raw  string
}

// ParseTimestamp parses the formats emitted by the backend.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t, Raw: s}, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Timestamp{Time: t, Raw: s}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// NewTimestamp wraps t without raw text.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// IsZero reports whether the timestamp is unset.
func (ts Timestamp) IsZero() bool {
	return ts.Time.IsZero()
}

// Date returns the ISO calendar date (YYYY-MM-DD) of the timestamp as written
// by the backend, or "" when unset.
func (ts Timestamp) Date() string {
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.Format(DateLayout)
}

// String returns the raw text when present, otherwise the ISO wire form.
func (ts Timestamp) String() string {
	if ts.Raw != "" {
		return ts.Raw
	}
	if ts.Time.IsZero() {
		return ""
	}
	return ts.Time.Format(wireLayout)
}

// Equal compares the instants of two timestamps.
func (ts Timestamp) Equal(other Timestamp) bool {
	return ts.Time.Equal(other.Time)
}

// MarshalJSON encodes the timestamp as a string, or null when unset.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() && ts.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(ts.String())
}

// UnmarshalJSON accepts ISO strings, "YYYY-MM-DD HH:MM:SS" strings, null,
// and Jackson's array form [y, m, d, h, min, s].
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*ts = Timestamp{}
		return nil
	}

	if data[0] == '[' {
		var parts []int
		if err := json.Unmarshal(data, &parts); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidTimestamp, data)
		}
		return ts.fromParts(parts)
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidTimestamp, data)
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}

func (ts *Timestamp) fromParts(parts []int) error {
	if len(parts) < 3 {
		return fmt.Errorf("%w: array needs at least 3 elements", ErrInvalidTimestamp)
	}
	fields := make([]int, 7)
	copy(fields, parts)
	t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], fields[6], time.UTC)
	*ts = Timestamp{Time: t, Raw: t.Format(wireLayout)}
	return nil
}
