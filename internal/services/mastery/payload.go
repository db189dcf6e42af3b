// Package mastery imports spaced-repetition mastery snapshots from a JSON file
// and watches that file for new drops.
package mastery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// ErrInvalidPayload is returned when an import file does not hold valid snapshots.
var ErrInvalidPayload = errors.New("invalid mastery payload")

// Counts holds the per-bucket classification counts.
type Counts struct {
	Strong   int `json:"strong"`
	Learning int `json:"learning"`
	Weak     int `json:"weak"`
	Leech    int `json:"leech"`
	Unknown  int `json:"unknown"`
	Total    int `json:"total"`
}

// Payload is one snapshot as written by the review tool.
type Payload struct {
	Timestamp int64   `json:"timestamp"`
	Counts    *Counts `json:"counts"`
}

// ParsePayloads decodes a single payload object or an array of them. A zero
// timestamp is replaced with fallback.
func ParsePayloads(data []byte, fallback time.Time) ([]models.MasterySnapshot, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidPayload)
	}

	var payloads []Payload
	if data[0] == '[' {
		if err := json.Unmarshal(data, &payloads); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	} else {
		var p Payload
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		payloads = []Payload{p}
	}

	snapshots := make([]models.MasterySnapshot, 0, len(payloads))
	for i, p := range payloads {
		s, err := p.snapshot(fallback)
		if err != nil {
			return nil, fmt.Errorf("payload %d: %w", i, err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, nil
}

func (p Payload) snapshot(fallback time.Time) (models.MasterySnapshot, error) {
	if p.Counts == nil {
		return models.MasterySnapshot{}, fmt.Errorf("%w: missing counts", ErrInvalidPayload)
	}
	if p.Timestamp < 0 {
		return models.MasterySnapshot{}, fmt.Errorf("%w: negative timestamp", ErrInvalidPayload)
	}

	c := *p.Counts
	for name, v := range map[string]int{
		"strong": c.Strong, "learning": c.Learning, "weak": c.Weak,
		"leech": c.Leech, "unknown": c.Unknown, "total": c.Total,
	} {
		if v < 0 {
			return models.MasterySnapshot{}, fmt.Errorf("%w: negative %s count", ErrInvalidPayload, name)
		}
	}

	ts := p.Timestamp
	if ts == 0 {
		ts = fallback.UnixMilli()
	}

	total := c.Total
	if total == 0 {
		total = c.Strong + c.Learning + c.Weak + c.Leech + c.Unknown
	}

	return models.MasterySnapshot{
		Timestamp: ts,
		Strong:    c.Strong,
		Learning:  c.Learning,
		Weak:      c.Weak,
		Leech:     c.Leech,
		Unknown:   c.Unknown,
		Total:     total,
	}, nil
}
