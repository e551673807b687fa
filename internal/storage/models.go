package storage

import (
	"time"

	"github.com/goccy/go-json"
)

// Entry wraps a cached API response with the time it was fetched.
type Entry struct {
	Key       string          `json:"key"`
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

func (e Entry) Fresh(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return true
	}
	return now.Sub(e.FetchedAt) <= maxAge
}
