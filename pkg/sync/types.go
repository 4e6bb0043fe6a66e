// Package sync pkg/sync/types.go
package sync

import "time"

const defaultPollInterval = 15 * time.Second

// State is the polling lifecycle state.
type State int

const (
	// StateActive polls the status feed on the configured interval.
	StateActive State = iota

	// StateSuspended runs no polling timer at all.
	StateSuspended
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}

	return "suspended"
}

// Config tunes the synchronizer.
type Config struct {
	// PollInterval is the gap between status-feed fetches, measured
	// from the completion of the previous fetch.
	PollInterval time.Duration `json:"poll_interval"`
}

// DefaultConfig returns the dashboard defaults.
func DefaultConfig() Config {
	return Config{PollInterval: defaultPollInterval}
}
