package ingest

import (
	"time"

	"framecast/internal/model"
)

// KindCounts tallies one element kind across a run.
type KindCounts struct {
	Seen    int `json:"seen"`
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// Summary is the structured outcome of one import run. Diagnostics are
// ordered; every skipped element and every fallback substitution
// appears here.
type Summary struct {
	RunID       string                     `json:"run_id"`
	PerKind     map[model.Kind]KindCounts  `json:"per_kind"`
	OrphanCount int                        `json:"orphan_count"`
	Diagnostics []string                   `json:"diagnostics"`
	Elapsed     time.Duration              `json:"elapsed_ns"`
}

// Total sums the seen counts of every kind.
func (s *Summary) Total() int {
	total := 0
	for _, counts := range s.PerKind {
		total += counts.Seen
	}
	return total
}

// CreatedTotal sums the created counts of every kind.
func (s *Summary) CreatedTotal() int {
	total := 0
	for _, counts := range s.PerKind {
		total += counts.Created
	}
	return total
}

// UpdatedTotal sums the updated counts of every kind.
func (s *Summary) UpdatedTotal() int {
	total := 0
	for _, counts := range s.PerKind {
		total += counts.Updated
	}
	return total
}

func (s *Summary) diag(message string) {
	s.Diagnostics = append(s.Diagnostics, message)
}
