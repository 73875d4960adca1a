// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/persistence.go -package=mocks . ProgressStore,TestQueue
package domain

import "context"

// ProgressState records which domains of a scope were already handled.
// ProcessedDomains keeps insertion order and holds no duplicates.
type ProgressState struct {
	ProcessedDomains []Domain
	BatchNumber      int
}

func (ps *ProgressState) Contains(d Domain) bool {
	for _, p := range ps.ProcessedDomains {
		if p == d {
			return true
		}
	}
	return false
}

// Add appends domains that are not yet present.
func (ps *ProgressState) Add(domains ...Domain) {
	seen := make(map[Domain]bool, len(ps.ProcessedDomains))
	for _, p := range ps.ProcessedDomains {
		seen[p] = true
	}
	for _, d := range domains {
		if seen[d] {
			continue
		}
		seen[d] = true
		ps.ProcessedDomains = append(ps.ProcessedDomains, d)
	}
}

// QueuedTest is a remote test whose probe mail was accepted by the SMTP server.
type QueuedTest struct {
	FromEmail    string
	TestId       string
	FilterPhrase string
	TestUrl      string
}

type ProgressStore interface {
	// Load never fails, missing or unreadable state yields the zero value.
	Load(ctx context.Context) ProgressState
	Save(ctx context.Context, state ProgressState) error
}

type TestQueue interface {
	Append(ctx context.Context, test QueuedTest) error
	All(ctx context.Context) ([]QueuedTest, error)
}
