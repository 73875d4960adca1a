// SPDX-License-Identifier: GPL-3.0-or-later
package batch

import "github.com/CrawX/go-emailguard/domain"

// Failure is a domain whose dispatch did not end with a queued test.
type Failure struct {
	Domain    domain.Domain
	FromEmail string
	Reason    string
}

// BatchReport summarizes one RunBatch call.
type BatchReport struct {
	RunId       string
	Scope       string
	BatchNumber int

	TotalDomains     int
	AlreadyProcessed int
	Selected         []domain.Domain

	Attempted int
	Succeeded int
	Failed    int
	Failures  []Failure
	Queued    []domain.QueuedTest
	Malformed []error

	RemainingAfter int
	NothingToDo    bool
	DryRun         bool
	Cancelled      bool
}

// FailurePreview returns at most n failures and how many were left out.
func (br *BatchReport) FailurePreview(n int) ([]Failure, int) {
	if n < 0 {
		n = 0
	}
	if len(br.Failures) <= n {
		return br.Failures, 0
	}
	return br.Failures[:n], len(br.Failures) - n
}
