// SPDX-License-Identifier: GPL-3.0-or-later
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 5

// Poller fetches the remote state of queued tests with a fixed number of
// concurrent requests.
type Poller struct {
	api     domain.TestAPI
	workers int

	l *logrus.Logger
}

func NewPoller(api domain.TestAPI, workers int) *Poller {
	if workers < 1 {
		workers = 1
	}
	return &Poller{
		api:     api,
		workers: workers,
		l:       log.Logger(log.LOG_POLLER),
	}
}

// PollOnce fetches every test once. Results are appended as requests finish,
// callers must key them by TestId.
func (p *Poller) PollOnce(ctx context.Context, tests []domain.QueuedTest) []domain.PollResult {
	start := time.Now()
	mu := sync.Mutex{}
	results := make([]domain.PollResult, 0, len(tests))

	g := &errgroup.Group{}
	g.SetLimit(p.workers)
	for _, test := range tests {
		g.Go(func() error {
			result := p.poll(ctx, test)
			mu.Lock()
			results = append(results, result)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	p.l.WithFields(logrus.Fields{"tests": len(tests), "workers": p.workers, "duration": time.Since(start)}).Debug("Polled tests")
	return results
}

func (p *Poller) poll(ctx context.Context, test domain.QueuedTest) domain.PollResult {
	result := domain.PollResult{
		FromEmail: test.FromEmail,
		TestId:    test.TestId,
		TestUrl:   test.TestUrl,
	}

	details, err := p.api.GetTest(ctx, test.TestId)
	if err != nil {
		p.l.WithFields(logrus.Fields{"test": test.TestId, "error": err}).Warn("Could not fetch test")
		result.RawStatus = domain.RawStatusFailed
		result.Status = domain.StatusFailed
		result.Error = err.Error()
		return result
	}

	result.TestName = details.Name
	result.RawStatus = details.Status
	result.Status = domain.ClassifyStatus(details.Status)
	result.OverallScore = details.OverallScore
	result.Stats = ComputeStats(details.Messages)
	return result
}
