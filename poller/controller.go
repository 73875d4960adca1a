// SPDX-License-Identifier: GPL-3.0-or-later
package poller

import (
	"context"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTick     = time.Second
)

type State int

const (
	Polling = State(iota)
	Done
	Cancelled
)

func (s State) String() string {
	switch s {
	case Done:
		return "done"
	case Cancelled:
		return "cancelled"
	}
	return "polling"
}

// Outcome is the final state of a poll loop and the results of its last round.
type Outcome struct {
	State   State
	Results []domain.PollResult
	Rounds  int
}

type ControllerOption func(c *Controller)

// WithTick sets how often the idle wait between rounds checks for cancellation.
func WithTick(tick time.Duration) ControllerOption {
	return func(c *Controller) {
		if tick > 0 {
			c.tick = tick
		}
	}
}

// Controller repeats poll rounds until no test is pending or the context is
// cancelled.
type Controller struct {
	poller   domain.ResultPoller
	interval time.Duration
	tick     time.Duration

	l *logrus.Logger
}

func NewController(poller domain.ResultPoller, interval time.Duration, opts ...ControllerOption) *Controller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Controller{
		poller:   poller,
		interval: interval,
		tick:     DefaultTick,
		l:        log.Logger(log.LOG_POLLER),
	}
	for _, o := range opts {
		o(c)
	}
	if c.tick > c.interval {
		c.tick = c.interval
	}
	return c
}

// RunOnce performs a single round. A round always runs to completion, a
// cancelled ctx is not passed on to the requests.
func (c *Controller) RunOnce(ctx context.Context, tests []domain.QueuedTest) []domain.PollResult {
	return c.poller.PollOnce(context.WithoutCancel(ctx), tests)
}

// Run polls until every test is completed or failed. Cancellation is observed
// between rounds only, the outcome then carries the last complete round.
func (c *Controller) Run(ctx context.Context, tests []domain.QueuedTest, onRound func(round int, results []domain.PollResult)) Outcome {
	outcome := Outcome{State: Polling, Results: []domain.PollResult{}}

	for {
		if ctx.Err() != nil {
			outcome.State = Cancelled
			return outcome
		}

		results := c.RunOnce(ctx, tests)
		outcome.Rounds++
		outcome.Results = results
		if onRound != nil {
			onRound(outcome.Rounds, results)
		}

		completed, pending, failed := Partition(results)
		c.l.WithFields(logrus.Fields{"round": outcome.Rounds, "completed": len(completed), "pending": len(pending), "failed": len(failed)}).Info("Poll round finished")
		if len(pending) == 0 {
			outcome.State = Done
			return outcome
		}

		if !c.idle(ctx) {
			c.l.WithFields(logrus.Fields{"round": outcome.Rounds}).Info("Polling cancelled")
			outcome.State = Cancelled
			return outcome
		}
	}
}

func (c *Controller) idle(ctx context.Context) bool {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	deadline := time.Now().Add(c.interval)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
	return ctx.Err() == nil
}
