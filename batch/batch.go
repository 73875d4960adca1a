// SPDX-License-Identifier: GPL-3.0-or-later
package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-emailguard/accounts"
	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Runner struct {
	store      domain.ProgressStore
	queue      domain.TestQueue
	dispatcher domain.Dispatcher

	configuration *configuration
	sleep         func(ctx context.Context, d time.Duration) error

	l *logrus.Logger
}

func NewRunner(store domain.ProgressStore, queue domain.TestQueue, dispatcher domain.Dispatcher, configFunc ...ConfigFunc) (*Runner, error) {
	config := defaultConfiguration()
	for _, f := range configFunc {
		err := f(config)
		if err != nil {
			return nil, fmt.Errorf("error applying configuration: %w", err)
		}
	}

	return &Runner{
		store:         store,
		queue:         queue,
		dispatcher:    dispatcher,
		configuration: config,
		sleep:         sleep,
		l:             log.Logger(log.LOG_BATCH),
	}, nil
}

// RunBatch dispatches probes for the next slice of unprocessed domains and
// records the slice as processed. Per-domain failures end up in the report,
// an error is only returned when the queue or the progress state could not be
// written.
func (r *Runner) RunBatch(ctx context.Context, scope string, records []accounts.Record) (*BatchReport, error) {
	state := r.store.Load(ctx)

	deduplicated, malformed := accounts.Dedupe(records)
	for _, m := range malformed {
		r.l.WithFields(logrus.Fields{"scope": scope, "error": m}).Warn("Skipping malformed row")
	}

	remaining := accounts.Remaining(deduplicated.Domains, state)
	report := &BatchReport{
		RunId:            uuid.New().String(),
		Scope:            scope,
		BatchNumber:      state.BatchNumber + 1,
		TotalDomains:     len(deduplicated.Domains),
		AlreadyProcessed: len(deduplicated.Domains) - len(remaining),
		Selected:         []domain.Domain{},
		Failures:         []Failure{},
		Queued:           []domain.QueuedTest{},
		Malformed:        malformed,
		RemainingAfter:   len(remaining),
		DryRun:           r.configuration.DryRun,
	}

	if len(remaining) == 0 {
		report.NothingToDo = true
		r.l.WithFields(logrus.Fields{"scope": scope, "domains": report.TotalDomains}).Info("All domains processed, nothing to do")
		return report, nil
	}

	slice := remaining
	if len(slice) > r.configuration.MaxDomains {
		slice = slice[:r.configuration.MaxDomains]
	}
	report.Selected = slice

	fields := logrus.Fields{"scope": scope, "run": report.RunId, "batch": report.BatchNumber, "selected": len(slice), "remaining": len(remaining)}
	if r.configuration.DryRun {
		r.l.WithFields(fields).Info("Not dispatching due to dry-run")
		return report, nil
	}
	r.l.WithFields(fields).Info("Starting batch")

	// Writes must land even when the run is interrupted, the probes are already out.
	persistCtx := context.WithoutCancel(ctx)
	attempted, succeeded := []domain.Domain{}, []domain.Domain{}
	for i, d := range slice {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}

		account := deduplicated.Accounts[d]
		start := time.Now()
		result := r.dispatcher.Dispatch(ctx, scope, d, account)
		if !result.Ok() && ctx.Err() != nil {
			// Interrupted mid-dispatch, leave the domain for the next batch.
			report.Cancelled = true
			break
		}

		attempted = append(attempted, d)
		if result.Ok() {
			err := r.queue.Append(persistCtx, *result.Test)
			if err != nil {
				return nil, fmt.Errorf("could not queue test %s for %s: %w", result.Test.TestId, d, err)
			}
			succeeded = append(succeeded, d)
			report.Queued = append(report.Queued, *result.Test)
		} else {
			report.Failures = append(report.Failures, Failure{Domain: d, FromEmail: account.FromEmail, Reason: result.Reason})
		}
		r.l.WithFields(logrus.Fields{"domain": d, "ok": result.Ok(), "progress": fmt.Sprintf("%d/%d", i+1, len(slice)), "duration": time.Since(start)}).Debug("Dispatched domain")

		if i < len(slice)-1 && r.configuration.Delay > 0 {
			if err := r.sleep(ctx, r.configuration.Delay); err != nil {
				report.Cancelled = true
				break
			}
		}
	}

	report.Attempted = len(attempted)
	report.Succeeded = len(succeeded)
	report.Failed = len(report.Failures)
	if report.Attempted == 0 {
		r.l.WithFields(logrus.Fields{"scope": scope, "batch": report.BatchNumber}).Warn("Batch cancelled before any domain was dispatched")
		return report, nil
	}

	if r.configuration.RetryFailed {
		state.Add(succeeded...)
	} else {
		state.Add(attempted...)
	}
	state.BatchNumber++

	err := r.store.Save(persistCtx, state)
	if err != nil {
		return nil, fmt.Errorf("could not save progress for scope %s: %w", scope, err)
	}
	report.RemainingAfter = len(accounts.Remaining(deduplicated.Domains, state))

	r.l.WithFields(logrus.Fields{
		"scope":     scope,
		"batch":     report.BatchNumber,
		"attempted": report.Attempted,
		"ok":        report.Succeeded,
		"failed":    report.Failed,
		"remaining": report.RemainingAfter,
		"cancelled": report.Cancelled,
	}).Info("Batch finished")
	return report, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
