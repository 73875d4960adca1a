// SPDX-License-Identifier: GPL-3.0-or-later
package dispatcher

import (
	"context"
	"fmt"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"
	"github.com/CrawX/go-emailguard/mail"

	"github.com/sirupsen/logrus"
)

const TestNameTimeFormat = "2006-01-02 15:04:05"

type Option func(pd *ProbeDispatcher)

// WithContentChecker scores every probe before it is sent. The score is
// informational, a failing or negative check never blocks the send.
func WithContentChecker(checker domain.ContentChecker) Option {
	return func(pd *ProbeDispatcher) {
		pd.checker = checker
	}
}

func WithClock(now func() time.Time) Option {
	return func(pd *ProbeDispatcher) {
		pd.now = now
	}
}

// ProbeDispatcher creates one remote test per domain and mails the probe to
// the seed addresses of that test.
type ProbeDispatcher struct {
	api     domain.TestAPI
	mailer  domain.Mailer
	checker domain.ContentChecker

	subject string
	body    string
	now     func() time.Time

	l *logrus.Logger
}

func NewProbeDispatcher(api domain.TestAPI, mailer domain.Mailer, subject, body string, opts ...Option) *ProbeDispatcher {
	pd := &ProbeDispatcher{
		api:     api,
		mailer:  mailer,
		subject: subject,
		body:    body,
		now:     time.Now,
		l:       log.Logger(log.LOG_DISPATCHER),
	}
	for _, o := range opts {
		o(pd)
	}
	return pd
}

func TestName(d domain.Domain, scope string, now time.Time) string {
	return fmt.Sprintf("Inbox Test - %s - %s - %s", d, scope, now.Format(TestNameTimeFormat))
}

func (pd *ProbeDispatcher) Dispatch(ctx context.Context, scope string, d domain.Domain, account domain.Account) domain.DispatchResult {
	result := domain.DispatchResult{Domain: d}
	now := pd.now()
	name := TestName(d, scope, now)

	created, err := pd.api.CreateTest(ctx, name)
	if err != nil {
		result.Reason = fmt.Sprintf("create test: %v", err)
		pd.l.WithFields(logrus.Fields{"domain": d, "error": err}).Warn("Could not create test")
		return result
	}
	pd.l.WithFields(logrus.Fields{"domain": d, "test": created.Id, "seeds": len(created.ProbeAddresses)}).Debug("Created test")

	if len(created.ProbeAddresses) == 0 {
		result.Reason = fmt.Sprintf("send probe: test %s has no probe addresses", created.Id)
		pd.l.WithFields(logrus.Fields{"domain": d, "test": created.Id}).Warn("Test has no probe addresses")
		return result
	}

	if pd.checker != nil {
		result.ContentScore = pd.precheck(account, created, now)
	}

	err = pd.mailer.Send(ctx, account, created.ProbeAddresses, pd.subject, mail.ProbeBody(pd.body, created.FilterPhrase))
	if err != nil {
		result.Reason = fmt.Sprintf("send probe: %v", err)
		pd.l.WithFields(logrus.Fields{"domain": d, "from": account.FromEmail, "error": err}).Warn("Could not send probe")
		return result
	}

	result.Test = &domain.QueuedTest{
		FromEmail:    account.FromEmail,
		TestId:       created.Id,
		FilterPhrase: created.FilterPhrase,
		TestUrl:      pd.api.TestUrl(created.Id),
	}
	pd.l.WithFields(logrus.Fields{"domain": d, "from": account.FromEmail, "test": created.Id}).Info("Probe sent")
	return result
}

func (pd *ProbeDispatcher) precheck(account domain.Account, created *domain.CreatedTest, now time.Time) *float64 {
	raw, err := mail.ComposeProbe(account, created.ProbeAddresses, pd.subject, pd.body, created.FilterPhrase, now)
	if err != nil {
		pd.l.WithFields(logrus.Fields{"test": created.Id, "error": err}).Warn("Could not compose probe for content check")
		return nil
	}

	spamResult := pd.checker.Check(raw)
	if spamResult.Error != nil {
		pd.l.WithFields(logrus.Fields{"test": created.Id, "error": spamResult.Error}).Warn("Content check failed, sending anyway")
		return nil
	}

	fields := logrus.Fields{"test": created.Id, "score": spamResult.Score, "isSpam": spamResult.IsSpam}
	if spamResult.IsSpam {
		pd.l.WithFields(fields).Warn("Probe content scores as spam")
	} else {
		pd.l.WithFields(fields).Debug("Probe content checked")
	}
	score := spamResult.Score
	return &score
}
