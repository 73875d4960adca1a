// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/CrawX/go-emailguard/accounts"
	"github.com/CrawX/go-emailguard/batch"
	"github.com/CrawX/go-emailguard/config"
	"github.com/CrawX/go-emailguard/credential"
	"github.com/CrawX/go-emailguard/dispatcher"
	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/emailguard"
	"github.com/CrawX/go-emailguard/log"
	"github.com/CrawX/go-emailguard/mail"
	"github.com/CrawX/go-emailguard/persistence"
	"github.com/CrawX/go-emailguard/poller"
	"github.com/CrawX/go-emailguard/report"
	"github.com/CrawX/go-emailguard/rspamd"
	"github.com/CrawX/go-emailguard/spamassassin"

	"github.com/sirupsen/logrus"
)

const (
	failurePreviewCount  = 5
	failurePreviewLength = 40
)

func newClient(conf *config.Config) (*emailguard.Client, error) {
	token, err := credential.NewSource(conf.EnvFile).Lookup()
	if err != nil {
		return nil, err
	}

	return emailguard.NewClient(conf.ApiBaseUrl, conf.AppBaseUrl, token,
		emailguard.WithTimeout(conf.ApiTimeout()),
		emailguard.WithRetries(conf.ApiRetries, emailguard.DefaultBackoff),
		emailguard.WithRateLimit(conf.ApiRequestsPerSecond),
	)
}

func runBatch(ctx context.Context, conf *config.Config, opts *options, _ []string) error {
	logger := log.Logger(log.LOG_MAIN)

	accountsFile := conf.AccountsFile
	if len(opts.accounts) > 0 {
		accountsFile = opts.accounts
	}
	records, err := accounts.LoadFile(accountsFile)
	if err != nil {
		return err
	}

	client, err := newClient(conf)
	if err != nil {
		return err
	}

	scope, err := persistence.OpenScope(conf.DataDir, opts.scope)
	if err != nil {
		return err
	}
	defer scope.Close()

	dispatcherOpts := []dispatcher.Option{}
	if checker := contentChecker(ctx, conf); checker != nil {
		dispatcherOpts = append(dispatcherOpts, dispatcher.WithContentChecker(checker))
	}
	mailer := mail.NewSmtpMailer(mail.WithPort(conf.SmtpPort), mail.WithTimeout(conf.SmtpTimeout()))
	pd := dispatcher.NewProbeDispatcher(client, mailer, conf.Subject, conf.Body, dispatcherOpts...)

	configs := []batch.ConfigFunc{
		batch.MaxDomains(conf.MaxDomainsPerBatch),
		batch.Delay(conf.EmailDelay()),
	}
	if opts.maxDomains > 0 {
		configs = append(configs, batch.MaxDomains(opts.maxDomains))
	}
	if conf.RetryFailedDomains {
		configs = append(configs, batch.RetryFailed())
	}
	if opts.dryRun {
		configs = append(configs, batch.DryRun())
	}

	runner, err := batch.NewRunner(scope, scope, pd, configs...)
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{"scope": scope.Name(), "accounts": accountsFile, "dryrun": opts.dryRun}).Info("Running batch")
	br, err := runner.RunBatch(ctx, scope.Name(), records)
	if err != nil {
		return err
	}
	printBatchReport(br)
	return nil
}

// contentChecker connects to the configured content checker. An unreachable
// checker only disables the pre-check.
func contentChecker(ctx context.Context, conf *config.Config) domain.ContentChecker {
	logger := log.Logger(log.LOG_MAIN)

	switch {
	case len(conf.SpamassassinHost) > 0:
		sa, err := spamassassin.NewSpamassassin(ctx, conf.SpamassassinHost)
		if err != nil {
			logger.WithFields(logrus.Fields{"host": conf.SpamassassinHost, "error": err}).Warn("Content check disabled")
			return nil
		}
		return sa
	case len(conf.RspamdHost) > 0:
		rs, err := rspamd.NewRspamd(ctx, conf.RspamdHost, conf.RspamdPassword)
		if err != nil {
			logger.WithFields(logrus.Fields{"host": conf.RspamdHost, "error": err}).Warn("Content check disabled")
			return nil
		}
		return rs
	}
	return nil
}

func printBatchReport(br *batch.BatchReport) {
	logger := log.Logger(log.LOG_MAIN)

	if len(br.Malformed) > 0 {
		logger.WithField("rows", len(br.Malformed)).Warn("Skipped malformed account rows")
	}
	if br.NothingToDo {
		logger.WithFields(logrus.Fields{"scope": br.Scope, "domains": br.TotalDomains}).Info("All domains have been processed, use reset to start over")
		return
	}
	if br.DryRun {
		for _, d := range br.Selected {
			logger.WithField("domain", d).Info("Would dispatch")
		}
		logger.WithFields(logrus.Fields{"batch": br.BatchNumber, "selected": len(br.Selected), "remaining": br.RemainingAfter}).Info("Dry-run finished")
		return
	}

	logger.WithFields(logrus.Fields{
		"batch":     br.BatchNumber,
		"ok":        br.Succeeded,
		"failed":    br.Failed,
		"processed": fmt.Sprintf("%d/%d", br.TotalDomains-br.RemainingAfter, br.TotalDomains),
	}).Info("Batch complete")

	shown, omitted := br.FailurePreview(failurePreviewCount)
	for _, f := range shown {
		logger.WithFields(logrus.Fields{"domain": f.Domain, "reason": mail.Shorten(f.Reason, failurePreviewLength)}).Warn("Failed domain")
	}
	if omitted > 0 {
		logger.Warnf("... and %d more failed domains", omitted)
	}
	if br.Cancelled {
		logger.Warn("Batch was interrupted, only dispatched domains were recorded")
	}
	if br.RemainingAfter > 0 {
		logger.WithField("remaining", br.RemainingAfter).Info("Run again to process more domains")
	}
}

func queuedTests(ctx context.Context, conf *config.Config, opts *options) ([]domain.QueuedTest, error) {
	scope, err := persistence.OpenScope(conf.DataDir, opts.scope)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	return scope.All(ctx)
}

func fetchResults(ctx context.Context, conf *config.Config, opts *options, _ []string) error {
	return collectResults(ctx, conf, opts, false)
}

func pollResults(ctx context.Context, conf *config.Config, opts *options, _ []string) error {
	return collectResults(ctx, conf, opts, true)
}

func collectResults(ctx context.Context, conf *config.Config, opts *options, loop bool) error {
	logger := log.Logger(log.LOG_MAIN)

	tests, err := queuedTests(ctx, conf, opts)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		logger.WithField("scope", opts.scope).Info("No tests queued, use run first")
		return nil
	}

	client, err := newClient(conf)
	if err != nil {
		return err
	}
	controller := poller.NewController(poller.NewPoller(client, conf.PollWorkers), conf.PollInterval())

	if loop {
		logger.WithFields(logrus.Fields{"tests": len(tests), "interval": conf.PollInterval()}).Info("Polling results, press Ctrl+C to stop and write reports")
		return finishPoll(conf, controller.Run(ctx, tests, logRound))
	}

	results := controller.RunOnce(ctx, tests)
	logRound(1, results)
	return writeReports(conf, results)
}

// finishPoll writes reports for the last completed round. Without any round
// the previous reports are left untouched.
func finishPoll(conf *config.Config, outcome poller.Outcome) error {
	logger := log.Logger(log.LOG_MAIN)

	if outcome.Rounds == 0 {
		logger.Info("Polling stopped before the first round, keeping previous reports")
		return nil
	}
	if outcome.State == poller.Cancelled {
		logger.WithField("rounds", outcome.Rounds).Info("Polling stopped, writing reports with current results")
	}
	return writeReports(conf, outcome.Results)
}

func logRound(round int, results []domain.PollResult) {
	completed, pending, failed := poller.Partition(results)
	log.Logger(log.LOG_MAIN).WithFields(logrus.Fields{
		"round":     round,
		"completed": len(completed),
		"pending":   len(pending),
		"failed":    len(failed),
	}).Info("Status")
}

func writeReports(conf *config.Config, results []domain.PollResult) error {
	logger := log.Logger(log.LOG_MAIN)

	err := report.WriteCsv(conf.ResultsCsv, results)
	if err != nil {
		return err
	}
	if len(conf.ResultsXlsx) > 0 {
		err = report.WriteXlsx(conf.ResultsXlsx, results)
		if err != nil {
			logger.WithFields(logrus.Fields{"file": conf.ResultsXlsx, "error": err}).Warn("Could not write workbook")
		}
	}

	summary := report.Summarize(results)
	if summary.Completed > 0 {
		logger.WithFields(logrus.Fields{
			"inbox":     fmt.Sprintf("%.1f%%", summary.AvgInboxRate),
			"spam":      fmt.Sprintf("%.1f%%", summary.AvgSpamRate),
			"google":    fmt.Sprintf("%.1f%%", summary.AvgGoogleInboxRate),
			"microsoft": fmt.Sprintf("%.1f%%", summary.AvgMicrosoftInboxRate),
		}).Info("Summary over completed tests")
	}
	return nil
}

func resetScope(_ context.Context, conf *config.Config, opts *options, _ []string) error {
	err := persistence.Reset(conf.DataDir, opts.scope)
	if err != nil {
		return err
	}
	log.Logger(log.LOG_MAIN).WithField("scope", opts.scope).Info("Scope reset, all domains are eligible again")
	return nil
}

func showStatus(ctx context.Context, conf *config.Config, opts *options, _ []string) error {
	logger := log.Logger(log.LOG_MAIN)

	scope, err := persistence.OpenScope(conf.DataDir, opts.scope)
	if err != nil {
		return err
	}
	defer scope.Close()

	state := scope.Load(ctx)
	tests, err := scope.All(ctx)
	if err != nil {
		return err
	}

	fields := logrus.Fields{
		"scope":     scope.Name(),
		"batch":     state.BatchNumber,
		"processed": len(state.ProcessedDomains),
		"queued":    len(tests),
	}

	records, err := accounts.LoadFile(conf.AccountsFile)
	var notFound *domain.SourceNotFoundError
	switch {
	case err == nil:
		deduplicated, _ := accounts.Dedupe(records)
		fields["domains"] = len(deduplicated.Domains)
		fields["remaining"] = len(accounts.Remaining(deduplicated.Domains, state))
	case errors.As(err, &notFound):
		logger.WithField("error", err).Debug("Accounts not readable, totals unknown")
	default:
		return err
	}

	logger.WithFields(fields).Info("Status")
	return nil
}

func setKey(_ context.Context, conf *config.Config, _ *options, args []string) error {
	token := ""
	if len(args) > 0 {
		token = args[0]
	} else {
		fmt.Fprint(os.Stderr, "API key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && len(line) == 0 {
			return fmt.Errorf("could not read API key: %w", err)
		}
		token = line
	}

	err := credential.NewSource(conf.EnvFile).Store(strings.TrimSpace(token))
	if err != nil {
		return err
	}
	log.Logger(log.LOG_MAIN).Info("API key stored in keyring")
	return nil
}
