// SPDX-License-Identifier: GPL-3.0-or-later
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"

	"github.com/sirupsen/logrus"
)

var Columns = []string{
	"from_email",
	"test_uuid",
	"status",
	"overall_score",
	"inbox_rate_%",
	"spam_rate_%",
	"google_inbox_rate_%",
	"microsoft_inbox_rate_%",
	"test_url",
}

// Summary averages rates over completed tests. Provider averages only take
// tests into account that had at least one seed of that provider.
type Summary struct {
	Total     int
	Completed int
	Pending   int
	Failed    int

	AvgInboxRate          float64
	AvgSpamRate           float64
	AvgGoogleInboxRate    float64
	AvgMicrosoftInboxRate float64
}

func Summarize(results []domain.PollResult) Summary {
	summary := Summary{Total: len(results)}

	googleCount, microsoftCount := 0, 0
	for _, r := range results {
		switch r.Status {
		case domain.StatusCompleted:
			summary.Completed++
		case domain.StatusFailed:
			summary.Failed++
			continue
		default:
			summary.Pending++
			continue
		}

		summary.AvgInboxRate += r.Stats.InboxRate
		summary.AvgSpamRate += r.Stats.SpamRate
		if r.Stats.GoogleTotal > 0 {
			summary.AvgGoogleInboxRate += r.Stats.GoogleInboxRate
			googleCount++
		}
		if r.Stats.MicrosoftTotal > 0 {
			summary.AvgMicrosoftInboxRate += r.Stats.MicrosoftInboxRate
			microsoftCount++
		}
	}

	if summary.Completed > 0 {
		summary.AvgInboxRate /= float64(summary.Completed)
		summary.AvgSpamRate /= float64(summary.Completed)
	}
	if googleCount > 0 {
		summary.AvgGoogleInboxRate /= float64(googleCount)
	}
	if microsoftCount > 0 {
		summary.AvgMicrosoftInboxRate /= float64(microsoftCount)
	}
	return summary
}

// Sorted returns a copy ordered by sender and test id, poll rounds deliver
// results in completion order.
func Sorted(results []domain.PollResult) []domain.PollResult {
	sorted := append([]domain.PollResult{}, results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].FromEmail != sorted[j].FromEmail {
			return sorted[i].FromEmail < sorted[j].FromEmail
		}
		return sorted[i].TestId < sorted[j].TestId
	})
	return sorted
}

func row(r domain.PollResult) []string {
	return []string{
		r.FromEmail,
		r.TestId,
		r.RawStatus,
		r.OverallScore,
		percent(r.Stats.InboxRate),
		percent(r.Stats.SpamRate),
		percent(r.Stats.GoogleInboxRate),
		percent(r.Stats.MicrosoftInboxRate),
		r.TestUrl,
	}
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

func WriteCsv(path string, results []domain.PollResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	defer func() {
		closeErr := f.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("could not close %s: %w", path, closeErr)
		}
	}()

	writer := csv.NewWriter(f)
	records := [][]string{Columns}
	for _, r := range Sorted(results) {
		records = append(records, row(r))
	}
	err = writer.WriteAll(records)
	if err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	log.Logger(log.LOG_REPORT).WithFields(logrus.Fields{"file": path, "rows": len(results)}).Info("Wrote results csv")
	return nil
}
