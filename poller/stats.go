// SPDX-License-Identifier: GPL-3.0-or-later
package poller

import (
	"strings"

	"github.com/CrawX/go-emailguard/domain"
)

const (
	StatusWaitingForEmail = "waiting_for_email"
	FolderInbox           = "inbox"
	FolderSpam            = "spam"
	FolderJunk            = "junk"
)

// ComputeStats derives placement counts from the per-seed messages of one test.
// Messages still waiting for the probe only count towards Total and Waiting.
func ComputeStats(messages []domain.TestMessage) domain.Stats {
	stats := domain.Stats{Total: len(messages)}

	for _, m := range messages {
		folder := strings.ToLower(m.Folder)
		status := strings.ToLower(m.Status)
		provider := strings.ToLower(m.Provider)

		isGoogle := strings.Contains(provider, "google")
		isMicrosoft := strings.Contains(provider, "microsoft")

		if status == StatusWaitingForEmail {
			stats.Waiting++
			continue
		}

		switch folder {
		case FolderInbox:
			stats.Inbox++
			if isGoogle {
				stats.GoogleInbox++
			}
			if isMicrosoft {
				stats.MicrosoftInbox++
			}
		case FolderSpam, FolderJunk:
			stats.Spam++
		}

		if isGoogle {
			stats.GoogleTotal++
		}
		if isMicrosoft {
			stats.MicrosoftTotal++
		}
	}

	stats.InboxRate = rate(stats.Inbox, stats.Total)
	stats.SpamRate = rate(stats.Spam, stats.Total)
	stats.GoogleInboxRate = rate(stats.GoogleInbox, stats.GoogleTotal)
	stats.MicrosoftInboxRate = rate(stats.MicrosoftInbox, stats.MicrosoftTotal)
	return stats
}

func rate(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(count) / float64(total)
}

// Partition splits poll results by status, keeping their order.
func Partition(results []domain.PollResult) (completed, pending, failed []domain.PollResult) {
	completed, pending, failed = []domain.PollResult{}, []domain.PollResult{}, []domain.PollResult{}
	for _, r := range results {
		switch r.Status {
		case domain.StatusCompleted:
			completed = append(completed, r)
		case domain.StatusFailed:
			failed = append(failed, r)
		default:
			pending = append(pending, r)
		}
	}
	return completed, pending, failed
}
