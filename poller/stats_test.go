// SPDX-License-Identifier: GPL-3.0-or-later
package poller

import (
	"strings"
	"testing"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/stretchr/testify/assert"
)

func msg(folder, status, provider string) domain.TestMessage {
	return domain.TestMessage{Folder: folder, Status: status, Provider: provider}
}

func TestComputeStats(t *testing.T) {
	tests := []struct {
		name         string
		messages     []domain.TestMessage
		expected     domain.Stats
		unclassified int
	}{
		{"empty", nil, domain.Stats{}, 0},
		{
			"mixed",
			[]domain.TestMessage{
				msg("Inbox", "email_received", "Google"),
				msg("inbox", "email_received", "google workspace"),
				msg("Junk", "email_received", "Microsoft"),
				msg("inbox", "email_received", "microsoft 365"),
				msg("", "waiting_for_email", "Google"),
				msg("promotions", "email_received", "Yahoo"),
			},
			domain.Stats{
				Total: 6, Inbox: 3, Spam: 1, Waiting: 1,
				InboxRate: 50, SpamRate: 100.0 / 6,
				GoogleTotal: 2, GoogleInbox: 2, GoogleInboxRate: 100,
				MicrosoftTotal: 2, MicrosoftInbox: 1, MicrosoftInboxRate: 50,
			},
			1,
		},
		{
			"all waiting",
			[]domain.TestMessage{
				msg("inbox", "WAITING_FOR_EMAIL", "google"),
				msg("spam", "waiting_for_email", "microsoft"),
			},
			domain.Stats{Total: 2, Waiting: 2},
			0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stats := ComputeStats(tc.messages)
			assert.Equal(t, tc.expected.Total, stats.Total)
			assert.Equal(t, tc.expected.Inbox, stats.Inbox)
			assert.Equal(t, tc.expected.Spam, stats.Spam)
			assert.Equal(t, tc.expected.Waiting, stats.Waiting)
			assert.InDelta(t, tc.expected.InboxRate, stats.InboxRate, 0.001)
			assert.InDelta(t, tc.expected.SpamRate, stats.SpamRate, 0.001)
			assert.Equal(t, tc.expected.GoogleTotal, stats.GoogleTotal)
			assert.Equal(t, tc.expected.GoogleInbox, stats.GoogleInbox)
			assert.InDelta(t, tc.expected.GoogleInboxRate, stats.GoogleInboxRate, 0.001)
			assert.Equal(t, tc.expected.MicrosoftTotal, stats.MicrosoftTotal)
			assert.Equal(t, tc.expected.MicrosoftInbox, stats.MicrosoftInbox)
			assert.InDelta(t, tc.expected.MicrosoftInboxRate, stats.MicrosoftInboxRate, 0.001)

			assert.Equal(t, tc.unclassified, unclassified(tc.messages))
			assert.Equal(t, stats.Total, stats.Inbox+stats.Spam+stats.Waiting+unclassified(tc.messages))
		})
	}
}

// unclassified counts arrived messages that landed in neither inbox nor spam.
func unclassified(messages []domain.TestMessage) int {
	n := 0
	for _, m := range messages {
		if strings.EqualFold(m.Status, StatusWaitingForEmail) {
			continue
		}
		switch strings.ToLower(m.Folder) {
		case FolderInbox, FolderSpam, FolderJunk:
		default:
			n++
		}
	}
	return n
}

func TestComputeStats_Idempotent(t *testing.T) {
	messages := []domain.TestMessage{msg("inbox", "", "google"), msg("spam", "", "microsoft")}
	assert.Equal(t, ComputeStats(messages), ComputeStats(messages))
}

func TestPartition(t *testing.T) {
	results := []domain.PollResult{
		{TestId: "1", Status: domain.StatusCompleted},
		{TestId: "2", Status: domain.StatusPending},
		{TestId: "3", Status: domain.StatusFailed},
		{TestId: "4", Status: domain.StatusCompleted},
	}

	completed, pending, failed := Partition(results)

	assert.Equal(t, []domain.PollResult{results[0], results[3]}, completed)
	assert.Equal(t, []domain.PollResult{results[1]}, pending)
	assert.Equal(t, []domain.PollResult{results[2]}, failed)
}
