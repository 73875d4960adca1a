// SPDX-License-Identifier: GPL-3.0-or-later

//go:generate mockgen -destination=mocks/placement.go -package=mocks . TestAPI,Mailer,Dispatcher,ResultPoller
package domain

import (
	"context"
	"strings"
)

// CreatedTest is the remote answer to creating an inbox placement test.
type CreatedTest struct {
	Id             string
	Name           string
	FilterPhrase   string
	ProbeAddresses []string
}

// TestMessage is the placement of one probe copy at one seed mailbox.
type TestMessage struct {
	Folder   string
	Status   string
	Provider string
}

type TestDetails struct {
	Name         string
	Status       string
	OverallScore string
	Messages     []TestMessage
}

type TestAPI interface {
	CreateTest(ctx context.Context, name string) (*CreatedTest, error)
	GetTest(ctx context.Context, id string) (*TestDetails, error)
	TestUrl(id string) string
}

type Mailer interface {
	Send(ctx context.Context, account Account, recipients []string, subject string, body string) error
}

// DispatchResult is the outcome of one create-test + send-probe transaction.
// Exactly one of Test and Reason is set.
type DispatchResult struct {
	Domain       Domain
	Test         *QueuedTest
	Reason       string
	ContentScore *float64
}

func (dr DispatchResult) Ok() bool {
	return dr.Test != nil
}

type Dispatcher interface {
	Dispatch(ctx context.Context, scope string, domain Domain, account Account) DispatchResult
}

type TestStatus int

const (
	StatusPending = TestStatus(iota)
	StatusCompleted
	StatusFailed
)

// RawStatusFailed is assigned locally when fetching a test failed.
const RawStatusFailed = "FAILED"

func (s TestStatus) String() string {
	switch s {
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "pending"
}

// ClassifyStatus maps a remote status string onto the local variants.
func ClassifyStatus(raw string) TestStatus {
	if raw == RawStatusFailed {
		return StatusFailed
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed", "complete":
		return StatusCompleted
	}
	return StatusPending
}

type Stats struct {
	Total   int
	Inbox   int
	Spam    int
	Waiting int

	InboxRate float64
	SpamRate  float64

	GoogleTotal     int
	GoogleInbox     int
	GoogleInboxRate float64

	MicrosoftTotal     int
	MicrosoftInbox     int
	MicrosoftInboxRate float64
}

// PollResult is the state of one queued test after a poll round.
type PollResult struct {
	FromEmail    string
	TestId       string
	TestUrl      string
	TestName     string
	RawStatus    string
	Status       TestStatus
	OverallScore string
	Stats        Stats
	Error        string
}

type ResultPoller interface {
	PollOnce(ctx context.Context, tests []QueuedTest) []PollResult
}
