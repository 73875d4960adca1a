// SPDX-License-Identifier: GPL-3.0-or-later
package poller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/domain/mocks"
	"github.com/CrawX/go-emailguard/log"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queued(ids ...string) []domain.QueuedTest {
	tests := []domain.QueuedTest{}
	for _, id := range ids {
		tests = append(tests, domain.QueuedTest{FromEmail: "x@" + id + ".com", TestId: id, TestUrl: "https://app.emailguard.io/inbox-placement-tests/" + id})
	}
	return tests
}

func byId(results []domain.PollResult) map[string]domain.PollResult {
	m := map[string]domain.PollResult{}
	for _, r := range results {
		m[r.TestId] = r
	}
	return m
}

func newTestPoller(api domain.TestAPI, workers int) *Poller {
	log.InitLogging("error")
	p := NewPoller(api, workers)
	p.l = log.Discard()
	return p
}

func TestPoller_PollOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	api := mocks.NewMockTestAPI(ctrl)
	api.EXPECT().
		GetTest(gomock.Any(), "done").
		Return(&domain.TestDetails{
			Name:         "Inbox Test - done.com",
			Status:       "Completed",
			OverallScore: "92",
			Messages:     []domain.TestMessage{msg("inbox", "email_received", "google"), msg("spam", "email_received", "microsoft")},
		}, nil)
	api.EXPECT().
		GetTest(gomock.Any(), "running").
		Return(&domain.TestDetails{Status: "in_progress", Messages: []domain.TestMessage{msg("", "waiting_for_email", "google")}}, nil)
	api.EXPECT().
		GetTest(gomock.Any(), "broken").
		Return(nil, &domain.RemoteApiError{Op: "get test", Status: 404, Message: "not found"})

	results := newTestPoller(api, 2).PollOnce(context.Background(), queued("done", "running", "broken"))
	require.Len(t, results, 3)
	m := byId(results)

	assert.Equal(t, domain.StatusCompleted, m["done"].Status)
	assert.Equal(t, "92", m["done"].OverallScore)
	assert.Equal(t, "Inbox Test - done.com", m["done"].TestName)
	assert.Equal(t, "x@done.com", m["done"].FromEmail)
	assert.Equal(t, "https://app.emailguard.io/inbox-placement-tests/done", m["done"].TestUrl)
	assert.InDelta(t, 50, m["done"].Stats.InboxRate, 0.001)

	assert.Equal(t, domain.StatusPending, m["running"].Status)
	assert.Equal(t, "in_progress", m["running"].RawStatus)
	assert.Equal(t, 1, m["running"].Stats.Waiting)

	assert.Equal(t, domain.StatusFailed, m["broken"].Status)
	assert.Equal(t, domain.RawStatusFailed, m["broken"].RawStatus)
	assert.Equal(t, "get test: status 404: not found", m["broken"].Error)
}

func TestPoller_PollOnceEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	results := newTestPoller(mocks.NewMockTestAPI(ctrl), 5).PollOnce(context.Background(), nil)
	assert.Empty(t, results)
}

type slowAPI struct {
	running int32
	max     int32
}

func (s *slowAPI) CreateTest(_ context.Context, _ string) (*domain.CreatedTest, error) {
	return nil, errors.New("not implemented")
}

func (s *slowAPI) GetTest(_ context.Context, id string) (*domain.TestDetails, error) {
	now := atomic.AddInt32(&s.running, 1)
	defer atomic.AddInt32(&s.running, -1)
	for {
		peak := atomic.LoadInt32(&s.max)
		if now <= peak || atomic.CompareAndSwapInt32(&s.max, peak, now) {
			break
		}
	}
	time.Sleep(10 * time.Millisecond)
	return &domain.TestDetails{Name: id, Status: "completed"}, nil
}

func (s *slowAPI) TestUrl(id string) string {
	return id
}

func TestPoller_BoundedConcurrency(t *testing.T) {
	api := &slowAPI{}
	ids := []string{}
	for i := 0; i < 20; i++ {
		ids = append(ids, fmt.Sprintf("t%d", i))
	}

	results := newTestPoller(api, 3).PollOnce(context.Background(), queued(ids...))

	assert.Len(t, results, 20)
	assert.Len(t, byId(results), 20)
	assert.LessOrEqual(t, atomic.LoadInt32(&api.max), int32(3))
	assert.Greater(t, atomic.LoadInt32(&api.max), int32(0))
}

func TestNewPoller_MinimumOneWorker(t *testing.T) {
	log.InitLogging("error")
	assert.Equal(t, 1, NewPoller(nil, 0).workers)
}
