// SPDX-License-Identifier: GPL-3.0-or-later
package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-emailguard/config"
	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"
	"github.com/CrawX/go-emailguard/poller"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		ResultsCsv:  filepath.Join(dir, "results.csv"),
		ResultsXlsx: filepath.Join(dir, "results.xlsx"),
	}
}

func TestFinishPoll_CancelledBeforeFirstRound(t *testing.T) {
	log.InitLogging("error")
	conf := reportConfig(t)
	require.NoError(t, os.WriteFile(conf.ResultsCsv, []byte("previous"), 0o644))

	err := finishPoll(conf, poller.Outcome{State: poller.Cancelled, Results: []domain.PollResult{}})
	require.NoError(t, err)

	previous, err := os.ReadFile(conf.ResultsCsv)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(previous))
	assert.NoFileExists(t, conf.ResultsXlsx)
}

func TestFinishPoll_WritesLastRound(t *testing.T) {
	log.InitLogging("error")
	conf := reportConfig(t)
	require.NoError(t, os.WriteFile(conf.ResultsCsv, []byte("previous"), 0o644))

	err := finishPoll(conf, poller.Outcome{
		State:   poller.Cancelled,
		Rounds:  2,
		Results: []domain.PollResult{{FromEmail: "a@one.com", TestId: "t1", RawStatus: "in_progress"}},
	})
	require.NoError(t, err)

	written, err := os.ReadFile(conf.ResultsCsv)
	require.NoError(t, err)
	assert.Contains(t, string(written), "a@one.com,t1,in_progress")
	assert.FileExists(t, conf.ResultsXlsx)
}
