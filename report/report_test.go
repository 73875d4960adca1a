// SPDX-License-Identifier: GPL-3.0-or-later
package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var results = []domain.PollResult{
	{
		FromEmail: "b@two.com", TestId: "t2", TestUrl: "https://app.emailguard.io/inbox-placement-tests/t2",
		RawStatus: "in_progress", Status: domain.StatusPending,
	},
	{
		FromEmail: "a@one.com", TestId: "t1", TestUrl: "https://app.emailguard.io/inbox-placement-tests/t1",
		RawStatus: "completed", Status: domain.StatusCompleted, OverallScore: "87.5",
		Stats: domain.Stats{InboxRate: 80, SpamRate: 20, GoogleTotal: 4, GoogleInboxRate: 75, MicrosoftTotal: 0},
	},
	{
		FromEmail: "c@three.com", TestId: "t3", TestUrl: "https://app.emailguard.io/inbox-placement-tests/t3",
		RawStatus: "Complete", Status: domain.StatusCompleted, OverallScore: "60",
		Stats: domain.Stats{InboxRate: 40, SpamRate: 60, GoogleTotal: 2, GoogleInboxRate: 50, MicrosoftTotal: 2, MicrosoftInboxRate: 33.333},
	},
	{
		FromEmail: "d@four.com", TestId: "t4", TestUrl: "https://app.emailguard.io/inbox-placement-tests/t4",
		RawStatus: domain.RawStatusFailed, Status: domain.StatusFailed, Error: "get test: status 404",
	},
}

func TestSummarize(t *testing.T) {
	summary := Summarize(results)

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 1, summary.Pending)
	assert.Equal(t, 1, summary.Failed)
	assert.InDelta(t, 60, summary.AvgInboxRate, 0.001)
	assert.InDelta(t, 40, summary.AvgSpamRate, 0.001)
	assert.InDelta(t, 62.5, summary.AvgGoogleInboxRate, 0.001)
	// only t3 had microsoft seeds
	assert.InDelta(t, 33.333, summary.AvgMicrosoftInboxRate, 0.001)
}

func TestSummarize_NothingCompleted(t *testing.T) {
	summary := Summarize([]domain.PollResult{{Status: domain.StatusPending}})
	assert.Equal(t, Summary{Total: 1, Pending: 1}, summary)
}

func TestWriteCsv(t *testing.T) {
	log.InitLogging("error")
	path := filepath.Join(t.TempDir(), "results.csv")

	require.NoError(t, WriteCsv(path, results))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 5)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, []string{"a@one.com", "t1", "completed", "87.5", "80.0", "20.0", "75.0", "0.0", "https://app.emailguard.io/inbox-placement-tests/t1"}, rows[1])
	assert.Equal(t, "in_progress", rows[2][2])
	assert.Equal(t, "33.3", rows[3][7])
	assert.Equal(t, []string{"d@four.com", "t4", "FAILED", "", "0.0", "0.0", "0.0", "0.0", "https://app.emailguard.io/inbox-placement-tests/t4"}, rows[4])
}

func TestWriteCsv_Unwritable(t *testing.T) {
	log.InitLogging("error")
	err := WriteCsv(filepath.Join(t.TempDir(), "missing", "results.csv"), results)
	assert.Error(t, err)
}

func TestWriteXlsx(t *testing.T) {
	log.InitLogging("error")
	path := filepath.Join(t.TempDir(), "results.xlsx")

	require.NoError(t, WriteXlsx(path, results))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetResults, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetResults)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, Columns, rows[0])
	assert.Equal(t, "a@one.com", rows[1][0])
	assert.Equal(t, "t1", rows[1][1])
	assert.Equal(t, "completed", rows[1][2])
	assert.Equal(t, "https://app.emailguard.io/inbox-placement-tests/t4", rows[4][8])

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	require.Len(t, summary, 9)
	assert.Equal(t, []string{"total_tests", "4"}, summary[1])
	assert.Equal(t, []string{"completed", "2"}, summary[2])
	assert.Equal(t, []string{"avg_inbox_rate_%", "60"}, summary[5])
}

func TestSorted(t *testing.T) {
	sorted := Sorted(results)

	assert.Equal(t, "t2", results[0].TestId)
	ids := []string{}
	for _, r := range sorted {
		ids = append(ids, r.TestId)
	}
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, ids)
}
