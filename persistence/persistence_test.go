// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope(t *testing.T, dataDir, name string) *Scope {
	t.Helper()
	log.InitLogging("error")
	s, err := OpenScope(dataDir, name)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenScope_CreatesDirAndEmptyState(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	s := testScope(t, dataDir, "customer-a")

	assert.DirExists(t, filepath.Join(dataDir, "customer-a"))
	assert.Equal(t, domain.ProgressState{ProcessedDomains: []domain.Domain{}}, s.Load(context.Background()))
}

func TestOpenScope_InvalidName(t *testing.T) {
	for _, name := range []string{"", " ", ".", "..", "a/b", `a\b`} {
		t.Run(name, func(t *testing.T) {
			s, err := OpenScope(t.TempDir(), name)
			assert.Nil(t, s)
			assert.Error(t, err)
		})
	}
}

func TestScope_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := testScope(t, t.TempDir(), "default")

	require.NoError(t, s.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"b.com", "a.com"}, BatchNumber: 1}))
	assert.Equal(t, domain.ProgressState{ProcessedDomains: []domain.Domain{"b.com", "a.com"}, BatchNumber: 1}, s.Load(ctx))

	require.NoError(t, s.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"c.com"}, BatchNumber: 2}))
	assert.Equal(t, domain.ProgressState{ProcessedDomains: []domain.Domain{"c.com"}, BatchNumber: 2}, s.Load(ctx))
}

func TestScope_StateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()

	s, err := OpenScope(dataDir, "default")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"a.com"}, BatchNumber: 1}))
	require.NoError(t, s.Append(ctx, domain.QueuedTest{FromEmail: "john@a.com", TestId: "t1", FilterPhrase: "fp", TestUrl: "u1"}))
	require.NoError(t, s.Close())

	reopened := testScope(t, dataDir, "default")
	assert.Equal(t, domain.ProgressState{ProcessedDomains: []domain.Domain{"a.com"}, BatchNumber: 1}, reopened.Load(ctx))
	tests, err := reopened.All(ctx)
	require.NoError(t, err)
	assert.Len(t, tests, 1)
}

func TestScope_QueueKeepsAppendOrder(t *testing.T) {
	ctx := context.Background()
	s := testScope(t, t.TempDir(), "default")

	expected := []domain.QueuedTest{
		{FromEmail: "john@a.com", TestId: "t1", FilterPhrase: "fp1", TestUrl: "https://x/t1"},
		{FromEmail: "jane@b.com", TestId: "t2", FilterPhrase: "fp2", TestUrl: "https://x/t2"},
	}
	for _, q := range expected {
		require.NoError(t, s.Append(ctx, q))
	}

	tests, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, expected, tests)
}

func TestScope_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	a := testScope(t, dataDir, "a")
	b := testScope(t, dataDir, "b")

	require.NoError(t, a.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"a.com"}, BatchNumber: 1}))

	assert.Empty(t, b.Load(ctx).ProcessedDomains)
}

func TestOpenScope_CorruptStateIsReplaced(t *testing.T) {
	log.InitLogging("error")
	dataDir := t.TempDir()
	dir := filepath.Join(dataDir, "default")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DatabaseFile), []byte("this is not a database, just garbage bytes that sqlite will refuse"), 0o600))

	s, err := OpenScope(dataDir, "default")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, s.Load(context.Background()).BatchNumber)
	aside, err := filepath.Glob(filepath.Join(dir, DatabaseFile+".corrupt-*"))
	require.NoError(t, err)
	assert.Len(t, aside, 1)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	workDir := t.TempDir()
	dataDir := filepath.Join(workDir, "data")
	report := filepath.Join(workDir, "inbox_placement_results.csv")
	require.NoError(t, os.WriteFile(report, []byte("from_email\n"), 0o600))

	s, err := OpenScope(dataDir, "default")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"a.com"}, BatchNumber: 1}))
	require.NoError(t, s.Close())

	other := testScope(t, dataDir, "other")
	require.NoError(t, other.Save(ctx, domain.ProgressState{ProcessedDomains: []domain.Domain{"z.com"}, BatchNumber: 4}))

	require.NoError(t, Reset(dataDir, "default"))

	assert.NoDirExists(t, filepath.Join(dataDir, "default"))
	assert.FileExists(t, report)
	assert.Equal(t, 4, other.Load(ctx).BatchNumber)

	fresh := testScope(t, dataDir, "default")
	assert.Equal(t, 0, fresh.Load(ctx).BatchNumber)
	tests, err := fresh.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, tests)
}
