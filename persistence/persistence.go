// SPDX-License-Identifier: GPL-3.0-or-later
package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/CrawX/go-emailguard/domain"
	"github.com/CrawX/go-emailguard/log"
	"github.com/CrawX/go-emailguard/persistence/migrations"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
)

const DatabaseFile = "state.db"

// Scope is the durable state of one unit of work: its progress record and
// the append-only queue of sent probes. One writer per scope at a time.
type Scope struct {
	name string
	dir  string
	db   *sqlx.DB
	l    *logrus.Logger
}

func ScopeDir(dataDir, scope string) (string, error) {
	s := strings.TrimSpace(scope)
	if len(s) == 0 || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("invalid scope name %q", scope)
	}
	return filepath.Join(dataDir, s), nil
}

// OpenScope creates the scope directory on first use. A database that exists
// but can't be opened is moved aside and replaced by an empty one.
func OpenScope(dataDir, scope string) (*Scope, error) {
	dir, err := ScopeDir(dataDir, scope)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, &domain.PersistenceError{Scope: scope, Err: fmt.Errorf("could not create scope dir: %w", err)}
	}

	l := log.Logger(log.LOG_PERSISTENCE)
	datasource := filepath.Join(dir, DatabaseFile)

	_, statErr := os.Stat(datasource)
	existed := statErr == nil

	db, err := open(datasource)
	if err != nil && existed {
		aside := fmt.Sprintf("%s.corrupt-%d", datasource, time.Now().Unix())
		l.WithFields(logrus.Fields{"scope": scope, "error": err, "movedto": aside}).Warn("State is unreadable, starting with empty state")
		err = os.Rename(datasource, aside)
		if err != nil {
			return nil, &domain.PersistenceError{Scope: scope, Err: fmt.Errorf("could not move corrupt state aside: %w", err)}
		}
		_ = os.Remove(datasource + "-wal")
		_ = os.Remove(datasource + "-shm")
		db, err = open(datasource)
	}
	if err != nil {
		return nil, &domain.PersistenceError{Scope: scope, Err: err}
	}

	l.WithFields(logrus.Fields{"scope": scope, "file": datasource}).Debug("Opened scope")

	return &Scope{
		name: scope,
		dir:  dir,
		db:   db,
		l:    l,
	}, nil
}

func open(datasource string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", datasource)
	if err != nil {
		return nil, fmt.Errorf("could not open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`PRAGMA journal_mode=WAL`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not set journal mode: %w", err)
	}
	_, err = db.Exec(`PRAGMA synchronous=normal`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not set synchronous mode: %w", err)
	}

	migrationSource := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrations.FS,
		Root:       "sql",
	}
	_, err = migrate.Exec(db.DB, "sqlite3", migrationSource, migrate.Up)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not migrate to newest version: %w", err)
	}

	return db, nil
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Close() error {
	err := s.db.Close()
	if err != nil {
		return fmt.Errorf("could not close db: %w", err)
	}
	return nil
}

func (s *Scope) Load(ctx context.Context) domain.ProgressState {
	state, err := s.load(ctx)
	if err != nil {
		s.l.WithFields(logrus.Fields{"scope": s.name, "error": err}).Warn("Could not load progress, starting from scratch")
		return domain.ProgressState{ProcessedDomains: []domain.Domain{}}
	}
	return state
}

func (s *Scope) load(ctx context.Context) (domain.ProgressState, error) {
	state := domain.ProgressState{ProcessedDomains: []domain.Domain{}}

	err := s.db.GetContext(ctx, &state.BatchNumber, `SELECT batch_number FROM progress WHERE id = 1`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return state, fmt.Errorf("could not query progress: %w", err)
	}

	err = s.db.SelectContext(ctx, &state.ProcessedDomains, `SELECT domain FROM processed_domains ORDER BY position`)
	if err != nil {
		return state, fmt.Errorf("could not query processed domains: %w", err)
	}

	return state, nil
}

// Save replaces the stored progress with state in a single transaction.
func (s *Scope) Save(ctx context.Context, state domain.ProgressState) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM processed_domains`)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not clear processed domains: %w", err))
	}

	stmt, err := tx.PreparexContext(ctx, `INSERT OR IGNORE INTO processed_domains (position, domain) VALUES (?, ?)`)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not prepare statement: %w", err))
	}
	defer stmt.Close()

	for i, d := range state.ProcessedDomains {
		_, err = stmt.ExecContext(ctx, i, string(d))
		if err != nil {
			return txEnd(tx, fmt.Errorf("could not save domain %s: %w", d, err))
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO progress (id, batch_number) VALUES (1, ?)`, state.BatchNumber)
	if err != nil {
		return txEnd(tx, fmt.Errorf("could not save batch number: %w", err))
	}

	err = txEnd(tx, nil)
	if err != nil {
		return err
	}

	s.l.WithFields(logrus.Fields{"scope": s.name, "processed": len(state.ProcessedDomains), "batch": state.BatchNumber}).Info("Persisted progress")
	return nil
}

func (s *Scope) Append(ctx context.Context, test domain.QueuedTest) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO queued_tests (from_email, test_id, filter_phrase, test_url) VALUES (?, ?, ?, ?)`,
		test.FromEmail, test.TestId, test.FilterPhrase, test.TestUrl,
	)
	if err != nil {
		return fmt.Errorf("could not append queued test %s: %w", test.TestId, err)
	}

	s.l.WithFields(logrus.Fields{"scope": s.name, "test": test.TestId, "from": test.FromEmail}).Debug("Queued test")
	return nil
}

func (s *Scope) All(ctx context.Context) ([]domain.QueuedTest, error) {
	dbTests := []struct {
		FromEmail    string `db:"from_email"`
		TestId       string `db:"test_id"`
		FilterPhrase string `db:"filter_phrase"`
		TestUrl      string `db:"test_url"`
	}{}

	err := s.db.SelectContext(ctx,
		&dbTests,
		`SELECT from_email, test_id, filter_phrase, test_url FROM queued_tests ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("could not query db: %w", err)
	}

	tests := make([]domain.QueuedTest, 0, len(dbTests))
	for _, t := range dbTests {
		tests = append(tests, domain.QueuedTest{
			FromEmail:    t.FromEmail,
			TestId:       t.TestId,
			FilterPhrase: t.FilterPhrase,
			TestUrl:      t.TestUrl,
		})
	}

	return tests, nil
}

// Reset deletes all state of a scope. The scope must not be open. Files
// outside the scope directory, such as reports and credentials, are kept.
func Reset(dataDir, scope string) error {
	dir, err := ScopeDir(dataDir, scope)
	if err != nil {
		return err
	}

	err = os.RemoveAll(dir)
	if err != nil {
		return &domain.PersistenceError{Scope: scope, Err: fmt.Errorf("could not remove scope dir: %w", err)}
	}

	// Only succeeds when no other scope is left.
	_ = os.Remove(dataDir)

	log.Logger(log.LOG_PERSISTENCE).WithField("scope", scope).Info("Reset scope")
	return nil
}

func txEnd(tx *sqlx.Tx, err error) error {
	if err == nil {
		err = tx.Commit()
		if err != nil {
			return fmt.Errorf("could not commit tx: %w", err)
		}
	} else {
		rollbackErr := tx.Rollback()
		if rollbackErr != nil {
			errStr := err.Error()
			return fmt.Errorf("%s, could not rollback tx: %w", errStr, rollbackErr)
		} else {
			return err
		}
	}

	return nil
}
