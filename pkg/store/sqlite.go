package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sync"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/bastiangx/wordboost/internal/logger"
	"github.com/bastiangx/wordboost/internal/utils"
	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const phrasesTable = "phrases"

// SQLite is the on-disk phrase table.
type SQLite struct {
	db     *sql.DB
	path   string
	log    *log.Logger
	mu     sync.Mutex
	closed bool
}

// OpenSQLite opens or creates the database at path and applies pending
// migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := path
	if path != MemoryPath {
		if err := utils.EnsureParentDir(path); err != nil {
			return nil, err
		}
		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps an in-memory database alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLite{db: db, path: path, log: logger.New("store")}
	s.log.Debug("Opened phrase table", "path", path)
	return s, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations, err := fs.Sub(embedMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func (s *SQLite) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// LookupPrefix implements Store.
func (s *SQLite) LookupPrefix(ctx context.Context, prefix string, limit int) ([]Match, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	query := squirrel.Select("phrase", "SUM(user_freq) AS freq", "MAX(timestamp) AS ts").
		From(phrasesTable).
		Where(`input_phrase LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		GroupBy("phrase").
		OrderBy("freq DESC", "ts DESC", "phrase")
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build prefix query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("prefix lookup: %w", err)
	}
	defer rows.Close()

	var out []Match
	for rows.Next() {
		var m Match
		var ts int64
		if err := rows.Scan(&m.Phrase, &m.UserFreq, &ts); err != nil {
			return nil, fmt.Errorf("scan phrase: %w", err)
		}
		m.LastUsed = time.Unix(0, ts)
		out = append(out, m)
	}
	return out, rows.Err()
}

// PhraseCounts implements Store.
func (s *SQLite) PhraseCounts(ctx context.Context, phrases []string) (map[string]int, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	if len(phrases) == 0 {
		return counts, nil
	}
	query := squirrel.Select("phrase", "SUM(user_freq)").
		From(phrasesTable).
		Where(squirrel.Eq{"phrase": phrases}).
		GroupBy("phrase")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("phrase counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var phrase string
		var n int
		if err := rows.Scan(&phrase, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[phrase] = n
	}
	return counts, rows.Err()
}

// Record implements Store.
func (s *SQLite) Record(ctx context.Context, input, phrase string, at time.Time) error {
	if err := s.check(); err != nil {
		return err
	}
	query := squirrel.Insert(phrasesTable).
		Columns("input_phrase", "phrase", "user_freq", "timestamp").
		Values(input, phrase, 1, at.UnixNano()).
		Suffix("ON CONFLICT (input_phrase, phrase) DO UPDATE SET user_freq = user_freq + 1, timestamp = excluded.timestamp")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("record phrase: %w", err)
	}
	return nil
}

// Insert implements Store. All rows go in one transaction.
func (s *SQLite) Insert(ctx context.Context, records []Record) error {
	if err := s.check(); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	sqlStr, _, err := squirrel.Insert(phrasesTable).
		Columns("input_phrase", "phrase", "user_freq", "timestamp").
		Values("", "", 0, 0).
		Suffix("ON CONFLICT (input_phrase, phrase) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, sqlStr)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.InputPhrase, r.Phrase, r.UserFreq, r.Timestamp.UnixNano()); err != nil {
			tx.Rollback()
			return fmt.Errorf("import %q: %w", r.Phrase, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	s.log.Debug("Imported phrases", "count", len(records))
	return nil
}

// Path returns the database location.
func (s *SQLite) Path() string { return s.path }

// Close implements Store.
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
