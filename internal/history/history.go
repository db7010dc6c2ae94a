// Package history records completed analyses in SQLite so earlier verdicts for a
// URL or domain can be listed and compared.
package history

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
	"golang.org/x/net/publicsuffix"

	"github.com/raysh454/urlanalyzer/internal/analyzer"
	"github.com/raysh454/urlanalyzer/internal/logging"

	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed schema.sql
var schemaFS embed.FS

var ErrNotFound = errors.New("history entry not found")

// DefaultLimit is used by List when Filter.Limit is not positive.
const DefaultLimit = 50

// Config locates the history database.
type Config struct {
	// Path is the SQLite file. A leading ~ expands to the home directory.
	Path string
}

func DefaultConfig() Config {
	return Config{Path: "~/.config/urlanalyzer/history.db"}
}

// Entry is one recorded analysis.
type Entry struct {
	ID             string          `json:"id"`
	URL            string          `json:"url"`
	Domain         string          `json:"domain"`
	MaliciousVotes int             `json:"malicious_votes"`
	HarmlessVotes  int             `json:"harmless_votes"`
	Verdict        json.RawMessage `json:"verdict"`
	Change         string          `json:"change"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Filter narrows List. Zero values match everything.
type Filter struct {
	Domain string
	Limit  int
}

// snapshot is the part of a verdict that is stored and diffed. Per-run fields
// such as the analysis id and timestamp are left out so that an unchanged
// verdict yields an empty change.
type snapshot struct {
	URL             string `json:"url"`
	MaliciousVotes  int    `json:"malicious_votes"`
	HarmlessVotes   int    `json:"harmless_votes"`
	SuspiciousVotes int    `json:"suspicious_votes"`
	UndetectedVotes int    `json:"undetected_votes"`
}

// Store is a SQLite-backed history of verdicts.
type Store struct {
	db     *sql.DB
	logger logging.Logger
	now    func() time.Time
}

// Open opens (creating if needed) the database at cfg.Path.
func Open(cfg Config, logger logging.Logger) (*Store, error) {
	path, err := expandPath(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding history path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}
	// Record reads the previous entry then inserts; one connection keeps that ordered.
	db.SetMaxOpenConns(1)
	s, err := New(db, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema.
func New(db *sql.DB, logger logging.Logger) (*Store, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if err := applySchema(db); err != nil {
		return nil, err
	}
	return &Store{
		db:     db,
		logger: logger.With(logging.Field{Key: "component", Value: "history"}),
		now:    time.Now,
	}, nil
}

func applySchema(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema.sql: %w", err)
	}
	if _, err := db.Exec(string(schemaSQL)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	return nil
}

// Record stores v and returns the new entry, including the delta against the
// previous verdict recorded for the same URL.
func (s *Store) Record(ctx context.Context, v *analyzer.Verdict) (*Entry, error) {
	if v == nil {
		return nil, errors.New("verdict is nil")
	}
	snap, err := json.Marshal(snapshot{
		URL:             v.URL,
		MaliciousVotes:  v.MaliciousVotes,
		HarmlessVotes:   v.HarmlessVotes,
		SuspiciousVotes: v.SuspiciousVotes,
		UndetectedVotes: v.UndetectedVotes,
	})
	if err != nil {
		return nil, fmt.Errorf("encode verdict: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var prev string
	err = tx.QueryRowContext(ctx,
		`SELECT verdict FROM analyses WHERE url = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		v.URL).Scan(&prev)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load previous verdict: %w", err)
	}

	e := &Entry{
		ID:             uuid.New().String(),
		URL:            v.URL,
		Domain:         registrableDomain(v.URL),
		MaliciousVotes: v.MaliciousVotes,
		HarmlessVotes:  v.HarmlessVotes,
		Verdict:        json.RawMessage(snap),
		Change:         verdictDelta(prev, string(snap)),
		CreatedAt:      s.now().UTC(),
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO analyses (id, url, domain, malicious_votes, harmless_votes, verdict, change, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.URL, e.Domain, e.MaliciousVotes, e.HarmlessVotes, string(snap), e.Change, e.CreatedAt.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("insert analysis: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.logger.Debug("recorded analysis",
		logging.Field{Key: "id", Value: e.ID},
		logging.Field{Key: "url", Value: e.URL},
		logging.Field{Key: "changed", Value: e.Change != ""})
	return e, nil
}

// List returns entries newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	q := `SELECT id, url, domain, malicious_votes, harmless_votes, verdict, change, created_at FROM analyses`
	args := []any{}
	if f.Domain != "" {
		q += ` WHERE domain = ?`
		args = append(args, strings.ToLower(f.Domain))
	}
	q += ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// Get returns the entry with id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, url, domain, malicious_votes, harmless_votes, verdict, change, created_at FROM analyses WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return e, err
}

func (s *Store) Close() error { return s.db.Close() }

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(r scanner) (*Entry, error) {
	var (
		e       Entry
		verdict string
		created int64
	)
	if err := r.Scan(&e.ID, &e.URL, &e.Domain, &e.MaliciousVotes, &e.HarmlessVotes, &verdict, &e.Change, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan history entry: %w", err)
	}
	e.Verdict = json.RawMessage(verdict)
	e.CreatedAt = time.Unix(0, created).UTC()
	return &e, nil
}

// verdictDelta is the diffmatchpatch delta turning prev into cur, or "" when
// there is no previous verdict or nothing changed.
func verdictDelta(prev, cur string) string {
	if prev == "" || prev == cur {
		return ""
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(prev, cur, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.DiffToDelta(diffs)
}

// registrableDomain returns the eTLD+1 of rawURL's host. IP literals and hosts
// without a public suffix fall back to the bare host.
func registrableDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" || net.ParseIP(host) != nil {
		return host
	}
	d, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return d
}

func expandPath(p string) (string, error) {
	if len(p) > 0 && p[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, p[1:]), nil
	}
	return p, nil
}
