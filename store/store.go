// Package store keeps named templates in a SQLite database.
//
// The pure Go driver modernc.org/sqlite is used by default. Building with
// the tag cgo_sqlite selects github.com/mattn/go-sqlite3 instead.
package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/ardnew/htmldsl/lang"
	"github.com/ardnew/htmldsl/log"
)

// Errors returned by [Library] methods.
var (
	ErrOpen     = lang.NewError("failed to open template library")
	ErrName     = lang.NewError("invalid template name")
	ErrNotFound = lang.NewError("template not found")
	ErrQuery    = lang.NewError("template library query failed")
)

const schema = `
CREATE TABLE IF NOT EXISTS templates (
	name    TEXT PRIMARY KEY,
	source  TEXT NOT NULL,
	updated INTEGER NOT NULL
);
`

// Entry is one stored template.
type Entry struct {
	Name    string
	Source  string
	Updated time.Time
}

// Library is a collection of named template sources. It is safe for
// concurrent use.
type Library struct {
	db     *sql.DB
	logger log.Logger
	now    func() time.Time
}

// Option configures a [Library].
type Option func(*Library)

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// WithClock sets the function that timestamps stored templates.
func WithClock(now func() time.Time) Option {
	return func(l *Library) {
		if now != nil {
			l.now = now
		}
	}
}

// Open opens the library in the SQLite database named by dsn, creating its
// table if needed.
func Open(ctx context.Context, dsn string, opts ...Option) (*Library, error) {
	l := &Library{now: time.Now}

	for _, opt := range opts {
		opt(l)
	}

	db, err := openDB(dsn)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("dsn", dsn))
	}

	// One connection keeps in-memory databases shared and serializes writes.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, ErrOpen.Wrap(err).With(slog.String("dsn", dsn))
	}

	l.db = db

	l.logger.TraceContext(ctx, "library open",
		slog.String("driver", Driver),
		slog.String("dsn", dsn),
	)

	return l, nil
}

// Close closes the database.
func (l *Library) Close() error {
	return l.db.Close()
}

// ValidName reports whether name may name a template: non-empty, without
// whitespace or control characters.
func ValidName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return false
		}
	}

	return true
}

func checkName(name string) error {
	if !ValidName(name) {
		return ErrName.With(slog.String("name", name))
	}

	return nil
}

// Put stores source under name, replacing any template of that name.
// The source must parse; otherwise the parse error is returned and nothing
// is stored.
func (l *Library) Put(ctx context.Context, name, source string) error {
	if err := checkName(name); err != nil {
		return err
	}

	if _, err := lang.ParseCached(ctx, source); err != nil {
		return err
	}

	updated := l.now().UTC()

	_, err := l.db.ExecContext(ctx, `
INSERT INTO templates (name, source, updated) VALUES (?, ?, ?)
ON CONFLICT (name) DO UPDATE SET source = excluded.source, updated = excluded.updated`,
		name, source, updated.UnixNano(),
	)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("name", name))
	}

	l.logger.TraceContext(ctx, "template stored",
		slog.String("name", name),
		slog.Int("source_bytes", len(source)),
	)

	return nil
}

// Get returns the template stored under name.
func (l *Library) Get(ctx context.Context, name string) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}

	var (
		e       = Entry{Name: name}
		updated int64
	)

	err := l.db.QueryRowContext(ctx,
		"SELECT source, updated FROM templates WHERE name = ?", name,
	).Scan(&e.Source, &updated)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return Entry{}, ErrNotFound.With(slog.String("name", name))
	case err != nil:
		return Entry{}, ErrQuery.Wrap(err).With(slog.String("name", name))
	}

	e.Updated = time.Unix(0, updated).UTC()

	return e, nil
}

// Template parses the template stored under name. Parsed templates are
// shared through the parse cache of package lang.
func (l *Library) Template(
	ctx context.Context,
	name string,
	opts ...lang.Option,
) (*lang.Template, error) {
	e, err := l.Get(ctx, name)
	if err != nil {
		return nil, err
	}

	return lang.ParseCached(ctx, e.Source, opts...)
}

// List returns every stored template ordered by name. If prefix is not
// empty only names starting with it are listed.
func (l *Library) List(ctx context.Context, prefix string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT name, source, updated FROM templates ORDER BY name")
	if err != nil {
		return nil, ErrQuery.Wrap(err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var (
			e       Entry
			updated int64
		)

		if err := rows.Scan(&e.Name, &e.Source, &updated); err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}

		e.Updated = time.Unix(0, updated).UTC()
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, ErrQuery.Wrap(err)
	}

	return entries, nil
}

// Delete removes the template stored under name.
func (l *Library) Delete(ctx context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}

	res, err := l.db.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("name", name))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("name", name))
	}

	if n == 0 {
		return ErrNotFound.With(slog.String("name", name))
	}

	l.logger.TraceContext(ctx, "template deleted", slog.String("name", name))

	return nil
}
