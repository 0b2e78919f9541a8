// Package store provides a SQLite-backed source store for named
// templates. Each stored template carries the escape mode its author
// selected for it, so the render core is always handed an
// already-decided mode and never has to guess the output context.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tannin-dev/tannin/pkg/render"
)

// SetupSchema initializes the template table in the provided database.
// This function should be called once on a new database before any other
// operations are performed. It is idempotent and safe to call on an
// already-initialized database.
func SetupSchema(db *sql.DB) error {
	// "escape" is a reserved word in SQLite, so the column is escape_mode.
	const schemaTemplates = `
CREATE TABLE IF NOT EXISTS templates (
    template_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    source TEXT NOT NULL,
    escape_mode TEXT NOT NULL DEFAULT 'html',
    updated_at INTEGER NOT NULL
);
`
	if _, err := db.Exec(schemaTemplates); err != nil {
		return fmt.Errorf("could not create template schema: %w", err)
	}
	return nil
}

// Template is a stored template source together with its metadata.
type Template struct {
	Id        int
	Name      string
	Source    string
	Escape    render.AutoEscape
	UpdatedAt time.Time
}

// TemplateInfo holds the listing metadata of a stored template, without
// the source text.
type TemplateInfo struct {
	Id        int
	Name      string
	Escape    render.AutoEscape
	UpdatedAt time.Time
}

// Store provides access to the template table. It holds the database
// connection and prepared SQL statements for the common operations.
// All methods are safe for concurrent use.
type Store struct {
	db          *sql.DB
	stmtGet     *sql.Stmt
	stmtPut     *sql.Stmt
	stmtList    *sql.Stmt
	stmtGetInfo *sql.Stmt
	logger      *slog.Logger
}

// New creates a Store on top of an initialized database. It pre-compiles
// all necessary SQL statements, returning an error if any preparation
// fails.
func New(db *sql.DB) (*Store, error) {
	stmtGet, err := db.Prepare(`SELECT template_id, source, escape_mode, updated_at FROM templates WHERE name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtPut, err := db.Prepare(`INSERT INTO templates (name, source, escape_mode, updated_at) VALUES (?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET source = excluded.source, escape_mode = excluded.escape_mode, updated_at = excluded.updated_at;`)
	if err != nil {
		return nil, err
	}

	stmtList, err := db.Prepare(`SELECT template_id, name, escape_mode, updated_at FROM templates ORDER BY name;`)
	if err != nil {
		return nil, err
	}

	stmtGetInfo, err := db.Prepare(`SELECT template_id, escape_mode, updated_at FROM templates WHERE name = ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:          db,
		stmtGet:     stmtGet,
		stmtPut:     stmtPut,
		stmtList:    stmtList,
		stmtGetInfo: stmtGetInfo,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. It should
// be called when the Store is no longer needed to free up database
// resources.
func (s *Store) Close() {
	_ = s.stmtGet.Close()
	_ = s.stmtPut.Close()
	_ = s.stmtList.Close()
	_ = s.stmtGetInfo.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are
// discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Put inserts or replaces a template under the given name.
func (s *Store) Put(ctx context.Context, name, source string, esc render.AutoEscape) error {
	if name == "" {
		return render.NewError(render.ErrInvalidOperation, "template name must not be empty")
	}
	_, err := s.stmtPut.ExecContext(ctx, name, source, esc.String(), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("could not store template '%s': %w", name, err)
	}
	s.logger.InfoContext(ctx, "Template stored",
		slog.String("name", name),
		slog.String("escape", esc.String()),
	)
	return nil
}

// Get retrieves a stored template by name. A missing name is reported as
// a render.ErrTemplateNotFound error.
func (s *Store) Get(ctx context.Context, name string) (Template, error) {
	var (
		tmpl      = Template{Name: name}
		escapeTag string
		updatedAt int64
	)
	err := s.stmtGet.QueryRowContext(ctx, name).Scan(&tmpl.Id, &tmpl.Source, &escapeTag, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Template{}, render.NewError(render.ErrTemplateNotFound,
			fmt.Sprintf("template %q does not exist", name))
	}
	if err != nil {
		return Template{}, fmt.Errorf("could not load template '%s': %w", name, err)
	}

	tmpl.Escape, err = render.ParseAutoEscape(escapeTag)
	if err != nil {
		return Template{}, fmt.Errorf("template '%s' has an invalid escape tag: %w", name, err)
	}
	tmpl.UpdatedAt = time.Unix(updatedAt, 0)
	return tmpl, nil
}

// List returns the metadata of all stored templates, ordered by name.
func (s *Store) List(ctx context.Context) ([]TemplateInfo, error) {
	rows, err := s.stmtList.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var infos []TemplateInfo
	for rows.Next() {
		var (
			info      TemplateInfo
			escapeTag string
			updatedAt int64
		)
		if err = rows.Scan(&info.Id, &info.Name, &escapeTag, &updatedAt); err != nil {
			return nil, err
		}
		if info.Escape, err = render.ParseAutoEscape(escapeTag); err != nil {
			return nil, fmt.Errorf("template '%s' has an invalid escape tag: %w", info.Name, err)
		}
		info.UpdatedAt = time.Unix(updatedAt, 0)
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Remove deletes a template by name. The operation is performed within a
// transaction; removing a name that does not exist is reported as a
// render.ErrTemplateNotFound error.
func (s *Store) Remove(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// If the transaction commits, the rollback guard is disarmed first
	// and does nothing. On any failure path it cleans up.
	guard := render.NewOnDrop(func() { _ = tx.Rollback() })
	defer guard.Run()

	res, err := tx.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to remove template '%s': %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return render.NewError(render.ErrTemplateNotFound,
			fmt.Sprintf("template %q does not exist", name))
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	guard.Disarm()

	s.logger.InfoContext(ctx, "Template removed", slog.String("name", name))
	return nil
}
