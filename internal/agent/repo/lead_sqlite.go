package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/damsole-chat/server/internal/agent/model"
	errx "github.com/damsole-chat/server/internal/core/error"
	logx "github.com/damsole-chat/server/pkg/logger"
)

// SQLiteLeadRepository stores completed leads in a local SQLite file.
type SQLiteLeadRepository struct {
	db *sql.DB
}

// NewSQLiteLeadRepository opens (creating if needed) the database at dbPath.
func NewSQLiteLeadRepository(dbPath string) (*SQLiteLeadRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &SQLiteLeadRepository{db: db}
	if err := r.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return r, nil
}

func (r *SQLiteLeadRepository) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS leads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		reference TEXT NOT NULL UNIQUE,
		session_id TEXT NOT NULL,
		full_name TEXT NOT NULL,
		email TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		address TEXT NOT NULL,
		project_requirement TEXT NOT NULL,
		deadline TEXT NOT NULL,
		timestamp INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_leads_timestamp ON leads(timestamp);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveLead inserts one completed lead.
func (r *SQLiteLeadRepository) SaveLead(ctx context.Context, lead *model.Lead) error {
	query := `
		INSERT INTO leads (reference, session_id, full_name, email, phone_number,
		                   address, project_requirement, deadline, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	rec := lead.Record
	_, err := r.db.ExecContext(ctx, query,
		lead.Reference,
		lead.SessionID,
		rec.Value(model.FullName),
		rec.Value(model.Email),
		rec.Value(model.PhoneNumber),
		rec.Value(model.Address),
		rec.Value(model.ProjectRequirement),
		rec.Value(model.Deadline),
		lead.SubmittedAt.UnixMilli(),
	)
	if err != nil {
		logx.Error().Err(err).Str("reference", lead.Reference).Msg("failed to insert lead")
		return errx.WrapSQLite(err)
	}
	return nil
}

// StoredLead is a lead row with its database id.
type StoredLead struct {
	ID int64
	model.Lead
}

// ListLeads returns the most recent leads first, at most limit rows.
func (r *SQLiteLeadRepository) ListLeads(ctx context.Context, limit int) ([]StoredLead, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, reference, session_id, full_name, email, phone_number,
		       address, project_requirement, deadline, timestamp
		FROM leads ORDER BY timestamp DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errx.WrapSQLite(err)
	}
	defer func() { _ = rows.Close() }()

	var out []StoredLead
	for rows.Next() {
		var (
			l      StoredLead
			values [model.NumFields]string
			ts     int64
		)
		if err := rows.Scan(
			&l.ID, &l.Reference, &l.SessionID,
			&values[model.FullName], &values[model.Email], &values[model.PhoneNumber],
			&values[model.Address], &values[model.ProjectRequirement], &values[model.Deadline],
			&ts,
		); err != nil {
			return nil, fmt.Errorf("scan lead row: %w", err)
		}
		for _, f := range model.Fields() {
			l.Record.Set(f, values[f])
		}
		l.SubmittedAt = time.UnixMilli(ts)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, errx.WrapSQLite(err)
	}
	return out, nil
}

// Ping verifies database connectivity.
func (r *SQLiteLeadRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteLeadRepository) Close() error {
	return r.db.Close()
}

var _ model.LeadRepository = (*SQLiteLeadRepository)(nil)
