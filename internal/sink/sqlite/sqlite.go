// Package sqlite is a Sink that keeps converted records in a local SQLite
// database, one row per distinct record and item.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"fortio.org/safecast"
	_ "modernc.org/sqlite"

	"annbridge/internal/domain"
	"annbridge/internal/sink"
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	item_id      TEXT    NOT NULL,
	fingerprint  TEXT    NOT NULL,
	type_uri     TEXT    NOT NULL,
	label        TEXT    NOT NULL,
	begin_offset INTEGER NOT NULL,
	end_offset   INTEGER NOT NULL,
	PRIMARY KEY (item_id, fingerprint)
)`

// Storage writes records to a SQLite database.
type Storage struct {
	db *sql.DB
}

// Open opens or creates the database at path and ensures the schema.
func Open(ctx context.Context, path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Upload inserts records not yet stored for item.
func (s *Storage) Upload(ctx context.Context, item domain.Item, records []domain.Record) (domain.UploadResult, error) {
	var res domain.UploadResult
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return res, err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO records
		(item_id, fingerprint, type_uri, label, begin_offset, end_offset) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return res, err
	}
	defer stmt.Close()

	for _, r := range records {
		out, err := stmt.ExecContext(ctx, item.ID, sink.Fingerprint(r), r.TypeURI, r.Label, r.Begin, r.End)
		if err != nil {
			return domain.UploadResult{}, fmt.Errorf("insert record for %s: %w", item.ID, err)
		}
		n, err := out.RowsAffected()
		if err != nil {
			return domain.UploadResult{}, err
		}
		if n == 0 {
			res.Skipped++
		} else {
			res.Sent++
		}
	}
	if err := tx.Commit(); err != nil {
		return domain.UploadResult{}, err
	}
	return res, nil
}

// Records returns the stored records of an item ordered by span.
func (s *Storage) Records(ctx context.Context, itemID string) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT type_uri, label, begin_offset, end_offset
		FROM records WHERE item_id = ? ORDER BY begin_offset, end_offset DESC, type_uri, label`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var (
			r          domain.Record
			begin, end int64
		)
		if err := rows.Scan(&r.TypeURI, &r.Label, &begin, &end); err != nil {
			return nil, err
		}
		if r.Begin, err = safecast.Conv[int](begin); err != nil {
			return nil, fmt.Errorf("begin offset: %w", err)
		}
		if r.End, err = safecast.Conv[int](end); err != nil {
			return nil, fmt.Errorf("end offset: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
