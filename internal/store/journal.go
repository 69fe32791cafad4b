// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/kbase/go-dts/internal/logger"
	"github.com/kbase/go-dts/migrations"
	"github.com/kbase/go-dts/models"
)

// transferColumns is the column set shared by every journal SELECT.
var transferColumns = []string{
	"id",
	"orcid",
	"source",
	"destination",
	"description",
	"status",
	"message",
	"num_files",
	"num_files_transferred",
	"submitted_at",
	"updated_at",
}

// sqliteJournal is the SQLite-backed implementation of [Journal].
type sqliteJournal struct {
	db     *sql.DB
	logger *logger.Logger
}

// NewJournal opens (or creates) the journal database at path and applies
// pending migrations. The special path ":memory:" keeps the journal for the
// lifetime of the process only.
func NewJournal(path string, log *logger.Logger) (Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}

	// sqlite handles one writer at a time
	db.SetMaxOpenConns(1)

	if err = migrations.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal db: %w", err)
	}

	log.Debug().Str("path", path).Msg("transfer journal opened")
	return &sqliteJournal{db: db, logger: log}, nil
}

// RecordTransfer implements [Journal].
func (j *sqliteJournal) RecordTransfer(ctx context.Context, rec models.TransferRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = rec.SubmittedAt
	}

	query, args, err := sq.Insert("transfers").
		Columns(transferColumns...).
		Values(rec.ID, rec.Orcid, rec.Source, rec.Destination, rec.Description,
			rec.Status, rec.Message, rec.NumFiles, rec.NumFilesTransferred,
			rec.SubmittedAt, rec.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert query: %w", err)
	}

	if _, err = j.db.ExecContext(ctx, query, args...); err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("%w: %s", ErrDuplicateTransfer, rec.ID)
		}
		return fmt.Errorf("record transfer: %w", err)
	}

	j.logger.Debug().Str("id", rec.ID).Msg("transfer journaled")
	return nil
}

// UpdateStatus implements [Journal].
func (j *sqliteJournal) UpdateStatus(ctx context.Context, id string, status models.TransferStatus) error {
	query, args, err := sq.Update("transfers").
		Set("status", status.Status).
		Set("message", status.Message).
		Set("num_files_transferred", status.NumFilesTransferred).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update query: %w", err)
	}

	res, err := j.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transfer status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", ErrTransferNotFound, id)
	}

	return nil
}

// GetTransfer implements [Journal].
func (j *sqliteJournal) GetTransfer(ctx context.Context, id string) (models.TransferRecord, error) {
	query, args, err := sq.Select(transferColumns...).
		From("transfers").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.TransferRecord{}, fmt.Errorf("build select query: %w", err)
	}

	rec, err := scanTransfer(j.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.TransferRecord{}, fmt.Errorf("%w: %s", ErrTransferNotFound, id)
	}
	if err != nil {
		return models.TransferRecord{}, fmt.Errorf("get transfer: %w", err)
	}

	return rec, nil
}

// ListTransfers implements [Journal].
func (j *sqliteJournal) ListTransfers(ctx context.Context, limit int) ([]models.TransferRecord, error) {
	builder := sq.Select(transferColumns...).
		From("transfers").
		OrderBy("submitted_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	return j.queryTransfers(ctx, builder)
}

// ActiveTransfers implements [Journal].
func (j *sqliteJournal) ActiveTransfers(ctx context.Context) ([]models.TransferRecord, error) {
	builder := sq.Select(transferColumns...).
		From("transfers").
		Where(sq.NotEq{"status": []string{
			models.TransferStatusSucceeded,
			models.TransferStatusFailed,
		}}).
		OrderBy("submitted_at DESC")

	return j.queryTransfers(ctx, builder)
}

// Close implements [Journal].
func (j *sqliteJournal) Close() error {
	return j.db.Close()
}

func (j *sqliteJournal) queryTransfers(ctx context.Context, builder sq.SelectBuilder) ([]models.TransferRecord, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select query: %w", err)
	}

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transfers: %w", err)
	}
	defer rows.Close()

	var records []models.TransferRecord
	for rows.Next() {
		rec, err := scanTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer row: %w", err)
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer rows: %w", err)
	}

	return records, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransfer(row rowScanner) (models.TransferRecord, error) {
	var rec models.TransferRecord
	err := row.Scan(
		&rec.ID,
		&rec.Orcid,
		&rec.Source,
		&rec.Destination,
		&rec.Description,
		&rec.Status,
		&rec.Message,
		&rec.NumFiles,
		&rec.NumFilesTransferred,
		&rec.SubmittedAt,
		&rec.UpdatedAt,
	)
	return rec, err
}

// Summary renders a short human-readable description of a journal row for
// CLI listings, e.g. "jdp -> kbase (10 files, active)".
func Summary(rec models.TransferRecord) string {
	return fmt.Sprintf("%s -> %s (%d files, %s)", rec.Source, rec.Destination, rec.NumFiles, rec.Status)
}
