package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"engezna/internal/model"
)

// CreateImportRun records a new run in processing state
func (s *Store) CreateImportRun(run model.ImportRun) error {
	if run.Status == "" {
		run.Status = model.ImportProcessing
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`
		INSERT INTO import_runs (id, filename, file_size, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Filename, run.FileSize, string(run.Status), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create import run: %w", err)
	}
	return nil
}

// CompleteImportRun stores the final counts and status of a run
func (s *Store) CompleteImportRun(run model.ImportRun) error {
	completed := time.Now().UTC()
	if run.CompletedAt != nil {
		completed = *run.CompletedAt
	}
	res, err := s.db.Exec(`
		UPDATE import_runs SET
			status = ?,
			total_sheets = ?,
			used_sheets = ?,
			total_products = ?,
			warning_count = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, string(run.Status), run.TotalSheets, run.UsedSheets, run.TotalProducts, run.WarningCount, run.ErrorMessage, completed, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("import run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

const importRunColumns = `id, filename, file_size, status, total_sheets, used_sheets,
	total_products, warning_count, error_message, created_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportRun(row rowScanner) (model.ImportRun, error) {
	var (
		run       model.ImportRun
		status    string
		completed sql.NullTime
	)
	err := row.Scan(
		&run.ID, &run.Filename, &run.FileSize, &status,
		&run.TotalSheets, &run.UsedSheets, &run.TotalProducts, &run.WarningCount,
		&run.ErrorMessage, &run.CreatedAt, &completed,
	)
	if err != nil {
		return model.ImportRun{}, err
	}
	run.Status = model.ImportStatus(status)
	if completed.Valid {
		t := completed.Time
		run.CompletedAt = &t
	}
	return run, nil
}

// GetImportRun loads one run
func (s *Store) GetImportRun(id string) (model.ImportRun, error) {
	row := s.db.QueryRow(`SELECT `+importRunColumns+` FROM import_runs WHERE id = ?`, id)
	run, err := scanImportRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ImportRun{}, fmt.Errorf("import run %s: %w", id, ErrNotFound)
		}
		return model.ImportRun{}, fmt.Errorf("failed to load import run: %w", err)
	}
	return run, nil
}

// ListImportRuns newest runs first
func (s *Store) ListImportRuns(limit int) ([]model.ImportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`SELECT `+importRunColumns+` FROM import_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import runs: %w", err)
	}
	defer rows.Close()

	runs := []model.ImportRun{}
	for rows.Next() {
		run, err := scanImportRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
