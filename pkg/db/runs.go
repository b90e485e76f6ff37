package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtnitsch/wordrank/models"
	"github.com/google/uuid"
)

const timeLayout = "2006-01-02 15:04:05.000000000"

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrAmbiguousRun = errors.New("run id prefix matches more than one run")
)

// InsertRun stores run. RunID and CreatedAt are filled in when empty.
func (db *DB) InsertRun(run *models.Run) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO runs (run_id, created_at, source, source_ref, n,
		                  total_tokens, distinct_tokens, returned, content_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.RunID, run.CreatedAt.UTC().Format(timeLayout), run.Source, nullString(run.SourceRef), run.N,
		run.TotalTokens, run.DistinctTokens, run.Returned, run.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

const runColumns = `run_id, created_at, source, source_ref, n,
       total_tokens, distinct_tokens, returned, content_hash`

// ListRuns returns runs ordered by most recent first. limit <= 0 means all.
func (db *DB) ListRuns(limit int) ([]models.Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, run_id`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// GetRun looks a run up by its full ID or by a unique ID prefix.
func (db *DB) GetRun(idOrPrefix string) (*models.Run, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, ErrRunNotFound
	}

	rows, err := db.Query(`SELECT `+runColumns+` FROM runs WHERE run_id = ? OR run_id LIKE ? ESCAPE '\' LIMIT 2`,
		idOrPrefix, escapeLike(idOrPrefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	defer rows.Close()

	var found []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run.RunID == idOrPrefix {
			return run, nil
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, idOrPrefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousRun, idOrPrefix)
	}
}

// PruneRuns deletes runs created before cutoff and returns how many were removed.
func (db *DB) PruneRuns(cutoff time.Time) (int64, error) {
	result, err := db.Exec(`DELETE FROM runs WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned runs: %w", err)
	}
	return deleted, nil
}

// CountRuns returns the number of journal rows.
func (db *DB) CountRuns() (int, error) {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM runs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count runs: %w", err)
	}
	return count, nil
}

func scanRun(rows *sql.Rows) (*models.Run, error) {
	var (
		run       models.Run
		createdAt string
		sourceRef sql.NullString
	)
	if err := rows.Scan(&run.RunID, &createdAt, &run.Source, &sourceRef, &run.N,
		&run.TotalTokens, &run.DistinctTokens, &run.Returned, &run.ContentHash); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	ts, err := time.ParseInLocation(timeLayout, createdAt, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	run.CreatedAt = ts
	if sourceRef.Valid {
		run.SourceRef = sourceRef.String
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
