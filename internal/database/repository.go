package database

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/protoscore/internal/analysis"
)

// Repository reads and writes the benchmark corpus table
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// LoadBenchmarkRecords returns every stored record in insertion order
func (r *Repository) LoadBenchmarkRecords(ctx context.Context) ([]analysis.BenchmarkRecord, error) {
	stmt, err := r.db.GetPreparedStatement("list_benchmark_protocols")
	if err != nil {
		return nil, err
	}

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmark protocols: %w", err)
	}
	defer rows.Close()

	var records []analysis.BenchmarkRecord
	for rows.Next() {
		var (
			rec       analysis.BenchmarkRecord
			studyType string
			phase     int
		)
		if err := rows.Scan(&rec.ID, &studyType, &phase, &rec.FinalPCSScore); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark protocol: %w", err)
		}
		rec.StudyType = analysis.StudyType(studyType)
		rec.Phase = analysis.Phase(phase)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate benchmark protocols: %w", err)
	}

	return records, nil
}

// LoadCorpus reads and freezes the stored corpus
func (r *Repository) LoadCorpus(ctx context.Context) (*analysis.Corpus, error) {
	records, err := r.LoadBenchmarkRecords(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("benchmark_protocols table is empty")
	}
	return analysis.FreezeRecords(records)
}

// CountBenchmarkRecords returns the number of stored records
func (r *Repository) CountBenchmarkRecords(ctx context.Context) (int, error) {
	stmt, err := r.db.GetPreparedStatement("count_benchmark_protocols")
	if err != nil {
		return 0, err
	}

	var n int
	if err := stmt.QueryRowContext(ctx).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count benchmark protocols: %w", err)
	}
	return n, nil
}

// ReplaceBenchmarkRecords swaps the stored corpus for records in one
// transaction. Records are validated first so a bad seed never lands.
func (r *Repository) ReplaceBenchmarkRecords(ctx context.Context, records []analysis.BenchmarkRecord) error {
	if err := analysis.ValidateRecords(records); err != nil {
		return fmt.Errorf("invalid benchmark records: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM benchmark_protocols`); err != nil {
		return fmt.Errorf("failed to clear benchmark protocols: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO benchmark_protocols (position, protocol_id, study_type, phase, final_pcs_score)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.ID, string(rec.StudyType), int(rec.Phase), rec.FinalPCSScore); err != nil {
			return fmt.Errorf("failed to insert benchmark protocol %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit benchmark protocols: %w", err)
	}
	return nil
}
