package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ppiankov/jdsort/internal/model"
)

// AssignmentRecord is a stored placement of one file.
type AssignmentRecord struct {
	FilePath    string           `json:"file_path" yaml:"file_path"`
	StructureID string           `json:"structure_id" yaml:"structure_id"`
	Assignment  model.Assignment `json:"assignment" yaml:"assignment"`
	AssignedAt  time.Time        `json:"assigned_at" yaml:"assigned_at"`
}

// SaveAssignment records where a file was placed, replacing any earlier placement.
func (s *Store) SaveAssignment(ctx context.Context, structureID, filePath string, assignment model.Assignment) error {
	data, err := json.Marshal(assignment)
	if err != nil {
		return fmt.Errorf("marshal assignment: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO assignments (file_path, structure_id, data, assigned_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(file_path) DO UPDATE SET
            structure_id = excluded.structure_id,
            data = excluded.data,
            assigned_at = excluded.assigned_at`,
		filePath,
		structureID,
		string(data),
		formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("save assignment for %s: %w", filePath, err)
	}
	return nil
}

// LoadAssignment returns the placement recorded for filePath or ErrNotFound.
func (s *Store) LoadAssignment(ctx context.Context, filePath string) (*AssignmentRecord, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT file_path, structure_id, data, assigned_at FROM assignments WHERE file_path = ?",
		filePath)
	record, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assignment for %s: %w", filePath, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load assignment for %s: %w", filePath, err)
	}
	return record, nil
}

// ListAssignments returns the placements recorded against a structure, ordered by path.
func (s *Store) ListAssignments(ctx context.Context, structureID string) ([]AssignmentRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT file_path, structure_id, data, assigned_at
         FROM assignments WHERE structure_id = ? ORDER BY file_path`,
		structureID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []AssignmentRecord
	for rows.Next() {
		record, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment row: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assignments: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssignment(row rowScanner) (*AssignmentRecord, error) {
	var (
		record     AssignmentRecord
		data       string
		assignedAt string
	)
	if err := row.Scan(&record.FilePath, &record.StructureID, &data, &assignedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &record.Assignment); err != nil {
		return nil, fmt.Errorf("decode assignment: %w", err)
	}
	t, err := parseTime(assignedAt)
	if err != nil {
		return nil, err
	}
	record.AssignedAt = t
	return &record, nil
}
