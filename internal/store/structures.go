package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/jdsort/internal/model"
)

// StructureSummary is a lightweight listing entry.
type StructureSummary struct {
	ID         string
	Name       string
	RootPath   string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// SaveStructure inserts or replaces a structure. A missing ID is generated and
// missing timestamps are set to now; both are written back into structure.
func (s *Store) SaveStructure(ctx context.Context, structure *model.Structure) error {
	if structure == nil {
		return errors.New("save structure: nil structure")
	}
	if structure.ID == "" {
		structure.ID = uuid.NewString()
	}
	now := s.now()
	if structure.CreatedAt.IsZero() {
		structure.CreatedAt = now
	}
	if structure.ModifiedAt.IsZero() {
		structure.ModifiedAt = now
	}

	data, err := json.Marshal(structure)
	if err != nil {
		return fmt.Errorf("marshal structure: %w", err)
	}

	_, err = s.execWithRetry(ctx,
		`INSERT INTO structures (id, name, root_path, data, created_at, modified_at)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            root_path = excluded.root_path,
            data = excluded.data,
            modified_at = excluded.modified_at`,
		structure.ID,
		structure.Name,
		structure.RootPath,
		string(data),
		formatTime(structure.CreatedAt),
		formatTime(structure.ModifiedAt),
	)
	if err != nil {
		return fmt.Errorf("save structure %s: %w", structure.ID, err)
	}
	return nil
}

// LoadStructure returns the structure with the given ID or ErrNotFound.
func (s *Store) LoadStructure(ctx context.Context, id string) (*model.Structure, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM structures WHERE id = ?", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load structure %s: %w", id, err)
	}

	var structure model.Structure
	if err := json.Unmarshal([]byte(data), &structure); err != nil {
		return nil, fmt.Errorf("decode structure %s: %w", id, err)
	}
	return &structure, nil
}

// ListStructures returns every stored structure, most recently modified first.
func (s *Store) ListStructures(ctx context.Context) ([]StructureSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, root_path, created_at, modified_at
         FROM structures
         ORDER BY modified_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list structures: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var summaries []StructureSummary
	for rows.Next() {
		var (
			summary           StructureSummary
			created, modified string
		)
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.RootPath, &created, &modified); err != nil {
			return nil, fmt.Errorf("scan structure row: %w", err)
		}
		if summary.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if summary.ModifiedAt, err = parseTime(modified); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate structures: %w", err)
	}
	return summaries, nil
}

// DeleteStructure removes a structure and its assignments.
func (s *Store) DeleteStructure(ctx context.Context, id string) error {
	res, err := s.execWithRetry(ctx, "DELETE FROM structures WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete structure %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete structure %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("structure %s: %w", id, ErrNotFound)
	}
	return nil
}
