// Package catalog stores reference steel grades and their cost per pound.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrNotFound is returned when a grade id does not exist.
	ErrNotFound = errors.New("steel grade not found")
	// ErrInvalidGrade is returned when a grade fails validation.
	ErrInvalidGrade = errors.New("invalid steel grade")
)

// Grade is a steel grade with its reference cost per pound.
type Grade struct {
	ID           int64
	Name         string
	CostPerPound float64
	Notes        string
	Active       bool
}

// Validate trims text fields and checks required values.
func (g *Grade) Validate() error {
	g.Name = strings.TrimSpace(g.Name)
	g.Notes = strings.TrimSpace(g.Notes)
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidGrade)
	}
	if math.IsNaN(g.CostPerPound) || math.IsInf(g.CostPerPound, 0) {
		return fmt.Errorf("%w: cost_per_pound must be a finite number", ErrInvalidGrade)
	}
	if g.CostPerPound < 0 {
		return fmt.Errorf("%w: cost_per_pound must be >= 0", ErrInvalidGrade)
	}
	return nil
}

// Store reads and writes steel grades.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store backed by db.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// List returns grades ordered by name.
func (s *Store) List(ctx context.Context, activeOnly bool) ([]Grade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cost_per_pound, COALESCE(notes, ''), active
		FROM steel_grades
		WHERE (? = FALSE OR active = TRUE)
		ORDER BY name COLLATE NOCASE, id
	`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("query steel grades: %w", err)
	}
	defer rows.Close()

	grades := make([]Grade, 0)
	for rows.Next() {
		var g Grade
		if err := rows.Scan(&g.ID, &g.Name, &g.CostPerPound, &g.Notes, &g.Active); err != nil {
			return nil, fmt.Errorf("scan steel grade: %w", err)
		}
		grades = append(grades, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate steel grades: %w", err)
	}

	return grades, nil
}

// Get returns one grade by id.
func (s *Store) Get(ctx context.Context, id int64) (Grade, error) {
	var g Grade
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cost_per_pound, COALESCE(notes, ''), active
		FROM steel_grades
		WHERE id = ?
	`, id).Scan(&g.ID, &g.Name, &g.CostPerPound, &g.Notes, &g.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return Grade{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	if err != nil {
		return Grade{}, fmt.Errorf("query steel grade: %w", err)
	}
	return g, nil
}

// Create inserts a grade and returns it with its id.
func (s *Store) Create(ctx context.Context, g Grade) (Grade, error) {
	if err := g.Validate(); err != nil {
		return Grade{}, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO steel_grades (name, cost_per_pound, notes, active)
		VALUES (?, ?, ?, ?)
	`, g.Name, g.CostPerPound, g.Notes, g.Active)
	if err != nil {
		return Grade{}, fmt.Errorf("insert steel grade: %w", err)
	}

	g.ID, err = result.LastInsertId()
	if err != nil {
		return Grade{}, fmt.Errorf("read steel grade id: %w", err)
	}
	return g, nil
}

// Update overwrites the grade with g.ID.
func (s *Store) Update(ctx context.Context, g Grade) error {
	if err := g.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE steel_grades
		SET
			name = ?,
			cost_per_pound = ?,
			notes = ?,
			active = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, g.Name, g.CostPerPound, g.Notes, g.Active, g.ID)
	if err != nil {
		return fmt.Errorf("update steel grade: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update steel grade: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrNotFound, g.ID)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Upsert inserts g or, when a grade with the same name exists, updates its
// cost and notes. It reports whether a row was inserted.
func (s *Store) Upsert(ctx context.Context, g Grade) (bool, error) {
	return upsert(ctx, s.db, g)
}

func upsert(ctx context.Context, db execer, g Grade) (bool, error) {
	if err := g.Validate(); err != nil {
		return false, err
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM steel_grades WHERE name = ? LIMIT 1)`, g.Name).Scan(&exists); err != nil {
		return false, fmt.Errorf("check steel grade existence: %w", err)
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO steel_grades (name, cost_per_pound, notes, active)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT(name) DO UPDATE SET
			cost_per_pound = excluded.cost_per_pound,
			notes = excluded.notes,
			active = TRUE,
			updated_at = CURRENT_TIMESTAMP
	`, g.Name, g.CostPerPound, g.Notes); err != nil {
		return false, fmt.Errorf("upsert steel grade: %w", err)
	}
	return !exists, nil
}
