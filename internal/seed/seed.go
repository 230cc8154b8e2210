package seed

import (
	"context"
	"database/sql"
	"fmt"
)

// DefaultGrades are the reference steel grades loaded on first start.
var DefaultGrades = []Grade{
	{Name: "1018 Cold Rolled", CostPerPound: 0.85, Notes: "general purpose round bar"},
	{Name: "1045 Carbon", CostPerPound: 0.95, Notes: "medium carbon, shafts"},
	{Name: "4140 Alloy", CostPerPound: 1.45, Notes: "pre-hardened"},
	{Name: "A36 Hot Rolled", CostPerPound: 0.62, Notes: "structural"},
	{Name: "304 Stainless", CostPerPound: 3.10, Notes: ""},
}

// Grade is a seed row for the steel_grades table.
type Grade struct {
	Name         string
	CostPerPound float64
	Notes        string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way. Existing grades are
// left untouched so edited prices survive a restart.
func Run(ctx context.Context, db *sql.DB, grades []Grade) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, g := range grades {
		if err := ensureGrade(ctx, tx, g, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureGrade(ctx context.Context, tx *sql.Tx, g Grade, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM steel_grades WHERE name = ? LIMIT 1)`, g.Name).Scan(&exists); err != nil {
		return fmt.Errorf("check steel grade %q existence: %w", g.Name, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO steel_grades (name, cost_per_pound, notes, active)
		VALUES (?, ?, ?, ?)
	`, g.Name, g.CostPerPound, g.Notes, true); err != nil {
		return fmt.Errorf("insert steel grade %q: %w", g.Name, err)
	}
	stats.Inserts++
	return nil
}
