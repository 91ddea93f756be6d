package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

// CreateSprint registers an explicit sprint bucket, used by the timeline
// component when the caller wants named sprints instead of inferred weekly
// buckets (spec §4.5).
func (db *DB) CreateSprint(s Sprint) (Sprint, error) {
	if s.Number <= 0 {
		return Sprint{}, orcherr.New(orcherr.InvalidArgument, "number", errors.New("sprint number must be positive"))
	}
	if !s.End.After(s.Start) {
		return Sprint{}, orcherr.New(orcherr.InvalidArgument, "end", errors.New("sprint end must be after start"))
	}
	err := db.withTx(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO sprints (number, start, end, goal) VALUES (?, ?, ?, ?)`, s.Number, s.Start, s.End, s.Goal)
		if err != nil {
			return fmt.Errorf("insert sprint: %w", err)
		}
		return nil
	})
	return s, err
}

// AssignTaskToSprint associates taskID with sprintNumber.
func (db *DB) AssignTaskToSprint(sprintNumber int, taskID int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT 1 FROM sprints WHERE number = ?`, sprintNumber).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return orcherr.Newf(orcherr.NotFound, fmt.Sprint(sprintNumber), "sprint %d not found", sprintNumber)
			}
			return fmt.Errorf("check sprint existence: %w", err)
		}
		_, err := tx.Exec(`INSERT OR IGNORE INTO sprint_tasks (sprint_number, task_id) VALUES (?, ?)`, sprintNumber, taskID)
		if err != nil {
			return fmt.Errorf("assign task to sprint: %w", err)
		}
		return nil
	})
}

// ListSprints returns every sprint ordered by number.
func (db *DB) ListSprints() ([]Sprint, error) {
	rows, err := db.sql.Query(`SELECT number, start, end, goal FROM sprints ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("list sprints: %w", err)
	}
	defer rows.Close()

	var sprints []Sprint
	for rows.Next() {
		var s Sprint
		if err := rows.Scan(&s.Number, &s.Start, &s.End, &s.Goal); err != nil {
			return nil, err
		}
		sprints = append(sprints, s)
	}
	return sprints, rows.Err()
}

// SprintTasks returns the IDs of tasks assigned to sprintNumber.
func (db *DB) SprintTasks(sprintNumber int) ([]int64, error) {
	rows, err := db.sql.Query(`SELECT task_id FROM sprint_tasks WHERE sprint_number = ?`, sprintNumber)
	if err != nil {
		return nil, fmt.Errorf("list sprint tasks: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
