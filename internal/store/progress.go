package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

// ReportProgress appends a progress row. percent must be in [0, 100];
// out-of-range values fail with InvalidArgument per spec §4.1.
func (db *DB) ReportProgress(agentID string, taskID int64, percent int, message string) (AgentProgress, error) {
	if percent < 0 || percent > 100 {
		return AgentProgress{}, orcherr.Newf(orcherr.InvalidArgument, "percent", "percent %d out of range [0, 100]", percent)
	}

	p := AgentProgress{AgentID: agentID, TaskID: taskID, Percent: percent, Message: message, Timestamp: time.Now().UTC()}
	err := db.withTx(func(tx *sql.Tx) error {
		for _, check := range []struct {
			table, id, subject string
		}{{"agents", agentID, agentID}, {"tasks", fmt.Sprint(taskID), fmt.Sprint(taskID)}} {
			var exists int
			err := tx.QueryRow(fmt.Sprintf(`SELECT 1 FROM %s WHERE id = ?`, check.table), check.id).Scan(&exists)
			if errors.Is(err, sql.ErrNoRows) {
				return orcherr.Newf(orcherr.NotFound, check.subject, "%s %q not found", check.table, check.subject)
			}
			if err != nil {
				return fmt.Errorf("check %s existence: %w", check.table, err)
			}
		}

		res, err := tx.Exec(`INSERT INTO agent_progress (agent_id, task_id, percent, message, timestamp) VALUES (?, ?, ?, ?, ?)`,
			p.AgentID, p.TaskID, p.Percent, p.Message, p.Timestamp)
		if err != nil {
			return fmt.Errorf("insert progress: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted progress id: %w", err)
		}
		p.ID = id

		_, err = tx.Exec(`UPDATE agents SET last_active = ? WHERE id = ?`, p.Timestamp, agentID)
		return err
	})
	return p, err
}

// TaskProgress returns every progress row reported against taskID, oldest
// first, the read side of ReportProgress spec §8 scenario 4 exercises
// directly: three reports in, task_progress(37) must return all three in
// ascending timestamp order.
func (db *DB) TaskProgress(taskID int64) ([]AgentProgress, error) {
	rows, err := db.sql.Query(`
		SELECT id, agent_id, task_id, percent, message, timestamp
		FROM agent_progress WHERE task_id = ? ORDER BY timestamp ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query task progress: %w", err)
	}
	defer rows.Close()

	var reports []AgentProgress
	for rows.Next() {
		var p AgentProgress
		if err := rows.Scan(&p.ID, &p.AgentID, &p.TaskID, &p.Percent, &p.Message, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan task progress row: %w", err)
		}
		reports = append(reports, p)
	}
	return reports, rows.Err()
}

// LatestProgress returns the most recent progress row for agentID, or a
// NotFound error if the agent has never reported.
func (db *DB) LatestProgress(agentID string) (AgentProgress, error) {
	row := db.sql.QueryRow(`
		SELECT id, agent_id, task_id, percent, message, timestamp
		FROM agent_progress WHERE agent_id = ? ORDER BY timestamp DESC LIMIT 1`, agentID)

	var p AgentProgress
	err := row.Scan(&p.ID, &p.AgentID, &p.TaskID, &p.Percent, &p.Message, &p.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return AgentProgress{}, orcherr.Newf(orcherr.NotFound, agentID, "no progress reported for agent %q", agentID)
	}
	if err != nil {
		return AgentProgress{}, fmt.Errorf("scan latest progress: %w", err)
	}
	return p, nil
}

// CleanupProgress deletes progress rows older than the cutoff, returning
// the number removed. Grounded on the teacher's periodic GC sweep
// (internal/server/cleanup.go). No housekeeping loop calls it, so the
// horizon configured in sync.progress_horizon_days is not applied
// automatically.
func (db *DB) CleanupProgress(olderThan time.Time) (int64, error) {
	var removed int64
	err := db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM agent_progress WHERE timestamp < ?`, olderThan)
		if err != nil {
			return fmt.Errorf("delete stale progress: %w", err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	return removed, err
}
