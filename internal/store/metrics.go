package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RefreshMetrics recomputes agentID's rollup from tasks and writes it to
// the agent_metrics cache, grounded on the teacher's internal/memory/
// metrics.go recompute-on-read shape. AvgCompletionHours is the mean of
// (updated_at - created_at) across that agent's completed tasks.
func (db *DB) RefreshMetrics(agentID string) (AgentMetrics, error) {
	var m AgentMetrics
	err := db.withTx(func(tx *sql.Tx) error {
		m.AgentID = agentID
		m.LastRefresh = time.Now().UTC()

		if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE agent_id = ?`, agentID).Scan(&m.Total); err != nil {
			return fmt.Errorf("count total tasks: %w", err)
		}
		if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE agent_id = ? AND status = ?`, agentID, TaskCompleted).Scan(&m.Completed); err != nil {
			return fmt.Errorf("count completed tasks: %w", err)
		}
		if err := tx.QueryRow(`
			SELECT COUNT(*) FROM activity_events WHERE agent_id = ? AND type = ?`,
			agentID, ActivityAgentError).Scan(&m.Failed); err != nil {
			return fmt.Errorf("count failures: %w", err)
		}

		rows, err := tx.Query(`SELECT created_at, updated_at FROM tasks WHERE agent_id = ? AND status = ?`, agentID, TaskCompleted)
		if err != nil {
			return fmt.Errorf("load completed task timestamps: %w", err)
		}
		defer rows.Close()

		var totalHours float64
		var n int
		for rows.Next() {
			var created, updated time.Time
			if err := rows.Scan(&created, &updated); err != nil {
				return err
			}
			totalHours += updated.Sub(created).Hours()
			n++
		}
		if err := rows.Err(); err != nil {
			return err
		}
		if n > 0 {
			m.AvgCompletionHours = totalHours / float64(n)
		}

		_, err = tx.Exec(`
			INSERT INTO agent_metrics (agent_id, total, completed, failed, avg_completion_hours, last_refresh)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(agent_id) DO UPDATE SET
				total = excluded.total, completed = excluded.completed, failed = excluded.failed,
				avg_completion_hours = excluded.avg_completion_hours, last_refresh = excluded.last_refresh`,
			m.AgentID, m.Total, m.Completed, m.Failed, m.AvgCompletionHours, m.LastRefresh)
		if err != nil {
			return fmt.Errorf("upsert agent metrics: %w", err)
		}
		return nil
	})
	return m, err
}

// Metrics returns the cached rollup for agentID, refreshing it first if
// the cache row does not yet exist.
func (db *DB) Metrics(agentID string) (AgentMetrics, error) {
	row := db.sql.QueryRow(`
		SELECT agent_id, total, completed, failed, avg_completion_hours, last_refresh
		FROM agent_metrics WHERE agent_id = ?`, agentID)

	var m AgentMetrics
	err := row.Scan(&m.AgentID, &m.Total, &m.Completed, &m.Failed, &m.AvgCompletionHours, &m.LastRefresh)
	if errors.Is(err, sql.ErrNoRows) {
		return db.RefreshMetrics(agentID)
	}
	if err != nil {
		return AgentMetrics{}, fmt.Errorf("scan agent metrics: %w", err)
	}
	return m, nil
}
