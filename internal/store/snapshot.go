package store

import (
	"database/sql"
	"fmt"
	"time"
)

// TakeSnapshot reads agents, tasks, each agent's latest progress, and the
// most recent activity events inside a single transaction, so the
// dashboard render loop never observes a half-applied mutation (spec
// §4.3.4 step 1, grounded on the teacher's hub broadcast snapshotting in
// internal/server/hub.go).
func (db *DB) TakeSnapshot(recentEventLimit int) (Snapshot, error) {
	snap := Snapshot{
		LatestProgress: make(map[string]AgentProgress),
		Dependencies:   make(map[int64][]int64),
		TakenAt:        time.Now().UTC(),
	}

	err := db.withTx(func(tx *sql.Tx) error {
		agentRows, err := tx.Query(`SELECT id, name, status, current_task, last_active FROM agents ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query agents: %w", err)
		}
		defer agentRows.Close()
		for agentRows.Next() {
			a, err := scanAgent(agentRows)
			if err != nil {
				return err
			}
			snap.Agents = append(snap.Agents, a)
		}
		if err := agentRows.Err(); err != nil {
			return err
		}

		taskRows, err := tx.Query(`
			SELECT id, title, description, status, priority, agent_id, created_at, updated_at,
			       completion_doc_path, completion_source, auto_completed, git_commit_hash
			FROM tasks ORDER BY id`)
		if err != nil {
			return fmt.Errorf("query tasks: %w", err)
		}
		defer taskRows.Close()
		for taskRows.Next() {
			t, err := scanTask(taskRows)
			if err != nil {
				return err
			}
			snap.Tasks = append(snap.Tasks, t)
		}
		if err := taskRows.Err(); err != nil {
			return err
		}

		for _, a := range snap.Agents {
			row := tx.QueryRow(`
				SELECT id, agent_id, task_id, percent, message, timestamp
				FROM agent_progress WHERE agent_id = ? ORDER BY timestamp DESC LIMIT 1`, a.ID)
			var p AgentProgress
			err := row.Scan(&p.ID, &p.AgentID, &p.TaskID, &p.Percent, &p.Message, &p.Timestamp)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return fmt.Errorf("query latest progress for %q: %w", a.ID, err)
			}
			snap.LatestProgress[a.ID] = p
		}

		depRows, err := tx.Query(`SELECT task_id, depends_on_id FROM task_dependencies`)
		if err != nil {
			return fmt.Errorf("query dependencies: %w", err)
		}
		defer depRows.Close()
		for depRows.Next() {
			var from, to int64
			if err := depRows.Scan(&from, &to); err != nil {
				return err
			}
			snap.Dependencies[from] = append(snap.Dependencies[from], to)
		}
		if err := depRows.Err(); err != nil {
			return err
		}

		eventRows, err := tx.Query(`
			SELECT id, type, task_id, agent_id, message, created_at
			FROM activity_events ORDER BY created_at DESC, id DESC LIMIT ?`, recentEventLimit)
		if err != nil {
			return fmt.Errorf("query recent events: %w", err)
		}
		defer eventRows.Close()
		for eventRows.Next() {
			e, err := scanEvent(eventRows)
			if err != nil {
				return err
			}
			snap.RecentEvents = append(snap.RecentEvents, e)
		}
		return eventRows.Err()
	})
	return snap, err
}
