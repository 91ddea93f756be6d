package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordEvent appends an activity-log row. taskID/agentID may be nil for
// events not tied to either (a process-level milestone, for instance).
func (db *DB) RecordEvent(typ ActivityEventType, taskID *int64, agentID *string, message string) (ActivityEvent, error) {
	var event ActivityEvent
	err := db.withTx(func(tx *sql.Tx) error {
		var err error
		event, err = recordEvent(tx, typ, taskID, agentID, message)
		return err
	})
	return event, err
}

// RecordEventTx is the transaction-scoped form of RecordEvent, used so a
// batch of completions and the activity events they generate commit
// together rather than each opening its own transaction.
func RecordEventTx(tx *sql.Tx, typ ActivityEventType, taskID *int64, agentID *string, message string) (ActivityEvent, error) {
	return recordEvent(tx, typ, taskID, agentID, message)
}

func recordEvent(ex execer, typ ActivityEventType, taskID *int64, agentID *string, message string) (ActivityEvent, error) {
	event := ActivityEvent{Type: typ, TaskID: taskID, AgentID: agentID, Message: message, CreatedAt: time.Now().UTC()}
	res, err := ex.Exec(`INSERT INTO activity_events (type, task_id, agent_id, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		event.Type, nullableInt64(event.TaskID), nullableString(event.AgentID), event.Message, event.CreatedAt)
	if err != nil {
		return ActivityEvent{}, fmt.Errorf("insert activity event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ActivityEvent{}, err
	}
	event.ID = id
	return event, nil
}

// RecentEvents returns the most recent limit activity-log rows, newest
// first, used by the dashboard's activity feed pane and the snapshot read.
func (db *DB) RecentEvents(limit int) ([]ActivityEvent, error) {
	rows, err := db.sql.Query(`
		SELECT id, type, task_id, agent_id, message, created_at
		FROM activity_events ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	var events []ActivityEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func scanEvent(row interface{ Scan(...any) error }) (ActivityEvent, error) {
	var e ActivityEvent
	var taskID sql.NullInt64
	var agentID sql.NullString
	if err := row.Scan(&e.ID, &e.Type, &taskID, &agentID, &e.Message, &e.CreatedAt); err != nil {
		return ActivityEvent{}, err
	}
	if taskID.Valid {
		e.TaskID = &taskID.Int64
	}
	if agentID.Valid {
		e.AgentID = &agentID.String
	}
	return e, nil
}

func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
