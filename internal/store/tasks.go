package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

// CreateTask inserts a new pending task and returns it with its assigned
// ID. Title must be non-empty; priority, if set, must be one of
// ValidPriorities.
func (db *DB) CreateTask(title, description string, priority *Priority) (Task, error) {
	if title == "" {
		return Task{}, orcherr.New(orcherr.InvalidArgument, "title", errors.New("must not be empty"))
	}
	if priority != nil && !isValidPriority(*priority) {
		return Task{}, orcherr.Newf(orcherr.InvalidArgument, "priority", "unrecognized priority %q", *priority)
	}

	now := time.Now().UTC()
	task := Task{
		Title:       title,
		Description: description,
		Status:      TaskPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO tasks (title, description, status, priority, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			task.Title, task.Description, task.Status, nullablePriority(task.Priority), task.CreatedAt, task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("read inserted task id: %w", err)
		}
		task.ID = id
		return nil
	})
	return task, err
}

// GetTask loads a single task by ID.
func (db *DB) GetTask(id int64) (Task, error) {
	return getTask(db.sql, id)
}

// GetTaskTx is the transaction-scoped form of GetTask, used to validate a
// task's existence as part of a larger multi-statement transaction (batch
// completion, in particular) without opening a second transaction.
func GetTaskTx(tx *sql.Tx, id int64) (Task, error) {
	return getTask(tx, id)
}

func getTask(q queryRower, id int64) (Task, error) {
	row := q.QueryRow(`
		SELECT id, title, description, status, priority, agent_id, created_at, updated_at,
		       completion_doc_path, completion_source, auto_completed, git_commit_hash
		FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, orcherr.Newf(orcherr.NotFound, fmt.Sprint(id), "task %d not found", id)
	}
	if err != nil {
		return Task{}, fmt.Errorf("scan task %d: %w", id, err)
	}
	return task, nil
}

// ListTasks returns every task ordered by ID.
func (db *DB) ListTasks() ([]Task, error) {
	rows, err := db.sql.Query(`
		SELECT id, title, description, status, priority, agent_id, created_at, updated_at,
		       completion_doc_path, completion_source, auto_completed, git_commit_hash
		FROM tasks ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateStatus transitions a task's status. Setting TaskCompleted through
// this path does not populate completion metadata; use Complete for that.
func (db *DB) UpdateStatus(id int64, status TaskStatus) error {
	if !isValidTaskStatus(status) {
		return orcherr.Newf(orcherr.InvalidArgument, "status", "unrecognized status %q", status)
	}
	return db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
			status, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		return requireRowsAffected(res, orcherr.NotFound, fmt.Sprint(id), "task not found")
	})
}

// Assign sets a task's agent and moves it to in_progress. agentID must
// already exist.
func (db *DB) Assign(taskID int64, agentID string) error {
	return db.withTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT 1 FROM agents WHERE id = ?`, agentID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return orcherr.Newf(orcherr.NotFound, agentID, "agent %q not found", agentID)
			}
			return fmt.Errorf("check agent existence: %w", err)
		}

		now := time.Now().UTC()
		res, err := tx.Exec(`UPDATE tasks SET agent_id = ?, status = ?, updated_at = ? WHERE id = ?`,
			agentID, TaskInProgress, now, taskID)
		if err != nil {
			return fmt.Errorf("assign task: %w", err)
		}
		if err := requireRowsAffected(res, orcherr.NotFound, fmt.Sprint(taskID), "task not found"); err != nil {
			return err
		}
		_, err = tx.Exec(`UPDATE agents SET current_task = ?, status = ?, last_active = ? WHERE id = ?`,
			taskID, AgentWorking, now, agentID)
		if err != nil {
			return fmt.Errorf("update agent assignment: %w", err)
		}
		return nil
	})
}

// Complete marks a task completed, recording how completion was detected.
// Calling Complete on an already-completed task is a no-op that returns an
// AlreadyApplied error so callers (the reconciler in particular) can treat
// it as informational rather than fatal, satisfying the idempotent-
// completion invariant.
func (db *DB) Complete(taskID int64, docPath *string, source *CompletionSource, commitHash *string, autoCompleted bool) error {
	var transitioned bool
	err := db.withTx(func(tx *sql.Tx) error {
		var err error
		transitioned, err = completeTask(tx, taskID, docPath, source, commitHash, autoCompleted)
		return err
	})
	if err != nil {
		return err
	}
	if !transitioned {
		return orcherr.Newf(orcherr.AlreadyApplied, fmt.Sprint(taskID), "task %d already completed", taskID)
	}
	return nil
}

// CompleteTx is the transaction-scoped form of Complete, used when several
// completions must commit or roll back together (batch completion). Unlike
// Complete it reports an already-completed task as transitioned=false with
// a nil error rather than AlreadyApplied: a no-op record must not abort the
// rest of the transaction.
func CompleteTx(tx *sql.Tx, taskID int64, docPath *string, source *CompletionSource, commitHash *string, autoCompleted bool) (transitioned bool, err error) {
	return completeTask(tx, taskID, docPath, source, commitHash, autoCompleted)
}

func completeTask(ex execer, taskID int64, docPath *string, source *CompletionSource, commitHash *string, autoCompleted bool) (transitioned bool, err error) {
	var status TaskStatus
	if err := ex.QueryRow(`SELECT status FROM tasks WHERE id = ?`, taskID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, orcherr.Newf(orcherr.NotFound, fmt.Sprint(taskID), "task %d not found", taskID)
		}
		return false, fmt.Errorf("read task status: %w", err)
	}
	if status == TaskCompleted {
		return false, nil
	}

	now := time.Now().UTC()
	_, err = ex.Exec(`
		UPDATE tasks SET status = ?, updated_at = ?, completion_doc_path = ?,
		       completion_source = ?, auto_completed = ?, git_commit_hash = ?
		WHERE id = ?`,
		TaskCompleted, now, nullableString(docPath), nullableSource(source), autoCompleted, nullableString(commitHash), taskID)
	if err != nil {
		return false, fmt.Errorf("complete task: %w", err)
	}

	var agentID sql.NullString
	if err := ex.QueryRow(`SELECT agent_id FROM tasks WHERE id = ?`, taskID).Scan(&agentID); err != nil {
		return false, fmt.Errorf("read task agent: %w", err)
	}
	if agentID.Valid {
		if err := freeAgent(ex, agentID.String); err != nil {
			return false, err
		}
	}
	return true, nil
}

// AddDependency records that taskID depends on dependsOnID, rejecting the
// edge with a Conflict error if it would close a cycle (DFS over the
// existing edge set plus the candidate edge).
func (db *DB) AddDependency(taskID, dependsOnID int64) error {
	if taskID == dependsOnID {
		return orcherr.Newf(orcherr.Conflict, fmt.Sprint(taskID), "task %d cannot depend on itself", taskID)
	}
	return db.withTx(func(tx *sql.Tx) error {
		for _, id := range []int64{taskID, dependsOnID} {
			var exists int
			if err := tx.QueryRow(`SELECT 1 FROM tasks WHERE id = ?`, id).Scan(&exists); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return orcherr.Newf(orcherr.NotFound, fmt.Sprint(id), "task %d not found", id)
				}
				return fmt.Errorf("check task existence: %w", err)
			}
		}

		edges, err := loadDependencyEdges(tx)
		if err != nil {
			return err
		}
		edges[taskID] = append(edges[taskID], dependsOnID)
		if cyclic(edges, taskID) {
			return orcherr.Newf(orcherr.Conflict, fmt.Sprint(taskID), "dependency from %d to %d would close a cycle", taskID, dependsOnID)
		}

		_, err = tx.Exec(`INSERT OR IGNORE INTO task_dependencies (task_id, depends_on_id) VALUES (?, ?)`, taskID, dependsOnID)
		if err != nil {
			return fmt.Errorf("insert dependency: %w", err)
		}
		return nil
	})
}

// Dependencies returns the IDs of tasks taskID directly depends on.
func (db *DB) Dependencies(taskID int64) ([]int64, error) {
	rows, err := db.sql.Query(`SELECT depends_on_id FROM task_dependencies WHERE task_id = ?`, taskID)
	if err != nil {
		return nil, fmt.Errorf("query dependencies: %w", err)
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

// IsBlocked reports whether taskID has at least one dependency that is not
// yet completed, the "blocked" transient label from spec §3.
func (db *DB) IsBlocked(taskID int64) (bool, error) {
	var count int
	err := db.sql.QueryRow(`
		SELECT COUNT(*) FROM task_dependencies td
		JOIN tasks dep ON dep.id = td.depends_on_id
		WHERE td.task_id = ? AND dep.status != ?`, taskID, TaskCompleted).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check blocked: %w", err)
	}
	return count > 0, nil
}

func loadDependencyEdges(tx *sql.Tx) (map[int64][]int64, error) {
	rows, err := tx.Query(`SELECT task_id, depends_on_id FROM task_dependencies`)
	if err != nil {
		return nil, fmt.Errorf("load dependency edges: %w", err)
	}
	defer rows.Close()

	edges := make(map[int64][]int64)
	for rows.Next() {
		var from, to int64
		if err := rows.Scan(&from, &to); err != nil {
			return nil, err
		}
		edges[from] = append(edges[from], to)
	}
	return edges, rows.Err()
}

// cyclic reports whether a cycle is reachable from start by DFS.
func cyclic(edges map[int64][]int64, start int64) bool {
	visited := make(map[int64]bool)
	var visit func(node int64, stack map[int64]bool) bool
	visit = func(node int64, stack map[int64]bool) bool {
		if stack[node] {
			return true
		}
		if visited[node] {
			return false
		}
		visited[node] = true
		stack[node] = true
		for _, next := range edges[node] {
			if visit(next, stack) {
				return true
			}
		}
		stack[node] = false
		return false
	}
	return visit(start, make(map[int64]bool))
}

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	var priority, agentID, docPath, source, commitHash sql.NullString
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Status, &priority, &agentID, &t.CreatedAt, &t.UpdatedAt,
		&docPath, &source, &t.AutoCompleted, &commitHash)
	if err != nil {
		return Task{}, err
	}
	if priority.Valid {
		p := Priority(priority.String)
		t.Priority = &p
	}
	if agentID.Valid {
		t.Agent = &agentID.String
	}
	if docPath.Valid {
		t.CompletionDocPath = &docPath.String
	}
	if source.Valid {
		s := CompletionSource(source.String)
		t.CompletionSource = &s
	}
	if commitHash.Valid {
		t.GitCommitHash = &commitHash.String
	}
	return t, nil
}

func requireRowsAffected(res sql.Result, kind orcherr.Kind, subject, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if n == 0 {
		return orcherr.New(kind, subject, errors.New(msg))
	}
	return nil
}

func isValidTaskStatus(s TaskStatus) bool {
	for _, v := range ValidTaskStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func isValidPriority(p Priority) bool {
	for _, v := range ValidPriorities {
		if v == p {
			return true
		}
	}
	return false
}

func nullablePriority(p *Priority) any {
	if p == nil {
		return nil
	}
	return string(*p)
}

func nullableSource(s *CompletionSource) any {
	if s == nil {
		return nil
	}
	return string(*s)
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
