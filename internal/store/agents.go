package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

// CreateAgent registers a new agent, idle by default. id must be unique.
func (db *DB) CreateAgent(id, name string) (Agent, error) {
	if id == "" {
		return Agent{}, orcherr.New(orcherr.InvalidArgument, "id", errors.New("must not be empty"))
	}
	agent := Agent{ID: id, Name: name, Status: AgentIdle, LastActive: time.Now().UTC()}

	err := db.withTx(func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM agents WHERE id = ?`, id).Scan(&exists)
		if err == nil {
			return orcherr.Newf(orcherr.Conflict, id, "agent %q already exists", id)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check agent existence: %w", err)
		}
		_, err = tx.Exec(`INSERT INTO agents (id, name, status, last_active) VALUES (?, ?, ?, ?)`,
			agent.ID, agent.Name, agent.Status, agent.LastActive)
		if err != nil {
			return fmt.Errorf("insert agent: %w", err)
		}
		return nil
	})
	return agent, err
}

// GetAgent loads a single agent by ID.
func (db *DB) GetAgent(id string) (Agent, error) {
	return getAgent(db.sql, id)
}

// GetAgentTx is the transaction-scoped form of GetAgent, used to validate an
// agent's existence as part of a larger multi-statement transaction.
func GetAgentTx(tx *sql.Tx, id string) (Agent, error) {
	return getAgent(tx, id)
}

func getAgent(q queryRower, id string) (Agent, error) {
	row := q.QueryRow(`SELECT id, name, status, current_task, last_active FROM agents WHERE id = ?`, id)
	agent, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Agent{}, orcherr.Newf(orcherr.NotFound, id, "agent %q not found", id)
	}
	if err != nil {
		return Agent{}, fmt.Errorf("scan agent %q: %w", id, err)
	}
	return agent, nil
}

// ListAgents returns every agent ordered by ID.
func (db *DB) ListAgents() ([]Agent, error) {
	rows, err := db.sql.Query(`SELECT id, name, status, current_task, last_active FROM agents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []Agent
	for rows.Next() {
		agent, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent row: %w", err)
		}
		agents = append(agents, agent)
	}
	return agents, rows.Err()
}

// SetAgentStatus updates an agent's status directly (used for blocked/
// offline transitions the reconciler detects outside of task assignment).
func (db *DB) SetAgentStatus(id string, status AgentStatus) error {
	if !isValidAgentStatus(status) {
		return orcherr.Newf(orcherr.InvalidArgument, "status", "unrecognized agent status %q", status)
	}
	return db.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE agents SET status = ?, last_active = ? WHERE id = ?`, status, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("update agent status: %w", err)
		}
		return requireRowsAffected(res, orcherr.NotFound, id, "agent not found")
	})
}

// FreeAgent clears an agent's current task assignment and returns it to
// idle. Used both when a task completes (completeTask) and when the
// reconciler's IdleAgent proposal catches an agent still marked working
// against a task that no longer exists or is already complete.
func (db *DB) FreeAgent(id string) error {
	return db.withTx(func(tx *sql.Tx) error {
		return freeAgent(tx, id)
	})
}

// FreeAgentTx is the transaction-scoped form of FreeAgent.
func FreeAgentTx(tx *sql.Tx, id string) error {
	return freeAgent(tx, id)
}

func freeAgent(ex execer, id string) error {
	res, err := ex.Exec(`UPDATE agents SET current_task = NULL, status = ?, last_active = ? WHERE id = ?`,
		AgentIdle, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("free agent: %w", err)
	}
	return requireRowsAffected(res, orcherr.NotFound, id, "agent not found")
}

// AddSpecialization associates a keyword with an agent, used by the
// recommender's specialization-match factor.
func (db *DB) AddSpecialization(agentID, keyword string) error {
	return db.withTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT 1 FROM agents WHERE id = ?`, agentID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return orcherr.Newf(orcherr.NotFound, agentID, "agent %q not found", agentID)
			}
			return fmt.Errorf("check agent existence: %w", err)
		}
		_, err := tx.Exec(`INSERT OR IGNORE INTO agent_specializations (agent_id, keyword) VALUES (?, ?)`, agentID, keyword)
		if err != nil {
			return fmt.Errorf("insert specialization: %w", err)
		}
		return nil
	})
}

// Specializations returns every keyword registered for agentID.
func (db *DB) Specializations(agentID string) ([]string, error) {
	rows, err := db.sql.Query(`SELECT keyword FROM agent_specializations WHERE agent_id = ? ORDER BY keyword`, agentID)
	if err != nil {
		return nil, fmt.Errorf("list specializations: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keywords = append(keywords, k)
	}
	return keywords, rows.Err()
}

func scanAgent(row interface{ Scan(...any) error }) (Agent, error) {
	var a Agent
	var currentTask sql.NullInt64
	if err := row.Scan(&a.ID, &a.Name, &a.Status, &currentTask, &a.LastActive); err != nil {
		return Agent{}, err
	}
	if currentTask.Valid {
		a.CurrentTask = &currentTask.Int64
	}
	return a, nil
}

func isValidAgentStatus(s AgentStatus) bool {
	for _, v := range ValidAgentStatuses {
		if v == s {
			return true
		}
	}
	return false
}
