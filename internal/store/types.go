// Package store is the durable, transactional source of truth: schema
// migrations, task/agent/progress/event CRUD, dependency DAG enforcement,
// metrics rollups, and sprint grouping. Every other component reads or
// writes through this package; none holds a long-lived writable handle of
// its own (spec §3 "Ownership").
package store

import "time"

// TaskStatus is the lifecycle state of a Task.
type TaskStatus string

// Task statuses, per spec §3.
const (
	TaskPending     TaskStatus = "pending"
	TaskInProgress  TaskStatus = "in_progress"
	TaskCompleted   TaskStatus = "completed"
	TaskCancelled   TaskStatus = "cancelled"
	TaskBlocked     TaskStatus = "blocked"
)

// ValidTaskStatuses lists every recognized TaskStatus, used by the
// error-context formatter to suggest corrections for bad input.
var ValidTaskStatuses = []TaskStatus{TaskPending, TaskInProgress, TaskCompleted, TaskCancelled, TaskBlocked}

// Priority is an optional task priority.
type Priority string

// Priority levels, per spec §3.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriorities lists every recognized Priority.
var ValidPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

// CompletionSource distinguishes a filesystem completion doc from a commit.
type CompletionSource string

const (
	SourceFilesystem CompletionSource = "filesystem"
	SourceCommit     CompletionSource = "commit"
)

// Task is a unit of work tracked in the store.
type Task struct {
	ID               int64
	Title            string
	Description      string
	Status           TaskStatus
	Priority         *Priority
	Agent            *string // currently-assigned agent ID
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletionDocPath *string
	CompletionSource *CompletionSource
	AutoCompleted    bool
	GitCommitHash    *string
}

// AgentStatus is the lifecycle state of an Agent.
type AgentStatus string

// Agent statuses, per spec §3.
const (
	AgentIdle    AgentStatus = "idle"
	AgentWorking AgentStatus = "working"
	AgentBlocked AgentStatus = "blocked"
	AgentOffline AgentStatus = "offline"
)

// ValidAgentStatuses lists every recognized AgentStatus.
var ValidAgentStatuses = []AgentStatus{AgentIdle, AgentWorking, AgentBlocked, AgentOffline}

// Agent is a named worker that may be assigned a task.
type Agent struct {
	ID          string
	Name        string
	Status      AgentStatus
	CurrentTask *int64
	LastActive  time.Time
}

// AgentProgress is one append-only row describing an agent's percent
// complete on a task at a moment in time.
type AgentProgress struct {
	ID        int64
	AgentID   string
	TaskID    int64
	Percent   int
	Message   string
	Timestamp time.Time
}

// ActivityEventType is the kind of an ActivityEvent row.
type ActivityEventType string

// Activity event types, per spec §3.
const (
	ActivityTaskStart    ActivityEventType = "task_start"
	ActivityTaskComplete ActivityEventType = "task_complete"
	ActivityAgentError   ActivityEventType = "agent_error"
	ActivityMilestone    ActivityEventType = "milestone"
)

// ActivityEvent is one append-only activity-log row.
type ActivityEvent struct {
	ID        int64
	Type      ActivityEventType
	TaskID    *int64
	AgentID   *string
	Message   string
	CreatedAt time.Time
}

// AgentSpecialization is one (agent, keyword) pair.
type AgentSpecialization struct {
	AgentID string
	Keyword string
}

// AgentMetrics is a per-agent rollup, always derivable from tasks+events;
// the row is a cache refreshed by RefreshMetrics.
type AgentMetrics struct {
	AgentID               string
	Total                 int
	Completed             int
	Failed                int
	AvgCompletionHours     float64
	LastRefresh           time.Time
}

// Sprint is an explicit or inferred time bucket used only for analytics.
type Sprint struct {
	Number int
	Start  time.Time
	End    time.Time
	Goal   string
}

// SprintTask associates a sprint with a task.
type SprintTask struct {
	SprintNumber int
	TaskID       int64
}

// Dependency is a directed edge: TaskID depends on DependsOnID.
type Dependency struct {
	TaskID       int64
	DependsOnID  int64
}

// Snapshot is the whole-snapshot read the dashboard render loop takes once
// per tick (spec §4.3.4 step 1): all agents, all tasks, latest progress per
// agent, and the last N activity events, all inside one read transaction.
type Snapshot struct {
	Agents          []Agent
	Tasks           []Task
	LatestProgress  map[string]AgentProgress // agent ID -> latest row
	RecentEvents    []ActivityEvent
	Dependencies    map[int64][]int64 // task ID -> IDs it depends on
	TakenAt         time.Time
}
