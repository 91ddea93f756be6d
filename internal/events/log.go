package events

import (
	"fmt"

	"github.com/taskweave/orchestrator/internal/store"
)

// Log persists an activity event to db and publishes it on bus in one
// call, so the persisted log and the live fan-out never drift apart.
// The reconciler's dispatcher uses it for each single completion.
func Log(db *store.DB, bus *Bus, typ store.ActivityEventType, taskID *int64, agentID *string, message string) (store.ActivityEvent, error) {
	event, err := db.RecordEvent(typ, taskID, agentID, message)
	if err != nil {
		return store.ActivityEvent{}, fmt.Errorf("record activity event: %w", err)
	}
	if bus != nil {
		bus.Publish(event)
	}
	return event, nil
}
