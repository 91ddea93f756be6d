package recommender

import "github.com/taskweave/orchestrator/internal/store"

// LoadAgentInputs reads everything Recommend needs for every agent
// currently in the store, computing each agent's Experience factor
// input (completed tasks sharing a keyword with target) from a single
// ListTasks read shared across all agents.
func LoadAgentInputs(db *store.DB, target store.Task) ([]AgentInput, error) {
	agents, err := db.ListAgents()
	if err != nil {
		return nil, err
	}
	tasks, err := db.ListTasks()
	if err != nil {
		return nil, err
	}

	targetKeywords := ExtractKeywords(target.Title, target.Description)
	completedByAgent := make(map[string]int, len(agents))
	for _, t := range tasks {
		if t.Status != store.TaskCompleted || t.Agent == nil {
			continue
		}
		if overlapsKeywords(ExtractKeywords(t.Title, t.Description), targetKeywords) {
			completedByAgent[*t.Agent]++
		}
	}

	inputs := make([]AgentInput, 0, len(agents))
	for _, a := range agents {
		specs, err := db.Specializations(a.ID)
		if err != nil {
			return nil, err
		}
		metrics, err := db.Metrics(a.ID)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, AgentInput{
			Agent:                   a,
			Specializations:         specs,
			Metrics:                 metrics,
			CompletedKeywordMatches: completedByAgent[a.ID],
		})
	}
	return inputs, nil
}

func overlapsKeywords(a, b []string) bool {
	set := make(map[string]bool, len(b))
	for _, k := range b {
		set[k] = true
	}
	for _, k := range a {
		if set[k] {
			return true
		}
	}
	return false
}
