package recommender

import (
	"fmt"
	"sort"

	"github.com/taskweave/orchestrator/internal/store"
)

// Factor weights, per spec §4.4.
const (
	weightSpecialization = 0.40
	weightPerformance    = 0.30
	weightExperience     = 0.20
	weightAvailability   = 0.10

	neutralSpecialization = 0.30
	neutralPerformance    = 0.50

	experienceDivisor = 10.0
)

// Breakdown carries the four factor scores spec §4.4 requires,
// already expressed as percentages for direct display.
type Breakdown struct {
	SpecializationPct float64
	PerformancePct    float64
	ExperiencePct     float64
	AvailabilityPct   float64
}

// Recommendation is one scored agent candidate for a task.
type Recommendation struct {
	AgentID       string
	Score         float64
	Breakdown     Breakdown
	Justification string
}

// AgentInput bundles the per-agent facts the scorer needs, read by the
// caller from the store ahead of time so this package stays a pure
// function over its arguments.
type AgentInput struct {
	Agent           store.Agent
	Specializations []string // keywords, from AddSpecialization rows
	Metrics         store.AgentMetrics
	// CompletedKeywordMatches is the count of the agent's completed
	// tasks that share at least one keyword with the target task,
	// per spec §4.4's Experience factor.
	CompletedKeywordMatches int
}

// Recommend scores every agent in agents against task and returns up
// to n candidates ordered by total score descending, ties broken by
// lexicographic agent ID for deterministic output (spec §4.4).
func Recommend(task store.Task, agents []AgentInput, n int) []Recommendation {
	keywords := ExtractKeywords(task.Title, task.Description)

	recs := make([]Recommendation, 0, len(agents))
	for _, in := range agents {
		recs = append(recs, score(keywords, in))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].AgentID < recs[j].AgentID
	})

	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}

func score(taskKeywords []string, in AgentInput) Recommendation {
	specialization := neutralSpecialization
	if len(in.Specializations) > 0 {
		specialization = jaccardLike(in.Specializations, taskKeywords)
	}

	performance := neutralPerformance
	if in.Metrics.Total > 0 {
		performance = float64(in.Metrics.Completed) / float64(in.Metrics.Total)
	}

	experience := float64(in.CompletedKeywordMatches) / experienceDivisor
	if experience > 1.0 {
		experience = 1.0
	}

	availability := availabilityScore(in.Agent.Status)

	total := specialization*weightSpecialization +
		performance*weightPerformance +
		experience*weightExperience +
		availability*weightAvailability

	return Recommendation{
		AgentID: in.Agent.ID,
		Score:   total,
		Breakdown: Breakdown{
			SpecializationPct: specialization * 100,
			PerformancePct:    performance * 100,
			ExperiencePct:     experience * 100,
			AvailabilityPct:   availability * 100,
		},
		Justification: justify(in, specialization),
	}
}

func availabilityScore(status store.AgentStatus) float64 {
	switch status {
	case store.AgentIdle:
		return 1.0
	case store.AgentWorking:
		return 0.5
	default:
		return 0.0
	}
}

func justify(in AgentInput, specialization float64) string {
	return fmt.Sprintf("Specialization match: %.0f%%; completed %d similar tasks",
		specialization*100, in.CompletedKeywordMatches)
}
