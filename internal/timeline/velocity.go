package timeline

import "math"

// minSprintsForConfidence is the smallest sample spec §4.5 trusts for a
// velocity figure; below it CompletionEstimate is flagged low-confidence.
const minSprintsForConfidence = 3

// Velocity computes mean tasks-per-sprint across the last k complete
// sprints (k <= 0 means "all complete sprints") and labels the trend by
// comparing the final two complete sprints.
func Velocity(views []SprintView, k int) VelocityReport {
	complete := completeSprints(views)
	if k > 0 && len(complete) > k {
		complete = complete[len(complete)-k:]
	}

	if len(complete) == 0 {
		return VelocityReport{Trend: "stable"}
	}

	total := 0
	for _, s := range complete {
		total += s.CompletedCount
	}
	mean := float64(total) / float64(len(complete))

	trend := "stable"
	if len(complete) >= 2 {
		prev := complete[len(complete)-2].CompletedCount
		last := complete[len(complete)-1].CompletedCount
		switch {
		case last > prev:
			trend = "improving"
		case last < prev:
			trend = "declining"
		}
	}

	return VelocityReport{
		MeanVelocity:      mean,
		Trend:             trend,
		SprintsConsidered: len(complete),
	}
}

// EstimateCompletion projects remaining sprints needed to clear
// remainingTasks at the reported mean velocity.
func EstimateCompletion(remainingTasks int, v VelocityReport) CompletionEstimate {
	est := CompletionEstimate{
		RemainingTasks: remainingTasks,
		LowConfidence:  v.SprintsConsidered < minSprintsForConfidence,
	}
	if v.MeanVelocity <= 0 {
		est.EstimatedSprints = math.Inf(1)
		est.LowConfidence = true
		return est
	}
	est.EstimatedSprints = float64(remainingTasks) / v.MeanVelocity
	return est
}

func completeSprints(views []SprintView) []SprintView {
	var out []SprintView
	for _, v := range views {
		if v.Status == SprintComplete {
			out = append(out, v)
		}
	}
	return out
}
