// Package recommender scores agent-task pairs and produces an ordered
// shortlist with a per-factor breakdown (spec §4.4). It is a pure
// function over data the caller already read from the store; it never
// opens its own connection. Grounded on the teacher's
// internal/memory/learning.go TF-IDF search (scoredDoc struct,
// score-then-sort-then-limit shape), generalized from a single
// relevance score to the spec's four-factor weighted breakdown.
package recommender

import "strings"

// vocabulary is the fixed, closed set of domain keywords task titles
// and descriptions are matched against, per spec §4.4. Matching is
// substring-aware so a specialization like "frontend" matches a task
// keyword like "frontend-ui".
var vocabulary = []string{
	"ui", "frontend", "frontend-ui", "backend", "api", "data", "database",
	"test", "testing", "docs", "documentation", "infra", "infrastructure",
	"security", "auth", "performance", "devops", "mobile", "design",
	"migration", "refactor", "bugfix", "ci", "cd", "deployment",
}

// ExtractKeywords lowercases title and description and returns every
// vocabulary term found as a substring, deduplicated, in vocabulary
// order for deterministic downstream comparisons.
func ExtractKeywords(title, description string) []string {
	haystack := strings.ToLower(title + " " + description)
	var found []string
	for _, term := range vocabulary {
		if strings.Contains(haystack, term) {
			found = append(found, term)
		}
	}
	return found
}

// jaccardLike computes |a ∩ b| / |a ∪ b|, the "Jaccard-like overlap"
// spec §4.4 calls for between an agent's specialization set and a
// task's keyword set. Returns 0 when both sets are empty.
func jaccardLike(a, b []string) float64 {
	union := make(map[string]bool, len(a)+len(b))
	setB := make(map[string]bool, len(b))
	for _, k := range a {
		union[k] = true
	}
	for _, k := range b {
		union[k] = true
		setB[k] = true
	}
	if len(union) == 0 {
		return 0
	}
	intersection := 0
	for k := range union {
		if setB[k] && containsStr(a, k) {
			intersection++
		}
	}
	return float64(intersection) / float64(len(union))
}

func containsStr(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
