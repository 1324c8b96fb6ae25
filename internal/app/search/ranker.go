package search

import (
	"sort"
	"strings"

	"github.com/leggal/leggal-agent/internal/domain"
)

// scoreFloor discards near-zero-overlap matches as noise.
const scoreFloor = 0.1

// Ranker scores tasks against a free-text query using the Jaccard index of
// their token sets. Pure given its inputs; no I/O.
type Ranker struct{}

func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns up to topK tasks whose similarity to the query exceeds the
// floor, ordered by score descending. Ties order by task creation time
// descending, then ID ascending, so results are stable across runs.
// An empty query or corpus yields an empty result, never an error.
func (r *Ranker) Rank(query string, corpus []*domain.Task, topK int) []domain.SimilarityResult {
	queryTokens := tokenize(query)
	if len(queryTokens) == 0 || len(corpus) == 0 {
		return nil
	}

	var results []domain.SimilarityResult
	for _, task := range corpus {
		score := jaccard(queryTokens, tokenize(taskText(task)))
		if score > scoreFloor {
			results = append(results, domain.SimilarityResult{Task: task, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].Task.CreatedAt.Equal(results[j].Task.CreatedAt) {
			return results[i].Task.CreatedAt.After(results[j].Task.CreatedAt)
		}
		return results[i].Task.ID < results[j].Task.ID
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

// taskText concatenates every text field so the match is as rich as possible.
func taskText(t *domain.Task) string {
	parts := make([]string, 0, 5)
	for _, s := range []string{t.Title, t.Description, t.AITitle, t.AISummary, t.RawMessage} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		tokens[w] = struct{}{}
	}
	return tokens
}

// jaccard is intersection size over union size of the two token sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}

	intersection := 0
	for w := range a {
		if _, ok := b[w]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
