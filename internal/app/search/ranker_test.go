package search_test

import (
	"testing"
	"time"

	"github.com/leggal/leggal-agent/internal/app/search"
	"github.com/leggal/leggal-agent/internal/domain"
)

func task(id, title, description string, createdAt time.Time) *domain.Task {
	return &domain.Task{
		ID:          domain.TaskID(id),
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
	}
}

func TestRankFindsOverlappingTask(t *testing.T) {
	now := time.Now()
	corpus := []*domain.Task{
		task("t1", "Comprar café para escritório", "Estoque da copa acabou", now),
		task("t2", "Renovar seguro do carro", "Vence em outubro", now),
	}

	results := search.NewRanker().Rank("café escritório", corpus, 5)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Task.ID != "t1" {
		t.Fatalf("expected t1 ranked first, got %s", results[0].Task.ID)
	}
	if results[0].Score <= 0.1 {
		t.Fatalf("expected score above threshold, got %v", results[0].Score)
	}
}

func TestRankOrdersByScore(t *testing.T) {
	now := time.Now()
	corpus := []*domain.Task{
		task("t1", "comprar café", "", now),
		task("t2", "comprar café moído hoje", "", now),
	}

	results := search.NewRanker().Rank("comprar café", corpus, 5)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Task.ID != "t1" {
		t.Fatalf("exact match should rank first, got %s", results[0].Task.ID)
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("expected descending scores, got %v then %v", results[0].Score, results[1].Score)
	}
}

func TestRankTieBreaksByCreationTime(t *testing.T) {
	old := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)
	corpus := []*domain.Task{
		task("t-old", "pagar boleto", "", old),
		task("t-new", "pagar boleto", "", recent),
	}

	results := search.NewRanker().Rank("pagar boleto", corpus, 5)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Task.ID != "t-new" {
		t.Fatalf("newer task should win the tie, got %s", results[0].Task.ID)
	}
}

func TestRankTruncatesToTopK(t *testing.T) {
	now := time.Now()
	corpus := []*domain.Task{
		task("t1", "comprar café", "", now),
		task("t2", "comprar café", "", now.Add(time.Second)),
		task("t3", "comprar café", "", now.Add(2*time.Second)),
	}

	results := search.NewRanker().Rank("comprar café", corpus, 2)
	if len(results) != 2 {
		t.Fatalf("expected topK=2 results, got %d", len(results))
	}
}

func TestRankEmptyInputs(t *testing.T) {
	r := search.NewRanker()

	if got := r.Rank("café", nil, 5); len(got) != 0 {
		t.Fatalf("empty corpus should yield empty result, got %d", len(got))
	}
	if got := r.Rank("", []*domain.Task{task("t1", "café", "", time.Now())}, 5); len(got) != 0 {
		t.Fatalf("empty query should yield empty result, got %d", len(got))
	}
}
