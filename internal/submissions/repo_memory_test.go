package submissions

import (
	"context"
	"testing"
	"time"
)

func TestMemoryRepoListOrdering(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

	for _, sub := range []Submission{
		{ID: "a", Teacher: "Mr. Radia", CreatedAt: base},
		{ID: "b", Teacher: "Mr. Radia", CreatedAt: base},
		{ID: "c", Teacher: "Mr. Neves", CreatedAt: base.Add(time.Minute)},
	} {
		if err := repo.Create(ctx, sub); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	got, err := repo.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"c", "b", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}

	got, err = repo.List(ctx, Filter{Teacher: "Mr. Radia", Offset: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(got))
	}
}

func TestMemoryRepoCopiesAnswers(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()
	answers := map[string]string{"skill1": "aa_hl"}
	if err := repo.Create(ctx, Submission{ID: "a", Answers: answers}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	answers["skill1"] = "ai_sl"

	got, err := repo.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Answers["skill1"] != "aa_hl" {
		t.Fatalf("stored answers were mutated: %v", got.Answers)
	}
}
