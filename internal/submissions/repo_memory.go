package submissions

import (
	"context"
	"maps"
	"sort"
	"sync"
)

// MemoryRepo keeps submissions in process for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	subs map[string]Submission
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{subs: make(map[string]Submission)}
}

func (r *MemoryRepo) Create(ctx context.Context, sub Submission) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sub.Answers = maps.Clone(sub.Answers)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[sub.ID] = sub
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Submission, error) {
	if err := ctx.Err(); err != nil {
		return Submission{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sub, ok := r.subs[id]
	if !ok {
		return Submission{}, ErrNotFound
	}
	sub.Answers = maps.Clone(sub.Answers)
	return sub, nil
}

func (r *MemoryRepo) List(ctx context.Context, filter Filter) ([]Submission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	matches := make([]Submission, 0, len(r.subs))
	for _, sub := range r.subs {
		if filter.Teacher != "" && sub.Teacher != filter.Teacher {
			continue
		}
		sub.Answers = maps.Clone(sub.Answers)
		matches = append(matches, sub)
	}
	r.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].ID > matches[j].ID
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matches) {
			return []Submission{}, nil
		}
		matches = matches[filter.Offset:]
	}
	if filter.Limit > 0 && len(matches) > filter.Limit {
		matches = matches[:filter.Limit]
	}
	return matches, nil
}

func (r *MemoryRepo) Count(ctx context.Context, teacher string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if teacher == "" {
		return len(r.subs), nil
	}
	n := 0
	for _, sub := range r.subs {
		if sub.Teacher == teacher {
			n++
		}
	}
	return n, nil
}
