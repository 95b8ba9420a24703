package staff

import (
	"context"
	"strings"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	members map[string]Member
	byEmail map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		members: make(map[string]Member),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, member Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	email := strings.ToLower(member.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[email]; ok {
		return ErrDuplicate
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}
	member.Email = email
	r.members[member.ID] = member
	r.byEmail[email] = member.ID
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Member, error) {
	if err := ctx.Err(); err != nil {
		return Member{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[id]
	if !ok {
		return Member{}, ErrNotFound
	}
	return member, nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Member, error) {
	if err := ctx.Err(); err != nil {
		return Member{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return Member{}, ErrNotFound
	}
	return r.members[id], nil
}
