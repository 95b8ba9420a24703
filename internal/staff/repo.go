package staff

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("staff member not found")
	ErrDuplicate = errors.New("staff email already registered")
)

type Repo interface {
	Create(ctx context.Context, member Member) error
	GetByID(ctx context.Context, id string) (Member, error)
	GetByEmail(ctx context.Context, email string) (Member, error)
}
