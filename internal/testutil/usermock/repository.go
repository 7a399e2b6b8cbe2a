package usermock

import (
	"context"

	domain "smart-loan-recovery/internal/domain/user"
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn      func(ctx context.Context, u *domain.User) error
	GetByUserIDFn func(ctx context.Context, userID string) (*domain.User, error)
	ListFn        func(ctx context.Context) ([]domain.User, error)
}

var _ domain.Repository = (*Repo)(nil)

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}
