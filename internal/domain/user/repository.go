package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	List(ctx context.Context) ([]User, error)
}
