package user

import (
	"context"
	"errors"

	"smart-loan-recovery/internal/domain/user"
	"smart-loan-recovery/pkg/id"

	"gorm.io/gorm"
)

type Usecase struct{ repo user.Repository }

func NewUsecase(r user.Repository) *Usecase { return &Usecase{repo: r} }

// Register never enforces name uniqueness; it always mints a fresh id.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*UserDTO, error) {
	role, err := user.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}

	usr := &user.User{
		UserID: id.NewID32(),
		Name:   in.Name,
		Role:   role,
	}
	if err := u.repo.Create(ctx, usr); err != nil {
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*UserDTO, error) {
	usr, err := u.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return toDTO(usr), nil
}

func (u *Usecase) List(ctx context.Context) ([]UserDTO, error) {
	users, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *toDTO(&users[i]))
	}
	return out, nil
}

// FindByName returns the first user with the given name. Names are not
// unique; login picks whichever registration came first.
func (u *Usecase) FindByName(ctx context.Context, name string) (*UserDTO, error) {
	users, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Name == name {
			return toDTO(&users[i]), nil
		}
	}
	return nil, user.ErrNotFound
}

// CanCreateLoan is the capability check behind the lender-only
// endpoints (loan creation, overdue sweep).
func (u *Usecase) CanCreateLoan(usr *UserDTO) bool {
	return usr != nil && user.Role(usr.Role) == user.RoleLender
}

func toDTO(usr *user.User) *UserDTO {
	return &UserDTO{
		UserID:    usr.UserID,
		Name:      usr.Name,
		Role:      string(usr.Role),
		CreatedAt: usr.CreatedAt,
	}
}
