package mysql

import (
	"context"

	userDomain "smart-loan-recovery/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	var out userDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if !out.Role.Valid() {
		return nil, userDomain.ErrUnknownRole
	}
	return &out, nil
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		if !out[i].Role.Valid() {
			return nil, userDomain.ErrUnknownRole
		}
	}
	return out, nil
}
