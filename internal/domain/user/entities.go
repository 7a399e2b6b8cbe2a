package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound    = errors.New("user not found")
	ErrUnknownRole = errors.New("unknown user role")
)

type Role string

const (
	RoleBorrower Role = "borrower"
	RoleLender   Role = "lender"
)

// ParseRole maps the wire/storage tag to a Role. Unknown tags are an
// error, never a silent fallback.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBorrower, RoleLender:
		return Role(s), nil
	}
	return "", ErrUnknownRole
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

type User struct {
	// Internal numeric PK
	ID uint64 `gorm:"primaryKey;column:id" json:"-"`
	// Public identifier (32-char lowercase hex)
	UserID    string    `gorm:"column:user_id;size:32;uniqueIndex:ux_users_user_id" json:"user_id"`
	Name      string    `gorm:"column:name;size:255;not null" json:"name"`
	Role      Role      `gorm:"column:role;size:16;not null" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (User) TableName() string { return "users" }
