package user

import "time"

type RegisterInput struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type UserDTO struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
