package domain

import (
	"context"
	"time"
)

// User represents a registered account
type User struct {
	ID           string    `json:"id"`    // UUID
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`     // Bcrypt hashed password (not returned in API)
	Email        string    `json:"email"` // Unique, stored lowercase
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}
