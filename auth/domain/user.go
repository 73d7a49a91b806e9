package domain

import (
	"context"
	"time"
)

// User is a registered account. Email is unique and stored lowercased.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository interface {
	// CreateUser inserts u, reporting a taken email as errs.ErrConflict
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}
