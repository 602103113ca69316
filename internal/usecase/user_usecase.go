// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"mart/internal/domain/entity"

	"github.com/google/uuid"
)

// Caller is the authenticated identity acting on a request. The core trusts
// the role flags as supplied by the authentication layer.
type Caller struct {
	ID       uuid.UUID
	IsBuyer  bool
	IsSeller bool
}

// CallerFromUser builds a Caller from a user entity.
func CallerFromUser(user *entity.User) Caller {
	return Caller{ID: user.ID, IsBuyer: user.IsBuyer, IsSeller: user.IsSeller}
}

// --- Input DTOs ---

// RegisterInput defines the data required to register a new user.
type RegisterInput struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
	IsSeller bool   `json:"is_seller"`
	IsBuyer  bool   `json:"is_buyer"`
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*LoginOutput, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}
