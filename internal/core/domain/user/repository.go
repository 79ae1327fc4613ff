package user

import (
	"context"
	"time"
	c "userkit/internal/core/domain/common"
)

type CreateUserInput struct {
	Identifier   Identifier
	Email        c.Optional[c.Email]
	PasswordHash PasswordHash
	Roles        []Role
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByIdentifier(ctx context.Context, identifier Identifier) (User, error)
	// GetByIdentifierAndResetSecret matches both fields exactly and is
	// free of side effects, so it is safe to call on every view of the
	// redemption page.
	GetByIdentifierAndResetSecret(ctx context.Context, identifier Identifier, secret ResetSecret) (User, error)
	SetResetSecret(ctx context.Context, id ID, secret ResetSecret) error
	SetPassword(ctx context.Context, id ID, password PasswordHash) error
	// SetPasswordAndClearResetSecret performs both mutations in a single
	// write. After it returns the secret is permanently invalid.
	SetPasswordAndClearResetSecret(ctx context.Context, id ID, password PasswordHash) error
}

type CreateSessionInput struct {
	UserID    ID
	Token     SessionToken
	CreatedAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) error
	GetUserByToken(ctx context.Context, token SessionToken) (User, error)
	Delete(ctx context.Context, token SessionToken) (userID ID, err error)
}
