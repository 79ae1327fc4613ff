package user

import (
	"fmt"
	"time"
	c "userkit/internal/core/domain/common"
	e "userkit/internal/core/domain/errors"
)

type ID int64

// Identifier is the unique login key. Which user attribute it maps to
// (username or email address) is a deployment choice, see config.
type Identifier string

type PasswordHash string

func (p PasswordHash) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

// ResetSecret is a single-use token proving the holder received the
// password reset email. It is bound to exactly one user record.
type ResetSecret string

type SessionToken string

type Role string

const (
	RoleUser       Role = "ROLE_USER"
	RoleSuperAdmin Role = "ROLE_SUPER_ADMIN"
)

type User struct {
	ID           ID
	Identifier   Identifier
	Email        c.Optional[c.Email]
	PasswordHash PasswordHash
	Roles        []Role
	ResetSecret  c.Optional[ResetSecret]
	IsEnabled    bool
	CreatedAt    time.Time
}

func (u *User) Validate() error {
	if u.Identifier == "" {
		return e.NewInvalidStateError(fmt.Sprintf("identifier is not set for user %d", u.ID))
	}
	if u.PasswordHash == "" {
		return e.NewInvalidStateError(fmt.Sprintf("password hash is not set for user %d", u.ID))
	}
	return nil
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}
