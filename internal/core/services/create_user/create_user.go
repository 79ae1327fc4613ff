package createuser

import (
	"context"
	"errors"
	"time"
	c "userkit/internal/core/domain/common"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
)

type Input struct {
	Identifier   user.Identifier
	Password     user.RawPassword
	Email        c.Optional[c.Email]
	IsSuperAdmin bool
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Identifier == "" {
		return result, user.ErrIdentifierIsEmpty
	}
	if input.Password == "" {
		return result, user.ErrPasswordIsEmpty
	}

	// Lookup-then-reject; the unique index on the identifier column is the
	// real backstop against a concurrent create.
	_, err = s.userRepository.GetByIdentifier(ctx, input.Identifier)
	if err == nil {
		s.log.Info(
			ctx,
			"User with the identifier already exists.",
			logging.Entry("identifier", input.Identifier),
		)
		return result, user.ErrIdentifierAlreadyExists
	}
	if !errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Error(
			ctx,
			"Could not check identifier uniqueness.",
			logging.Entry("identifier", input.Identifier),
			logging.Entry("err", err),
		)
		return result, err
	}

	passwordHash, err := s.passwordHasher.HashPassword(input.Password)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	roles := []user.Role{user.RoleUser}
	if input.IsSuperAdmin {
		roles = append(roles, user.RoleSuperAdmin)
	}

	createdUser, err := s.userRepository.Create(ctx, user.CreateUserInput{
		Identifier:   input.Identifier,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Roles:        roles,
		CreatedAt:    s.now(),
	})
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrIdentifierAlreadyExists) {
		s.log.Info(
			ctx,
			"User with the identifier already exists.",
			logging.Entry("identifier", input.Identifier),
		)
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not create new user.",
			logging.Entry("identifier", input.Identifier),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "New user has been created.", logging.Entry("user", createdUser))
	return Result{User: createdUser}, nil
}
