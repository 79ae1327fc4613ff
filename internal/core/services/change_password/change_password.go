package changepassword

import (
	"context"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
	"userkit/internal/core/services/auth"
)

type Input struct {
	NewPassword user.RawPassword
	User        user.User
}

func (i Input) WithAuthenticatedUser(u user.User) auth.Input {
	i.User = u
	return i
}

type Result struct{}

type service struct {
	log               logging.Logger
	userRepository    user.UserRepository
	passwordHasher    user.PasswordHasher
	passwordMinLength int
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	passwordHasher user.PasswordHasher,
	passwordMinLength int,
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
	return &service{
		log:               log,
		userRepository:    userRepository,
		passwordHasher:    passwordHasher,
		passwordMinLength: passwordMinLength,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if len(input.NewPassword) < s.passwordMinLength {
		return result, user.ErrPasswordTooShort
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}
	if err := s.userRepository.SetPassword(ctx, input.User.ID, newPasswordHash); err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", input.User.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "User password has been changed.", logging.Entry("userID", input.User.ID))
	return Result{}, nil
}
