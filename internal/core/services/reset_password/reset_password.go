package resetpassword

import (
	"context"
	"errors"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
)

type Input struct {
	Identifier  user.Identifier
	Secret      user.ResetSecret
	NewPassword user.RawPassword
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

	u, err := s.userRepository.GetByIdentifierAndResetSecret(ctx, input.Identifier, input.Secret)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidResetSecret
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not look up password reset secret.",
			logging.Entry("identifier", input.Identifier),
			logging.Entry("err", err),
		)
		return result, err
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		s.log.Error(ctx, "Could not hash password.", logging.Entry("err", err))
		return result, err
	}

	// One write: the new hash lands and the secret is gone, so the reset
	// link cannot be replayed.
	err = s.userRepository.SetPasswordAndClearResetSecret(ctx, u.ID, newPasswordHash)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been set, reset secret cleared.",
		logging.Entry("userID", u.ID),
	)
	return result, nil
}
