package redeempasswordreset

import (
	"context"
	"errors"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
)

type Input struct {
	Identifier user.Identifier
	Secret     user.ResetSecret
}

type Result struct {
	User user.User
}

type service struct {
	log            logging.Logger
	userRepository user.UserRepository
}

// New creates the redemption lookup. It is read-only: redeeming does not
// consume the secret, so the redemption page may call it on every view.
func New(
	log logging.Logger,
	userRepository user.UserRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	return &service{
		log:            log,
		userRepository: userRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Identifier == "" || input.Secret == "" {
		return result, user.ErrInvalidResetSecret
	}
	u, err := s.userRepository.GetByIdentifierAndResetSecret(ctx, input.Identifier, input.Secret)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		// Deliberately does not distinguish a wrong identifier from a
		// wrong secret.
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
	return Result{User: u}, nil
}
