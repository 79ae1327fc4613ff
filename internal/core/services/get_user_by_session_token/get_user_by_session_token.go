package getuserbysessiontoken

import (
	"context"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
)

// Input carries the bearer token to resolve into an account. The request
// password handler uses this lookup to spot an already authenticated caller
// and skip the email round trip.
type Input struct {
	Token user.SessionToken
}

type Result struct {
	User user.User
}

type service struct {
	log               logging.Logger
	sessionRepository user.SessionRepository
}

func New(
	log logging.Logger,
	sessionRepository user.SessionRepository,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	return &service{
		log:               log,
		sessionRepository: sessionRepository,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.sessionRepository.GetUserByToken(ctx, input.Token)
	return Result{User: u}, err
}
