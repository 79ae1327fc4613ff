package logout

import (
	"context"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"
)

type Input struct {
	Token user.SessionToken
}

type Result struct{}

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
	userID, err := s.sessionRepository.Delete(ctx, input.Token)
	if err != nil {
		return result, err
	}
	s.log.Info(ctx, "User session has been deleted.", logging.Entry("userID", userID))
	return result, nil
}
