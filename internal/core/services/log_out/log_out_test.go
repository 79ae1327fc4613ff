package logout

import (
	"context"
	"testing"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"

	"github.com/stretchr/testify/require"
)

const SESSION_TOKEN = "test-session-token"

type suite struct {
	userRepo    *user.FakeUserRepository
	sessionRepo *user.FakeSessionRepository
	service     services.Service[Input, Result]
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	userRepo := user.NewFakeUserRepository()
	u, err := userRepo.Create(context.Background(), user.CreateUserInput{
		Identifier:   "alice",
		PasswordHash: "password-hash",
	})
	require.NoError(t, err)

	sessionRepo := user.NewFakeSessionRepository(userRepo)
	err = sessionRepo.Create(context.Background(), user.CreateSessionInput{
		UserID: u.ID,
		Token:  SESSION_TOKEN,
	})
	require.NoError(t, err)

	return &suite{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		service:     New(logging.NewFakeLogger(), sessionRepo),
	}
}

func TestSessionDeleted(t *testing.T) {
	suite := setupSuite(t)

	_, err := suite.service.Run(
		context.Background(),
		Input{Token: SESSION_TOKEN},
	)

	require.NoError(t, err)
	_, err = suite.sessionRepo.GetUserByToken(context.Background(), SESSION_TOKEN)
	require.ErrorIs(t, err, user.ErrUserDoesNotExist)
}

func TestUnknownTokenRejected(t *testing.T) {
	suite := setupSuite(t)

	_, err := suite.service.Run(
		context.Background(),
		Input{Token: "unknown-session-token"},
	)

	require.ErrorIs(t, err, user.ErrSessionDoesNotExist)
	_, err = suite.sessionRepo.GetUserByToken(context.Background(), SESSION_TOKEN)
	require.NoError(t, err)
}
