package redeempasswordreset

import (
	"context"
	"testing"
	c "userkit/internal/core/domain/common"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"

	"github.com/stretchr/testify/require"
)

const SECRET = "ZU9KXgDWvyuTwUtkAA0Y5Q3c8BqtaWX1oiYtBF3Ndlk"

func setupService(t *testing.T) (services.Service[Input, Result], *user.FakeUserRepository) {
	t.Helper()
	userRepo := user.NewFakeUserRepository()
	userRepo.Users = []user.User{{
		ID:           1,
		Identifier:   "alice",
		PasswordHash: "alice-hash",
		ResetSecret:  c.NewOptional(user.ResetSecret(SECRET), true),
		IsEnabled:    true,
	}}
	return New(logging.NewFakeLogger(), userRepo), userRepo
}

func TestExactMatchReturnsUser(t *testing.T) {
	service, _ := setupService(t)

	result, err := service.Run(context.Background(), Input{
		Identifier: "alice",
		Secret:     SECRET,
	})

	require.NoError(t, err)
	require.Equal(t, user.ID(1), result.User.ID)
	require.Equal(t, user.Identifier("alice"), result.User.Identifier)
}

func TestRedeemIsRepeatable(t *testing.T) {
	service, userRepo := setupService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := service.Run(ctx, Input{Identifier: "alice", Secret: SECRET})
		require.NoError(t, err)
	}
	require.Equal(t, 0, userRepo.WriteCount)
}

func TestMismatchRejected(t *testing.T) {
	mutated := "YU9KXgDWvyuTwUtkAA0Y5Q3c8BqtaWX1oiYtBF3Ndlk"
	require.NotEqual(t, SECRET, mutated)

	cases := []struct {
		id         string
		identifier string
		secret     string
	}{
		{id: "unknown identifier", identifier: "bob", secret: SECRET},
		{id: "single character mutation", identifier: "alice", secret: mutated},
		{id: "case folded secret", identifier: "alice", secret: "zu9kxgdwvyutwutkaa0y5q3c8bqtawx1oiytbf3ndlk"},
		{id: "empty secret", identifier: "alice", secret: ""},
		{id: "empty identifier", identifier: "", secret: SECRET},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			service, _ := setupService(t)

			_, err := service.Run(context.Background(), Input{
				Identifier: user.Identifier(testcase.identifier),
				Secret:     user.ResetSecret(testcase.secret),
			})

			require.ErrorIs(t, err, user.ErrInvalidResetSecret)
		})
	}
}

func TestNoPendingResetRejected(t *testing.T) {
	userRepo := user.NewFakeUserRepository()
	userRepo.Users = []user.User{{
		ID:           1,
		Identifier:   "alice",
		PasswordHash: "alice-hash",
		IsEnabled:    true,
	}}
	service := New(logging.NewFakeLogger(), userRepo)

	_, err := service.Run(context.Background(), Input{Identifier: "alice", Secret: SECRET})

	require.ErrorIs(t, err, user.ErrInvalidResetSecret)
}
