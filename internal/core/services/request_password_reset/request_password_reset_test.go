package requestpasswordreset

import (
	"context"
	"testing"
	c "userkit/internal/core/domain/common"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"

	"github.com/stretchr/testify/suite"
)

const (
	IDENTIFIER_FIELD = "username"
	EMAIL_FIELD      = "email"
	SECRET_ONE       = "test-secret-one"
	SECRET_TWO       = "test-secret-two"
)

type testSuite struct {
	suite.Suite
	log       *logging.FakeLogger
	userRepo  *user.FakeUserRepository
	generator *user.FakeResetSecretGenerator
	sender    *user.FakeResetLinkSender
}

func TestRequestPasswordResetService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) SetupTest() {
	s.log = logging.NewFakeLogger()
	s.userRepo = user.NewFakeUserRepository()
	s.userRepo.Users = []user.User{
		{
			ID:           1,
			Identifier:   "alice",
			Email:        c.NewOptional(c.Email("alice@example.com"), true),
			PasswordHash: "alice-hash",
			IsEnabled:    true,
		},
		{
			ID:           2,
			Identifier:   "bob",
			PasswordHash: "bob-hash",
			IsEnabled:    true,
		},
		{
			ID:           3,
			Identifier:   "carol",
			Email:        c.NewOptional(c.Email("not-an-email"), true),
			PasswordHash: "carol-hash",
			IsEnabled:    true,
		},
	}
	s.generator = user.NewFakeResetSecretGenerator(SECRET_ONE, SECRET_TWO)
	s.sender = user.NewFakeResetLinkSender()
}

func (s *testSuite) createService(identifierField, emailField string) services.Service[Input, Result] {
	return New(s.log, s.userRepo, s.generator, s.sender, identifierField, emailField)
}

func (s *testSuite) TestUnknownIdentifier() {
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)

	result, err := service.Run(context.Background(), Input{Identifier: "nobody"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeNoSuchUser, result.Outcome)
	assert.Equal(0, s.sender.SentCount())
	for _, u := range s.userRepo.Users {
		assert.False(u.ResetSecret.IsPresent)
	}
}

func (s *testSuite) TestResetLinkSent() {
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)

	result, err := service.Run(context.Background(), Input{Identifier: "alice"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeSent, result.Outcome)
	assert.Equal(user.ResetSecret(SECRET_ONE), result.Secret)
	assert.Equal(1, s.sender.SentCount())
	assert.Equal(user.ID(1), s.sender.LastSentTo().ID)
	assert.Equal(user.ResetSecret(SECRET_ONE), s.sender.SentSecrets[0])

	stored, err := s.userRepo.GetByID(context.Background(), 1)
	assert.NoError(err)
	assert.True(stored.ResetSecret.IsPresent)
	assert.Equal(user.ResetSecret(SECRET_ONE), stored.ResetSecret.Value)
}

func (s *testSuite) TestRepeatedRequestInvalidatesPreviousSecret() {
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)
	ctx := context.Background()

	first, err := service.Run(ctx, Input{Identifier: "alice"})
	s.Require().NoError(err)
	second, err := service.Run(ctx, Input{Identifier: "alice"})
	s.Require().NoError(err)

	assert := s.Require()
	assert.NotEqual(first.Secret, second.Secret)

	_, err = s.userRepo.GetByIdentifierAndResetSecret(ctx, "alice", first.Secret)
	assert.ErrorIs(err, user.ErrUserDoesNotExist)
	_, err = s.userRepo.GetByIdentifierAndResetSecret(ctx, "alice", second.Secret)
	assert.NoError(err)
}

func (s *testSuite) TestEmailNotConfigured() {
	service := s.createService(IDENTIFIER_FIELD, "")

	result, err := service.Run(context.Background(), Input{Identifier: "alice"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeEmailNotConfigured, result.Outcome)
	assert.Equal(0, s.sender.SentCount())

	// The secret is still set, but the user never receives it.
	stored, err := s.userRepo.GetByID(context.Background(), 1)
	assert.NoError(err)
	assert.True(stored.ResetSecret.IsPresent)
}

func (s *testSuite) TestNoEmailOnFile() {
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)

	result, err := service.Run(context.Background(), Input{Identifier: "bob"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeNoEmailOnFile, result.Outcome)
	assert.Equal(0, s.sender.SentCount())
}

func (s *testSuite) TestMalformedEmailOnFile() {
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)

	result, err := service.Run(context.Background(), Input{Identifier: "carol"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeInvalidEmail, result.Outcome)
	assert.Equal(0, s.sender.SentCount())
}

func (s *testSuite) TestIdentifierIsTheEmail() {
	s.userRepo.Users = append(s.userRepo.Users, user.User{
		ID:           4,
		Identifier:   "dave@example.com",
		PasswordHash: "dave-hash",
		IsEnabled:    true,
	})
	service := s.createService(EMAIL_FIELD, EMAIL_FIELD)

	result, err := service.Run(context.Background(), Input{Identifier: "dave@example.com"})

	assert := s.Require()
	assert.NoError(err)
	assert.Equal(OutcomeSent, result.Outcome)
	assert.Equal(1, s.sender.SentCount())
	assert.Equal(c.Email("dave@example.com"), s.sender.LastSentTo().Email.Value)
}

func (s *testSuite) TestSenderFailurePropagates() {
	s.sender.ReturnError = true
	service := s.createService(IDENTIFIER_FIELD, EMAIL_FIELD)

	_, err := service.Run(context.Background(), Input{Identifier: "alice"})

	s.Require().Error(err)
}
