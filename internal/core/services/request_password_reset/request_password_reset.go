package requestpasswordreset

import (
	"context"
	"errors"
	c "userkit/internal/core/domain/common"
	e "userkit/internal/core/domain/errors"
	"userkit/internal/core/domain/logging"
	"userkit/internal/core/domain/user"
	"userkit/internal/core/services"

	"github.com/asaskevich/govalidator"
)

// Outcome tells the caller how far the reset request got. The HTTP boundary
// renders most of these identically so that the response does not reveal
// which identifiers exist.
type Outcome string

const (
	OutcomeSent               Outcome = "sent"
	OutcomeNoSuchUser         Outcome = "no_such_user"
	OutcomeEmailNotConfigured Outcome = "email_not_configured"
	OutcomeNoEmailOnFile      Outcome = "no_email_on_file"
	OutcomeInvalidEmail       Outcome = "invalid_email"
)

type Input struct {
	Identifier user.Identifier
}

func (i Input) GetRateLimitKey() string {
	return "request-password-reset::" + string(i.Identifier)
}

type Result struct {
	Outcome Outcome
	// Secret is set whenever a secret was issued, regardless of whether
	// the email went out. Only test mode may expose it to a client.
	Secret user.ResetSecret
}

type service struct {
	log             logging.Logger
	userRepository  user.UserRepository
	secretGenerator user.ResetSecretGenerator
	resetLinkSender user.ResetLinkSender
	identifierField string
	emailField      string
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	secretGenerator user.ResetSecretGenerator,
	resetLinkSender user.ResetLinkSender,
	identifierField string,
	emailField string,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if secretGenerator == nil {
		panic(e.NewNilArgumentError("secretGenerator"))
	}
	if resetLinkSender == nil {
		panic(e.NewNilArgumentError("resetLinkSender"))
	}
	return &service{
		log:             log,
		userRepository:  userRepository,
		secretGenerator: secretGenerator,
		resetLinkSender: resetLinkSender,
		identifierField: identifierField,
		emailField:      emailField,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	u, err := s.userRepository.GetByIdentifier(ctx, input.Identifier)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Info(
			ctx,
			"Password reset requested for unknown identifier.",
			logging.Entry("identifier", input.Identifier),
		)
		return Result{Outcome: OutcomeNoSuchUser}, nil
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("identifier", input.Identifier),
			logging.Entry("err", err),
		)
		return result, err
	}

	// A fresh secret on every request; any earlier outstanding secret for
	// this user becomes invalid, which is a safe outcome.
	secret := s.secretGenerator.GenerateResetSecret()
	if err := s.userRepository.SetResetSecret(ctx, u.ID, secret); err != nil {
		s.log.Error(
			ctx,
			"Could not store password reset secret.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}
	u.ResetSecret = c.NewOptional(secret, true)
	result.Secret = secret

	if s.emailField == "" {
		s.log.Error(
			ctx,
			"Password reset requested but no email field is configured.",
			logging.Entry("userID", u.ID),
		)
		result.Outcome = OutcomeEmailNotConfigured
		return result, nil
	}

	email := s.userEmail(u)
	if email == "" {
		s.log.Info(
			ctx,
			"Password reset requested for user without an email on file.",
			logging.Entry("userID", u.ID),
		)
		result.Outcome = OutcomeNoEmailOnFile
		return result, nil
	}
	if !govalidator.IsEmail(string(email)) {
		s.log.Warning(
			ctx,
			"Password reset requested for user with a malformed email.",
			logging.Entry("userID", u.ID),
		)
		result.Outcome = OutcomeInvalidEmail
		return result, nil
	}

	u.Email = c.NewOptional(email, true)
	if err := s.resetLinkSender.SendResetLink(ctx, u, secret); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset link.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "Password reset link has been sent.", logging.Entry("userID", u.ID))
	result.Outcome = OutcomeSent
	return result, nil
}

// userEmail resolves the address to notify. When the identifier field is
// the email field, the login key itself is the address.
func (s *service) userEmail(u user.User) c.Email {
	if s.emailField == s.identifierField {
		return c.NewEmail(string(u.Identifier))
	}
	if !u.Email.IsPresent {
		return ""
	}
	return u.Email.Value
}
