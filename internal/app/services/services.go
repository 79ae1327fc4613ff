package services

import (
	"userkit/internal/app/deps"
	drl "userkit/internal/core/domain/ratelimiter"
	"userkit/internal/core/services"
	"userkit/internal/core/services/auth"
	changepassword "userkit/internal/core/services/change_password"
	createuser "userkit/internal/core/services/create_user"
	getuserbysessiontoken "userkit/internal/core/services/get_user_by_session_token"
	login "userkit/internal/core/services/log_in"
	logout "userkit/internal/core/services/log_out"
	ratelimiting "userkit/internal/core/services/rate_limiting"
	redeempasswordreset "userkit/internal/core/services/redeem_password_reset"
	requestpasswordreset "userkit/internal/core/services/request_password_reset"
	resetpassword "userkit/internal/core/services/reset_password"
)

type Services struct {
	CreateUser            services.Service[createuser.Input, createuser.Result]
	LogIn                 services.Service[login.Input, login.Result]
	LogOut                services.Service[logout.Input, logout.Result]
	ChangePassword        services.Service[changepassword.Input, changepassword.Result]
	RequestPasswordReset  services.Service[requestpasswordreset.Input, requestpasswordreset.Result]
	RedeemPasswordReset   services.Service[redeempasswordreset.Input, redeempasswordreset.Result]
	ResetPassword         services.Service[resetpassword.Input, resetpassword.Result]
	GetUserBySessionToken services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.CreateUser = createuser.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogIn = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 10},
		login.New(
			deps.Logger,
			deps.UserRepository,
			deps.SessionRepository,
			deps.PasswordHasher,
			deps.SessionTokenGenerator,
			deps.Now,
		),
	)
	s.LogOut = logout.New(
		deps.Logger,
		deps.SessionRepository,
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.SessionRepository,
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.Config.PasswordMinLength,
		),
	)
	s.RequestPasswordReset = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.Limit{Interval: drl.Hour, Value: 3},
		requestpasswordreset.New(
			deps.Logger,
			deps.UserRepository,
			deps.ResetSecretGenerator,
			deps.ResetLinkSender,
			deps.Config.UserIdentifierField,
			deps.Config.UserEmailField,
		),
	)
	s.RedeemPasswordReset = redeempasswordreset.New(
		deps.Logger,
		deps.UserRepository,
	)
	s.ResetPassword = resetpassword.New(
		deps.Logger,
		deps.UserRepository,
		deps.PasswordHasher,
		deps.Config.PasswordMinLength,
	)
	s.GetUserBySessionToken = getuserbysessiontoken.New(
		deps.Logger,
		deps.SessionRepository,
	)

	return s
}
