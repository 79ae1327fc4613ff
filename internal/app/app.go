package app

import (
	"net/http"
	"userkit/internal/app/deps"
	"userkit/internal/app/services"
	"userkit/internal/http/handlers/auth"
	login "userkit/internal/http/handlers/auth/log_in"
	logout "userkit/internal/http/handlers/auth/log_out"
	changepassword "userkit/internal/http/handlers/password/change_password"
	redeempasswordreset "userkit/internal/http/handlers/password/redeem_password_reset"
	requestpasswordreset "userkit/internal/http/handlers/password/request_password_reset"
	resetpassword "userkit/internal/http/handlers/password/reset_password"
	"userkit/internal/http/handlers/referer"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	isTestMode := deps.Config.IsTestMode

	refererMiddleware := referer.NewMiddleware(deps.Logger, deps.RefererGuard)

	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/login", login.New(s.LogIn))
	authRouter.Method(http.MethodPost, "/logout", logout.New(s.LogOut))

	passwordRouter := chi.NewRouter()
	passwordRouter.Use(auth.SetAuthTokenToContext)
	passwordRouter.Use(refererMiddleware.CaptureReferer)
	passwordRouter.Method(
		http.MethodPost,
		"/change",
		changepassword.New(s.ChangePassword, deps.RefererGuard),
	)
	passwordRouter.Method(
		http.MethodPost,
		"/request",
		requestpasswordreset.New(
			s.RequestPasswordReset,
			s.GetUserBySessionToken,
			deps.ChangePasswordURL,
			isTestMode,
		),
	)
	passwordRouter.Method(
		http.MethodGet,
		"/reset/{userIdentifier}/{secretCode}",
		redeempasswordreset.New(s.RedeemPasswordReset),
	)
	passwordRouter.Method(
		http.MethodPost,
		"/reset/{userIdentifier}/{secretCode}",
		resetpassword.New(s.ResetPassword, deps.RefererGuard),
	)

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	router.Mount("/password", passwordRouter)

	return &http.Server{
		Handler: router,
		Addr:    deps.Config.BindAddress,
	}
}
