package user

import "context"

type ResetSecretGenerator interface {
	GenerateResetSecret() ResetSecret
}

type ResetLinkSender interface {
	SendResetLink(ctx context.Context, u User, secret ResetSecret) error
}

type SessionTokenGenerator interface {
	GenerateSessionToken() SessionToken
}
