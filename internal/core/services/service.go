package services

import "context"

// Service is the shape of every password-lifecycle use case. Cross-cutting
// concerns (session authentication, rate limiting) are decorators with the
// same shape, so handlers stay unaware of them.
type Service[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}
