package model

import "errors"

var (
	// ErrProviderUnavailable covers transport failures and 5xx answers
	// from the embedding/generation provider. Callers propagate it, no
	// retries happen at this layer.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited maps the provider's 429 answer.
	ErrRateLimited = errors.New("provider rate limited")
)
