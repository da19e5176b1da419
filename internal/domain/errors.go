package domain

import "errors"

var (
	// ErrProviderTimeout marks a primary-source fetch that exceeded its
	// wall-clock budget. Recovered locally by falling back.
	ErrProviderTimeout = errors.New("provider timed out")

	// ErrProviderFailure marks a provider request that failed outright
	// (transport error, non-2xx response, empty payload).
	ErrProviderFailure = errors.New("provider request failed")

	// ErrSchema marks a provider payload that decoded but failed schema
	// validation. Treated exactly like a provider failure.
	ErrSchema = errors.New("provider payload failed schema validation")

	// ErrAllProvidersExhausted is the logical "no live data" condition after
	// every configured provider for a source has been tried.
	ErrAllProvidersExhausted = errors.New("all providers exhausted")

	// ErrMalformedResponse marks an oracle response that does not satisfy the
	// audit result schema. The caller must surface an audit failure, never a
	// partial result.
	ErrMalformedResponse = errors.New("malformed oracle response")

	// ErrConfiguration marks missing or invalid configuration, e.g. an absent
	// API credential on the acquisition path.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAuditInFlight rejects an audit trigger while another audit for the
	// same portfolio is still outstanding.
	ErrAuditInFlight = errors.New("audit already in progress")

	// ErrEmptyPortfolio rejects an audit of a portfolio with no selections.
	ErrEmptyPortfolio = errors.New("portfolio is empty")

	// ErrInvalidSelection rejects a selection with absent or non-positive
	// quoted odds.
	ErrInvalidSelection = errors.New("selection requires strictly positive odds")

	ErrNotFound    = errors.New("not found")
	ErrRateLimited = errors.New("rate limited")
)
