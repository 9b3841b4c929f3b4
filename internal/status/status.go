package status

import "errors"

var (
	// ErrOrderNotFound means no order matches the gateway request code.
	// The webhook is acknowledged and nothing is written; the code may
	// belong to an unrelated or stale integration.
	ErrOrderNotFound = errors.New("order: no order for payment request code")

	// ErrAlreadyProcessed means the order left pending before this
	// delivery. Success-no-op for the caller.
	ErrAlreadyProcessed = errors.New("order: already processed")

	// ErrUpstreamUnavailable marks transient gateway or store failures.
	// The webhook response signals the sender to redeliver.
	ErrUpstreamUnavailable = errors.New("gateway: upstream unavailable")

	// ErrDataIntegrity marks reference data the pipeline cannot proceed
	// without, e.g. a pass pointing at missing event calendar days.
	ErrDataIntegrity = errors.New("ticket: reference data incomplete")

	ErrInvalidToken = errors.New("token: signature or format invalid")
	ErrTokenExpired = errors.New("token: expired")

	// ErrInvalidInput marks rejected request payloads; no side effects.
	ErrInvalidInput = errors.New("input: invalid request payload")

	// ErrPassUnavailable means the requested pass SKU is unknown or no
	// longer on sale.
	ErrPassUnavailable = errors.New("pass: unavailable")
)
