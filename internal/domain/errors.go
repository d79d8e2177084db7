package domain

import "errors"

// Business-rule and processing failures surfaced across component
// boundaries. Routine outcomes (already synced, no GPS data) are modeled
// as typed results instead, not errors.
var (
	// ErrValidation marks malformed or insufficient input. Rejected, never
	// retried.
	ErrValidation = errors.New("validation failed")

	// ErrNoActiveSeason is returned when no season window contains today.
	// Distinct from a generic not-found so callers can show an actionable
	// message.
	ErrNoActiveSeason = errors.New("no active season for the current date")

	// ErrNotConnected is returned when a user has no stored Strava
	// credential.
	ErrNotConnected = errors.New("user is not connected to strava")

	// ErrRefreshFailed is returned when a refresh-token exchange is
	// rejected upstream. Stored credentials are left untouched.
	ErrRefreshFailed = errors.New("strava token refresh failed")

	// ErrExchangeFailed is returned when an authorization-code exchange is
	// rejected upstream.
	ErrExchangeFailed = errors.New("strava code exchange failed")

	// ErrGeometryProcessing is returned when polygon repair degenerates a
	// loop to an empty geometry. The merge is aborted and the prior
	// territory preserved.
	ErrGeometryProcessing = errors.New("territory geometry processing failed")
)
