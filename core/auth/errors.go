package auth

import "errors"

var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and none is active.
	ErrNotAuthenticated = errors.New("auth: not authenticated")
	// ErrNoToken is returned by RefreshToken when there is nothing to refresh.
	ErrNoToken = errors.New("auth: no token to refresh")
	// ErrRefreshFailed is returned when the backend rejects a token refresh.
	// The local session is cleared.
	ErrRefreshFailed = errors.New("auth: token refresh failed")
	// ErrAlreadyRunning is returned when the refresher is started twice.
	ErrAlreadyRunning = errors.New("auth: refresher already running")
	// ErrNotRunning is returned when stopping a refresher that is not running.
	ErrNotRunning = errors.New("auth: refresher not running")
)
