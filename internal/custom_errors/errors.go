package custom_errors

import "errors"

// Store and infrastructure sentinels. Repositories return these; the
// application layer maps them onto operational errors with a status.
var (
	ErrPostNotFound        = errors.New("post not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUserExists          = errors.New("user already exists")
	ErrDatabaseQuery       = errors.New("database query failed")
	ErrDatabaseScan        = errors.New("database scan failed")
	ErrCacheMiss           = errors.New("cache miss")
	ErrInvalidArtifactPath = errors.New("invalid artifact path")
	ErrArtifactNotFound    = errors.New("artifact not found")
	ErrArtifactWrite       = errors.New("failed to write artifact")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenSign           = errors.New("failed to sign token")
	ErrPasswordHash        = errors.New("failed to hash password")
)
