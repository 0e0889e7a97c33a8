package auth

import (
	model "feed-service/internal/domain/models"
)

//go:generate mockery --name TokenManager --dir . --output ../../../../../mocks/auth --outpkg mocks --filename TokenManager.go
type TokenManager interface {
	Issue(identity model.Identity) (string, error)
	Verify(token string) (model.Identity, error)
}

//go:generate mockery --name PasswordHasher --dir . --output ../../../../../mocks/auth --outpkg mocks --filename PasswordHasher.go
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, digest string) bool
}
