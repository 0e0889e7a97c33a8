package ports

import (
	"context"

	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
)

//go:generate mockery --name UnitOfWork --dir . --output ../../../../mocks/uow --outpkg mocks --filename UnitOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Transaction scopes repositories to one unit of work. Stores without
// multi-document transactions apply writes immediately and treat
// Rollback as a no-op.
//
//go:generate mockery --name Transaction --dir . --output ../../../../mocks/uow --outpkg mocks --filename Transaction.go
type Transaction interface {
	PostRepository() post_repository.Repository
	UserRepository() user_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
