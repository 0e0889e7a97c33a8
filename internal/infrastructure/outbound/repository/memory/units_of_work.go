package memory

import (
	"context"

	ports "feed-service/internal/domain/ports/output"
	post_repository "feed-service/internal/domain/ports/output/post"
	user_repository "feed-service/internal/domain/ports/output/user"
)

// UnitOfWork hands out the shared in-memory repositories. Writes are applied
// immediately, so Commit and Rollback do nothing.
type UnitOfWork struct {
	posts post_repository.Repository
	users user_repository.Repository
}

func NewUnitOfWork(posts post_repository.Repository, users user_repository.Repository) ports.UnitOfWork {
	return &UnitOfWork{posts: posts, users: users}
}

func (u *UnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	return &Transaction{posts: u.posts, users: u.users}, nil
}

type Transaction struct {
	posts post_repository.Repository
	users user_repository.Repository
}

func (t *Transaction) PostRepository() post_repository.Repository { return t.posts }

func (t *Transaction) UserRepository() user_repository.Repository { return t.users }

func (t *Transaction) Commit(ctx context.Context) error { return nil }

func (t *Transaction) Rollback(ctx context.Context) error { return nil }
