package artifact

import (
	"context"
	"io"
)

// Locator reports whether a reference points at a stored file. A reference
// that cannot belong to the store is reported as absent, not as an error.
type Locator interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Store persists uploaded image files. Paths returned by Save are the
// references stored on posts.
//
//go:generate mockery --name Store --dir . --output ../../../../../mocks/artifact --outpkg mocks --filename Store.go
type Store interface {
	Locator
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// Scheduler retires artifacts that are no longer referenced. Implementations
// must not block the caller on the deletion itself.
//
//go:generate mockery --name Scheduler --dir . --output ../../../../../mocks/artifact --outpkg mocks --filename Scheduler.go
type Scheduler interface {
	ScheduleDeletion(path string)
}
