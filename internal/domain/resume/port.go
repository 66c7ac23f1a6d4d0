package resume

import (
	"context"
	"io"
)

type Repo interface {
	Create(ctx context.Context, r *Resume) error
	GetByID(ctx context.Context, id int64) (*Resume, error)
	ListByUser(ctx context.Context, userID int64) ([]*Resume, error)
}

// BlobStore persists the uploaded file bodies.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
}
