package port

import "context"

// ObjectStorage abstracts the content-addressed object store. The pipeline
// is read-only against it: it accumulates the full object before returning.
type ObjectStorage interface {
	Download(ctx context.Context, key string) ([]byte, error)
}
