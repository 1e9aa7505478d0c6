package storage

import "context"

// ObjectStorage stores public binary artifacts (product images, invoice
// PDFs) and returns a URL clients can fetch directly.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
