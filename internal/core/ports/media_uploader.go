package ports

import (
	"context"
	"io"
)

// MediaUploader stores a file on the external media host and returns the
// public URL of the stored asset.
type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
}
