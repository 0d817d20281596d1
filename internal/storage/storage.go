// Package storage provides temporary and persistent file storage.
// It defines the Storage interface (port) and implementations for local
// disk and S3 delivery of stitched outputs.
package storage

import (
	"context"
	"io"
)

// Storage defines the interface for temporary and persistent file storage.
// Temporary files hold intermediate artifacts during processing; numbered
// saves persist workflow outputs with collision-free sequential names.
type Storage interface {
	// SaveTemp saves data to a temporary file and returns the file path.
	// The name parameter is used as a hint for the filename.
	SaveTemp(ctx context.Context, name string, data io.Reader) (path string, err error)

	// LoadTemp reads a temporary file and returns a reader.
	// The caller is responsible for closing the returned ReadCloser.
	LoadTemp(ctx context.Context, path string) (io.ReadCloser, error)

	// CleanupTemp removes the specified temporary files.
	// It continues cleanup even if some files fail to delete.
	CleanupTemp(ctx context.Context, paths []string) error

	// SaveNumbered persists data under the output directory as
	// prefix_NNNNN[_suffix].png, picking the lowest unused 5-digit
	// sequence number. A prefix containing path separators places the
	// file in a subfolder of the output directory. Returns the written
	// file's path.
	SaveNumbered(ctx context.Context, prefix, suffix string, data []byte) (path string, err error)

	// UploadToS3 uploads data to S3 and returns the public URL.
	// Returns ErrS3NotConfigured if S3 is not configured.
	UploadToS3(ctx context.Context, key string, data io.Reader) (url string, err error)
}
