// Package storage stores product images behind a small disk abstraction.
//
// Two drivers ship with the app:
//   - "local": files under STORAGE_LOCAL_ROOT, served at /storage (default)
//   - "s3": S3-compatible object storage (AWS S3, MinIO, R2)
//
// Boot once at startup, then use the default-disk helpers:
//
//	storage.Connect()
//	storage.PutStream("products/42.jpg", file)
//	url := storage.URL("products/42.jpg")
package storage

import "io"

// Disk is the storage driver interface.
type Disk interface {
	// Put writes content to path, creating parents as needed.
	Put(path string, content []byte) error

	// PutStream writes from r to path.
	PutStream(path string, r io.Reader) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// GetStream returns a ReadCloser for the file. Caller closes it.
	GetStream(path string) (io.ReadCloser, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Delete removes a file. Deleting a missing file is not an error.
	Delete(path string) error

	// URL returns the public URL for path.
	URL(path string) string
}
