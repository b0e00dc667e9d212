// Package storage provides file-backed blobs and the series sources built on them.
package storage

import "errors"

// ErrBlobNotFound is returned when a key has no backing file.
var ErrBlobNotFound = errors.New("blob not found")

// FileBlobConfig configures the local filesystem blob store.
type FileBlobConfig struct {
	BasePath string `toml:"base_path"`
}
