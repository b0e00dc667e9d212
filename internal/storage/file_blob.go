package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/folio/internal/common"
)

// FileBlobStore implements interfaces.BlobStore on the local filesystem.
// Key format: "niche/projects.json" -> "{basePath}/niche/projects.json"
type FileBlobStore struct {
	basePath string
	logger   *common.Logger
}

// NewFileBlobStore creates a file-based blob store rooted at config.BasePath.
func NewFileBlobStore(logger *common.Logger, config *FileBlobConfig) (*FileBlobStore, error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("file blob store base_path is required")
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", config.BasePath, err)
	}

	logger.Debug().Str("path", config.BasePath).Msg("FileBlobStore initialized")
	return &FileBlobStore{basePath: config.BasePath, logger: logger}, nil
}

// sanitizeKey keeps keys inside the base directory while allowing "/".
func (fb *FileBlobStore) sanitizeKey(key string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return strings.TrimPrefix(clean, string(filepath.Separator))
}

func (fb *FileBlobStore) keyToPath(key string) string {
	return filepath.Join(fb.basePath, fb.sanitizeKey(key))
}

// Get retrieves a blob by key.
func (fb *FileBlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(fb.keyToPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob %s: %w", key, err)
	}
	return data, nil
}

// Put stores a blob atomically using temp file + rename.
func (fb *FileBlobStore) Put(ctx context.Context, key string, data []byte) error {
	return fb.PutReader(ctx, key, bytes.NewReader(data))
}

// PutReader stores a blob from a reader atomically.
func (fb *FileBlobStore) PutReader(ctx context.Context, key string, r io.Reader) error {
	path := fb.keyToPath(key)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	fb.logger.Debug().Str("key", key).Msg("Blob written")
	return nil
}
