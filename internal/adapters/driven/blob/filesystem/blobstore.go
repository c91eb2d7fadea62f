// Package filesystem provides a local-disk implementation of
// driven.BlobStore. Payloads and per-page artifacts are laid out under a
// single root directory using the relative paths produced by the domain
// layer, so a version's bytes live at a stable location for its lifetime.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/custodia-labs/pagevault/internal/core/domain"
	"github.com/custodia-labs/pagevault/internal/core/ports/driven"
)

// Ensure BlobStore implements the interface.
var _ driven.BlobStore = (*BlobStore)(nil)

// BlobStore stores blobs as files under a root directory.
type BlobStore struct {
	root string
}

// NewBlobStore creates a blob store rooted at root, creating the directory
// if needed.
func NewBlobStore(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root: %w", err)
	}
	return &BlobStore{root: root}, nil
}

func (s *BlobStore) abs(path string) string {
	return filepath.Join(s.root, filepath.FromSlash(path))
}

// Read returns the bytes stored at path.
func (s *BlobStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(s.abs(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("blob %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Write stores data at path. The write goes through a temp file in the
// destination directory followed by a rename, so readers never observe a
// partially written blob.
func (s *BlobStore) Write(_ context.Context, path string, data []byte) error {
	dst := s.abs(path)
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("creating temp blob: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp blob: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publishing blob: %w", err)
	}
	return nil
}

// CopyPage copies one page's artifact directory from src to dst. A missing
// source directory is a no-op: not every page has side data.
func (s *BlobStore) CopyPage(_ context.Context, src, dst domain.PagePath) error {
	srcDir := s.abs(src.Dir())
	if _, err := os.Stat(srcDir); errors.Is(err, fs.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("checking page artifacts: %w", err)
	}

	dstDir := s.abs(dst.Dir())
	err := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dstDir, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	if err != nil {
		return fmt.Errorf("copying page artifacts: %w", err)
	}
	return nil
}
