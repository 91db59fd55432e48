package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/carslab/funnel-api/pkg/objstore"
)

// LocalFragmentSource reads fragment HTML from a directory on disk. This is
// the default source: fragments ship inside the deploy artifact.
type LocalFragmentSource struct {
	dir string
}

// NewLocalFragmentSource creates a file-backed fragment source
func NewLocalFragmentSource(dir string) *LocalFragmentSource {
	return &LocalFragmentSource{dir: dir}
}

// Fetch reads one fragment file. Names are relative and must not escape the
// fragments directory.
func (s *LocalFragmentSource) Fetch(_ context.Context, name string) ([]byte, error) {
	if err := objstore.ValidateFragmentKey(name); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(name))
	if !strings.HasPrefix(filepath.Clean(path), filepath.Clean(s.dir)) {
		return nil, fmt.Errorf("fragment path escapes fragments dir: %s", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragment %s: %w", name, err)
	}
	return data, nil
}

// ObjectFragmentSource reads fragment HTML from S3-compatible object
// storage, for deployments where content is published out of band.
type ObjectFragmentSource struct {
	client *objstore.StorageClient
}

// NewObjectFragmentSource creates an object-storage-backed fragment source
func NewObjectFragmentSource(client *objstore.StorageClient) *ObjectFragmentSource {
	return &ObjectFragmentSource{client: client}
}

// Fetch downloads one fragment object
func (s *ObjectFragmentSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := objstore.ValidateFragmentKey(name); err != nil {
		return nil, err
	}
	return s.client.FetchFragment(ctx, name)
}
