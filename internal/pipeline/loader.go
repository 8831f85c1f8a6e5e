package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// DefaultMaxInputBytes bounds a single input table
const DefaultMaxInputBytes = 1 << 30

// Loader reads input tables into memory
type Loader struct {
	maxBytes int64
}

// NewLoader creates a loader; maxBytes <= 0 selects DefaultMaxInputBytes
func NewLoader(maxBytes int64) *Loader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	return &Loader{maxBytes: maxBytes}
}

// LoadResult contains the raw bytes of an input table and file metadata
type LoadResult struct {
	Path    string
	Data    []byte
	ModTime time.Time
}

// Load reads the whole file at path
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > l.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, l.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(f, l.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > l.maxBytes {
		return nil, fmt.Errorf("%s exceeds %d bytes", path, l.maxBytes)
	}

	return &LoadResult{
		Path:    path,
		Data:    data,
		ModTime: info.ModTime(),
	}, nil
}
