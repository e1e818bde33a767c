package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalUploader writes to a directory served under urlPrefix.
type LocalUploader struct {
	Dir       string
	URLPrefix string
}

func NewLocalUploader(dir string) *LocalUploader {
	return &LocalUploader{Dir: dir, URLPrefix: "/uploads"}
}

func (l *LocalUploader) Upload(_ context.Context, name, _ string, r io.Reader) (string, error) {
	dst := filepath.Join(l.Dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return fmt.Sprintf("%s/%s", l.URLPrefix, filepath.ToSlash(name)), nil
}
