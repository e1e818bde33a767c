// Package storage saves uploaded requisition photos and returns their URL.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// Uploader stores an object and returns the URL clients use to fetch it.
type Uploader interface {
	Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

// ObjectName builds a collision-resistant object name under prefix.
func ObjectName(prefix, filename string, now time.Time) string {
	base := sanitize(path.Base(strings.ReplaceAll(filename, "\\", "/")))
	if base == "" || base == "." || base == "/" {
		base = "photo.jpg"
	}
	return path.Join(prefix, fmt.Sprintf("%s-%s", now.Format("20060102-150405.000"), base))
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
