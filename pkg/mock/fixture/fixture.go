// Package mock embeds the files a mock project is seeded with.
package mock

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

//go:embed fixtures/*
var fixtures embed.FS

// Copy writes the named fixture to dst, creating parent directories as needed.
func Copy(name, dst string) error {
	content, err := fs.ReadFile(fixtures, path.Join("fixtures", name))
	if err != nil {
		return errors.Wrapf(err, "reading fixture %s", name)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(dst))
	}

	return errors.Wrapf(os.WriteFile(dst, content, 0o644), "writing %s", dst)
}
