package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/nierarc/errs"
)

// Sink writes files below one destination directory.
type Sink struct {
	dir string
}

// NewSink creates dir if needed and returns a Sink rooted there.
func NewSink(dir string) (*Sink, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty destination directory", errs.ErrIo)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", errs.ErrIo, dir, err)
	}

	return &Sink{dir: filepath.Clean(dir)}, nil
}

// Dir returns the destination directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Path maps an entry name to its destination path.
//
// Names use '/' or '\' as separators. Absolute names and names with a ".." segment are
// rejected with errs.ErrPathTraversal; they are never rewritten into something local.
func (s *Sink) Path(name string) (string, error) {
	rel, err := LocalName(name)
	if err != nil {
		return "", err
	}

	return filepath.Join(s.dir, rel), nil
}

// LocalName validates an entry name and converts it to a relative OS path.
func LocalName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty entry name", errs.ErrPathTraversal)
	}

	slashed := strings.ReplaceAll(name, `\`, "/")
	if strings.HasPrefix(slashed, "/") {
		return "", fmt.Errorf("%w: absolute entry name %q", errs.ErrPathTraversal, name)
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: entry name %q has a parent segment", errs.ErrPathTraversal, name)
		}
	}

	rel := filepath.FromSlash(slashed)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: entry name %q is not a local path", errs.ErrPathTraversal, name)
	}

	return rel, nil
}

// WriteFile writes data to the entry name and returns the written path.
func (s *Sink) WriteFile(name string, data []byte) (string, error) {
	return s.WriteFunc(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteFunc streams the content produced by fn to the entry name.
//
// The content goes to a temporary file in the destination directory that is renamed
// into place only when fn and the close succeed; on failure nothing is left behind and
// an existing file of the same name is untouched.
func (s *Sink) WriteFunc(name string, fn func(w io.Writer) error) (string, error) {
	dst, err := s.Path(name)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %w", errs.ErrIo, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".nierarc_*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", errs.ErrIo, err)
	}
	tmpPath := tmp.Name()

	if err := fn(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpPath)

		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: write %s: %w", errs.ErrIo, dst, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: chmod %s: %w", errs.ErrIo, dst, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: save %s: %w", errs.ErrIo, dst, err)
	}

	return dst, nil
}
