package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNotFound = errors.New("stored file not found")
	ErrTooLarge = errors.New("file too large")
)

// Local keeps uploads on disk under dir, addressed by generated keys.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, publicBaseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create upload dir %s", dir)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// NewKey builds a storage key such as "documents/2f1c...e9.pdf".
func NewKey(prefix, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return prefix + "/" + uuid.NewString() + ext
}

func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if strings.Contains(key, "..") || clean == "/" {
		return "", errors.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(l.dir, clean), nil
}

// Save copies r to key, refusing anything larger than maxBytes. It returns the
// number of bytes written.
func (l *Local) Save(key string, r io.Reader, maxBytes int64) (int64, error) {
	p, err := l.path(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return 0, errors.Wrap(err, "create key dir")
	}

	f, err := os.Create(p)
	if err != nil {
		return 0, errors.Wrap(err, "create file")
	}

	n, err := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > maxBytes {
		err = errors.Wrapf(ErrTooLarge, "exceeds %d bytes", maxBytes)
	}
	if err != nil {
		_ = os.Remove(p)
		return 0, err
	}
	return n, nil
}

func (l *Local) Open(key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, err
}

func (l *Local) Delete(key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete file")
	}
	return nil
}

// URL is the public address of key, served by the /uploads static route.
func (l *Local) URL(key string) string {
	return l.baseURL + "/uploads/" + key
}

func (l *Local) Dir() string { return l.dir }
