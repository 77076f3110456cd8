// Package uploads stores donor-supplied food images.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrTooLarge        = errors.New("upload exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrEmpty           = errors.New("empty upload")
)

// allowed maps sniffed MIME types to the extension files are stored with.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Saver writes images under dir with generated names.
type Saver struct {
	dir      string
	maxBytes int64
}

func NewSaver(dir string, maxBytes int64) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{dir: dir, maxBytes: maxBytes}, nil
}

// Dir is the directory files are stored in.
func (s *Saver) Dir() string { return s.dir }

// Save stores the uploaded file and returns its stored name.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", ErrTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.SaveReader(f)
}

// SaveReader sniffs r and stores it as a new file. The client's filename is never used.
func (s *Saver) SaveReader(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}

	ext, ok := extensionFor(mimetype.Detect(data))
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return name, nil
}

func extensionFor(m *mimetype.MIME) (string, bool) {
	for mime, ext := range allowed {
		if m.Is(mime) {
			return ext, true
		}
	}
	return "", false
}

// Remove deletes a stored file by the name Save returned.
func (s *Saver) Remove(name string) error {
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid upload name %q", name)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
