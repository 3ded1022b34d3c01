package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize limits a single uploaded file to 5MB.
const MaxUploadSize = 5 << 20

// ErrUnsupportedType is returned for anything that is not an allowed image.
var ErrUnsupportedType = errors.New("unsupported file type")

// ErrNotFound is returned when the referenced file does not exist.
var ErrNotFound = errors.New("file not found")

// Only images are accepted for logos.
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Store keeps uploaded files on local disk and hands out public references
// under /uploads/.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Store) Dir() string {
	return s.dir
}

// Save stores the file under a random name and returns its public URL
// reference.
func (s *Store) Save(contentType string, r io.Reader) (string, error) {
	ext, ok := extByContentType[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", ErrUnsupportedType
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, MaxUploadSize)); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return "/uploads/" + name, nil
}

// Delete removes the file behind an opaque reference as returned by Save.
// Only the base name is used, so a reference cannot escape the store
// directory.
func (s *Store) Delete(ref string) error {
	name := filepath.Base(strings.TrimSpace(ref))
	if name == "" || name == "." || name == "/" {
		return ErrNotFound
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	return err
}
