package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"feed-service/internal/custom_errors"
	ports "feed-service/internal/domain/ports/output"
)

// Store keeps uploaded images in a single directory. References handed out
// and accepted are "<dir>/<file>", the form persisted on posts and served
// under the static /images route.
type Store struct {
	fs     afero.Fs
	dir    string
	prefix string
	log    ports.Logger
}

// NewStore confines all file operations to dir on base. Absolute directories
// stay absolute; relative ones resolve against the working directory.
func NewStore(base afero.Fs, dir string, log ports.Logger) (*Store, error) {
	dir = path.Clean(strings.ReplaceAll(dir, "\\", "/"))
	if dir == "." || dir == "/" {
		return nil, fmt.Errorf("%w: empty images directory", custom_errors.ErrInvalidArtifactPath)
	}
	if err := base.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create images directory: %w", err)
	}
	return &Store{
		fs:     afero.NewBasePathFs(base, dir),
		dir:    dir,
		prefix: path.Base(dir),
		log:    log,
	}, nil
}

// Dir is the cleaned directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Save(ctx context.Context, originalName string, r io.Reader) (string, error) {
	name := sanitizeName(originalName)
	if name == "" {
		return "", custom_errors.ErrInvalidArtifactPath
	}
	fileName := uuid.NewString() + "-" + name

	f, err := s.fs.OpenFile(fileName, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Error("Failed to create image file", slog.String("file", fileName), slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", custom_errors.ErrArtifactWrite, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(fileName)
		s.log.Error("Failed to write image file", slog.String("file", fileName), slog.String("error", err.Error()))
		return "", fmt.Errorf("%w: %v", custom_errors.ErrArtifactWrite, err)
	}
	if err := f.Close(); err != nil {
		_ = s.fs.Remove(fileName)
		return "", fmt.Errorf("%w: %v", custom_errors.ErrArtifactWrite, err)
	}

	return s.prefix + "/" + fileName, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	fileName, err := s.resolve(ref)
	if err != nil {
		return err
	}

	if err := s.fs.Remove(fileName); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return custom_errors.ErrArtifactNotFound
		}
		return err
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, ref string) (bool, error) {
	fileName, err := s.resolve(ref)
	if err != nil {
		return false, nil
	}

	exists, err := afero.Exists(s.fs, fileName)
	if err != nil {
		s.log.Error("Failed to stat image file", slog.String("file", fileName), slog.String("error", err.Error()))
		return false, fmt.Errorf("stat image %q: %w", ref, err)
	}
	return exists, nil
}

// resolve maps a stored reference back to a file name inside the directory.
// Anything that is not a direct child of the images directory is rejected.
func (s *Store) resolve(ref string) (string, error) {
	ref = strings.TrimPrefix(strings.ReplaceAll(ref, "\\", "/"), "/")
	rest, ok := strings.CutPrefix(ref, s.prefix+"/")
	if !ok || rest == "" || strings.Contains(rest, "/") || rest == "." || rest == ".." {
		return "", fmt.Errorf("%w: %q", custom_errors.ErrInvalidArtifactPath, ref)
	}
	return rest, nil
}

func sanitizeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == ".." {
		return ""
	}
	return strings.ReplaceAll(name, " ", "-")
}
