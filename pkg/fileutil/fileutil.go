package fileutil

import (
	"os"
	"path/filepath"

	"github.com/rohmanhakim/top-movies/pkg/failure"
)

// EnsureDir creates dir joined with path if it does not exist yet.
func EnsureDir(dir string, path ...string) failure.ClassifiedError {
	target := filepath.Join(append([]string{dir}, path...)...)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return &FileError{
			Message: err.Error(),
			Cause:   ErrCausePathError,
		}
	}
	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it
// over path, so readers see either the old or the new content in full.
func WriteFileAtomic(path string, data []byte) failure.ClassifiedError {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return writeError(err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return writeError(err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		return writeError(err)
	}
	if err := tmp.Sync(); err != nil {
		return writeError(err)
	}
	if err := tmp.Close(); err != nil {
		return writeError(err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeError(err)
	}
	return nil
}

func writeError(err error) *FileError {
	return &FileError{
		Message: err.Error(),
		Cause:   ErrCauseWriteError,
	}
}
