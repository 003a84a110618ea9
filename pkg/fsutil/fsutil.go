// Package fsutil provides crash-safe file replacement.
package fsutil

import (
	"os"
	"path/filepath"

	errs "github.com/matzehuels/umlstack/pkg/errors"
)

// WriteFileAtomic writes data to a temporary file in the target's directory
// and renames it over path. Readers see either the old or the new content,
// never a partial write. The temporary file is removed on failure.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "create temporary file for %s", path)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", path)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errs.Wrap(errs.ErrCodeIO, err, "sync %s", path)
	}
	if err = tmp.Close(); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "close %s", path)
	}
	if err = os.Chmod(name, perm); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "chmod %s", path)
	}
	if err = os.Rename(name, path); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "replace %s", path)
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// RemoveIfExists deletes path. A missing file is not an error.
func RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errs.Wrap(errs.ErrCodeIO, err, "remove %s", path)
	}
	return nil
}
