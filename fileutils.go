package fsutil

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// replaced in tests to reproduce creation races and filesystem failures
var mkdirAll = os.MkdirAll

// CreateDirectory makes sure path exists as a directory, creating any missing
// parents. A path that already is a directory is not an error, and neither is
// the empty path, which is left alone.
//
// Any other failure is returned as reported by the filesystem.
func CreateDirectory(path string) error {
	if path == "" {
		return nil
	}
	err := mkdirAll(path, activeConfig.DirMode)
	if err == nil {
		return nil
	}
	//someone else may have created it in between
	if errors.Is(err, os.ErrExist) && isDir(path) {
		return nil
	}
	return err
}

// CreateParentDirectory ensures the directory holding filename. A bare file
// name has no containing directory and is a no-op.
func CreateParentDirectory(filename string) error {
	if !strings.ContainsAny(filename, pathSeparators) {
		return nil
	}
	return CreateDirectory(filepath.Dir(filename))
}

const pathSeparators = string(filepath.Separator) + "/"

// CreateDirectories runs CreateDirectory for every path, at most
// Config.Concurrency at a time. All paths are attempted and every failure is
// returned, combined.
func CreateDirectories(ctx context.Context, paths ...string) error {
	errs := make([]error, len(paths))
	var g errgroup.Group
	if activeConfig.Concurrency > 0 {
		g.SetLimit(activeConfig.Concurrency)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = errors.Wrapf(err, "skipped directory: %s", path)
				return nil
			}
			if err := CreateDirectory(path); err != nil {
				errs[i] = errors.Wrapf(err, "error while creating directory: %s", path)
			}
			return nil
		})
	}
	_ = g.Wait()
	return multierr.Combine(errs...)
}

// FileExists reports whether path can be stat'ed. Only a not-exist failure
// counts as false; other stat errors are returned.
func FileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "error while checking file: %s", path)
}

// IsDirectory reports whether path is a directory. path must exist.
func IsDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "error while checking directory: %s", path)
	}
	return info.IsDir(), nil
}

// IsEmptyDirectory reports whether the directory at path has no entries.
func IsEmptyDirectory(path string) (bool, error) {
	dir, err := os.Open(path)
	if err != nil {
		return false, errors.Wrapf(err, "error while opening directory: %s", path)
	}
	defer dir.Close()

	_, err = dir.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "error while reading directory: %s", path)
	}
	return false, nil
}

// ListDir returns the sorted names of the entries in path.
func ListDir(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error while listing directory: %s", path)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names, nil
}

// DeleteFile removes a file. Directories are refused with ErrIsDirectory.
func DeleteFile(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return errors.Wrapf(err, "error while deleting file: %s", path)
	}
	if info.IsDir() {
		return errors.Wrapf(ErrIsDirectory, "error while deleting file: %s", path)
	}
	if err = os.Remove(path); err != nil {
		return errors.Wrapf(err, "error while deleting file: %s", path)
	}
	return nil
}

// WriteFile writes data to path. Unless clobber is set, an existing file is
// left untouched and an error matching os.ErrExist is returned.
func WriteFile(path string, data []byte, clobber bool) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !clobber {
		flags |= os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, activeConfig.FileMode)
	if err != nil {
		return errors.Wrapf(err, "error while opening file: %s", path)
	}
	if _, err = file.Write(data); err != nil {
		file.Close()
		return errors.Wrapf(err, "error while writing file: %s", path)
	}
	if err = file.Close(); err != nil {
		return errors.Wrapf(err, "error while closing file: %s", path)
	}
	return nil
}
