package fs

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
)

// NotFoundError is returned by List when the directory to scan does not exist.
type NotFoundError struct {
	Dir string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directory does not exist: %s", e.Dir)
}

// IsNotFound reports whether err is a *NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// List returns the absolute paths of regular files under dir whose names match
// the shell glob pattern. Without recursive only direct children are matched.
// The order is the filesystem enumeration order.
func List(dir, pattern string, recursive bool) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not resolve directory %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Dir: dir}
		}
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	if !recursive {
		return listDir(abs, pattern)
	}

	var files []string
	err = filepath.WalkDir(abs, func(path string, d iofs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !isRegular(path, d) {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func listDir(dir, pattern string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Readdir without sorting keeps the enumeration order of the filesystem.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !isRegular(path, e) {
			continue
		}
		if ok, _ := filepath.Match(pattern, e.Name()); ok {
			files = append(files, path)
		}
	}
	return files, nil
}

// isRegular follows a symlink entry to its target; links to directories or
// dangling links are not regular files.
func isRegular(path string, d iofs.DirEntry) bool {
	if d.Type()&iofs.ModeSymlink != 0 {
		return IsRegularFile(path)
	}
	return d.Type().IsRegular()
}

// IsRegularFile reports whether path currently names a regular file.
func IsRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether anything exists at path (without following a final symlink).
func Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// SameFile reports whether a and b name the same file on disk. On
// case-insensitive filesystems "a.txt" and "A.txt" are the same file.
func SameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	ia, err := os.Stat(a)
	if err != nil {
		return false
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ia, ib)
}

// IsCaseVariant reports whether a and b are two spellings of one directory
// entry: same directory, base names equal up to case, and the same file on
// disk. Hard links under unrelated names are not case variants.
func IsCaseVariant(a, b string) bool {
	a, b = filepath.Clean(a), filepath.Clean(b)
	if filepath.Dir(a) != filepath.Dir(b) {
		return false
	}
	if !strings.EqualFold(filepath.Base(a), filepath.Base(b)) {
		return false
	}
	return SameFile(a, b)
}
