package fs

import (
	"errors"
	"fmt"
	"os"
	"syscall"
)

// renameFunc is replaceable so tests can simulate rename failures.
var renameFunc = renameNoReplace

// ErrTargetExists is returned when the rename target is already occupied by a
// different file.
var ErrTargetExists = errors.New("target already exists")

// CrossDeviceError marks a rename that failed with EXDEV. No copy+delete
// fallback is attempted.
type CrossDeviceError struct {
	Src string
	Dst string
	Err error
}

func (e *CrossDeviceError) Error() string {
	return fmt.Sprintf("cannot move %q to %q across filesystems: %v", e.Src, e.Dst, e.Err)
}

func (e *CrossDeviceError) Unwrap() error { return e.Err }

// IsCrossDevice reports whether err is a *CrossDeviceError.
func IsCrossDevice(err error) bool {
	var e *CrossDeviceError
	return errors.As(err, &e)
}

// Rename moves src to dst and never replaces an unrelated existing file at dst.
// Renaming a path onto itself, or onto a case variant of itself on a
// case-insensitive filesystem, is allowed. A hard link at dst counts as an
// existing file.
func Rename(src, dst string) error {
	if src == dst {
		if _, err := os.Lstat(src); err != nil {
			return err
		}
		return nil
	}
	if Exists(dst) && IsCaseVariant(src, dst) {
		return wrapEXDEV(src, dst, os.Rename(src, dst))
	}
	return wrapEXDEV(src, dst, renameFunc(src, dst))
}

func wrapEXDEV(src, dst string, err error) error {
	if err == nil {
		return nil
	}
	if isEXDEV(err) {
		return &CrossDeviceError{Src: src, Dst: dst, Err: err}
	}
	return err
}

func isEXDEV(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}
	var le *os.LinkError
	return errors.As(err, &le) && errors.Is(le.Err, syscall.EXDEV)
}

// checkThenRename is the portable fallback. The window between the check and
// the rename is accepted; see renameNoReplace for the atomic variant.
func checkThenRename(src, dst string) error {
	if Exists(dst) {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: ErrTargetExists}
	}
	return os.Rename(src, dst)
}

// ErrVanished is reported when the file to rename no longer exists.
var ErrVanished = errors.New("file no longer exists")

// RenameError is a per-file failure during execute or undo. Name is the base
// name of the file the user knows about.
type RenameError struct {
	Op   string
	Name string
	Err  error
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Op, e.Name, e.Err)
}

func (e *RenameError) Unwrap() error { return e.Err }
