package fsutil

import (
	"io/fs"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

var (
	ErrIsDirectory         = errors.New("is a directory")
	ErrInvalidParamFile    = errors.New("invalid param file")
	ErrParamNotFound       = errors.New("parameter not found")
	ErrParamType           = errors.New("parameter has wrong type")
	ErrUnusedParams        = errors.New("unrecognized params")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// ErrorKind classifies a failure of CreateDirectory.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	// KindAlreadyExists is an already-exists failure on a path that is a
	// directory. CreateDirectory treats it as success and never returns it.
	KindAlreadyExists
	// KindNotADirectory means the path, or one of its components, exists but
	// is not a directory.
	KindNotADirectory
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAlreadyExists:
		return "already exists"
	case KindNotADirectory:
		return "not a directory"
	default:
		return "other"
	}
}

// KindOf reports which ErrorKind err belongs to. For already-exists failures
// the path carried by the error is checked again to tell a directory apart
// from anything else occupying the name.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, syscall.ENOTDIR) {
		return KindNotADirectory
	}
	if errors.Is(err, fs.ErrExist) {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && isDir(pathErr.Path) {
			return KindAlreadyExists
		}
		return KindNotADirectory
	}
	return KindOther
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
