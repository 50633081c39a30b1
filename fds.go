package fsutil

import (
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// GetOpenFileDescriptors lists the descriptors open in this process. The
// listing may include the descriptor used to read it, which is closed by the
// time the result is returned.
func GetOpenFileDescriptors() ([]int, error) {
	if fdDir == "" {
		return nil, errors.Wrap(ErrUnsupportedPlatform, "open file descriptors are only listed on linux and darwin")
	}
	names, err := ListDir(fdDir)
	if err != nil {
		return nil, err
	}
	fds := make([]int, 0, len(names))
	for _, name := range names {
		fd, err := strconv.Atoi(name)
		if err != nil {
			return nil, errors.Errorf("file name '%s/%s' is not an integer", fdDir, name)
		}
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	return fds, nil
}

// CloseAllFileDescriptors closes every open descriptor >= minFD. Close errors
// are ignored since the listing can contain descriptors that are already gone.
func CloseAllFileDescriptors(minFD int) error {
	fds, err := GetOpenFileDescriptors()
	if err != nil {
		return err
	}
	for _, fd := range fds {
		if fd >= minFD {
			closeFD(fd)
		}
	}
	return nil
}
