package pkg

import (
	"errors"
	"io/fs"
	"os"
)

// PathExists reports whether path exists and is of the wanted kind (dir or regular file).
func PathExists(path string, isDir bool) (bool, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return stat.IsDir() == isDir, nil
}
