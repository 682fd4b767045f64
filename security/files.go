package security

import (
	"fmt"
	"io/fs"
	"os"
)

// CheckReadable verifies that path exists and can be opened for reading,
// and returns its file info.
func CheckReadable(path string) (fs.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return f.Stat()
}

// CheckReadableFile verifies that path is a readable regular file.
func CheckReadableFile(path string) error {
	info, err := CheckReadable(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("security: %s is not a regular file", path)
	}
	return nil
}
