package publication

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// IsGenerated reports whether the file at path starts with MagicComment.
// A missing file is not generated and not an error.
func IsGenerated(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(MagicComment))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return bytes.Equal(head[:n], []byte(MagicComment)), nil
}
