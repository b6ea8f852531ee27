package fetch

import (
	"bytes"
	"compress/bzip2"
	"fmt"
	"io"
)

// DecompressBz2 decompresses a bz2 payload fully into memory.
// Corrupt input is reported, never silently truncated.
func DecompressBz2(data []byte) ([]byte, error) {
	r := bzip2.NewReader(bytes.NewReader(data))
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompress bz2: %w", err)
	}
	return out, nil
}
