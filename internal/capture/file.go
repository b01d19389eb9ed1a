package capture

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/klauspost/compress/zstd"
)

// CompressedSuffix marks capture files framed with zstd.
const CompressedSuffix = ".zst"

// OpenFile opens a capture file for reading, decompressing it when its name
// ends with CompressedSuffix. The path "-" reads standard input.
func OpenFile(path string) (io.ReadCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		if f, err = os.Open(path); err != nil {
			return nil, fmt.Errorf("opening capture file: %w", err)
		}
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // Best-effort cleanup in error path
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	return &zstdReadCloser{Decoder: zr, file: f}, nil
}

// CreateFile creates a capture file for writing, compressing it when its name
// ends with CompressedSuffix. The path "-" writes standard output.
func CreateFile(path string) (io.WriteCloser, error) {
	var f *os.File
	if path == "-" {
		f = os.Stdout
	} else {
		var err error
		if f, err = os.Create(path); err != nil {
			return nil, fmt.Errorf("creating capture file: %w", err)
		}
	}
	if !strings.HasSuffix(path, CompressedSuffix) {
		return f, nil
	}
	zw, err := zstd.NewWriter(f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // Best-effort cleanup in error path
		return nil, fmt.Errorf("creating zstd stream: %w", err)
	}
	return &zstdWriteCloser{Encoder: zw, file: f}, nil
}

type zstdReadCloser struct {
	*zstd.Decoder
	file *os.File
}

func (r *zstdReadCloser) Close() error {
	r.Decoder.Close()
	return r.file.Close()
}

type zstdWriteCloser struct {
	*zstd.Encoder
	file *os.File
}

// Close flushes the zstd frame before closing the file.
func (w *zstdWriteCloser) Close() error {
	var result *multierror.Error
	if err := w.Encoder.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing zstd stream: %w", err))
	}
	if err := w.file.Close(); err != nil {
		result = multierror.Append(result, fmt.Errorf("closing capture file: %w", err))
	}
	return result.ErrorOrNil()
}
