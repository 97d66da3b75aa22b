package tracefile

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type readCounter struct {
	readCount *uint64
	reader    io.Reader
}

func (r readCounter) Read(p []byte) (n int, err error) {
	n, err = r.reader.Read(p)
	*r.readCount += uint64(n)
	return
}

type traceReader struct {
	io.Reader
	closers []io.Closer
}

func (t *traceReader) Close() error {
	var first error
	for i := len(t.closers) - 1; i >= 0; i-- {
		if err := t.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Open opens a trace file, decompressing it when it starts with the gzip magic bytes whatever
// its extension, and dropping a leading UTF-8 byte-order mark. Bytes read from disk are added
// to readCount when it is not nil.
func Open(path string, readCount *uint64) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	if readCount == nil {
		readCount = new(uint64)
	}
	buffered := bufio.NewReader(readCounter{readCount: readCount, reader: f})
	result := &traceReader{closers: []io.Closer{f}}

	magic, err := buffered.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(buffered)
		if err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "open gzip stream %s", path)
		}
		result.closers = append(result.closers, gz)
		result.Reader = transform.NewReader(gz, unicode.BOMOverride(transform.Nop))
	} else {
		result.Reader = transform.NewReader(buffered, unicode.BOMOverride(transform.Nop))
	}
	return result, nil
}
