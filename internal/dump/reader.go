package dump

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

// utf8BOM is prepended to dumps by some Windows editors.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM discards a leading UTF-8 BOM so a header on the first line is
// still recognized.
func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if bytes.Equal(head, utf8BOM) {
		_, err = br.Discard(len(utf8BOM))
		return err
	}
	return nil
}

// countingReader tracks the bytes read from the underlying reader.
type countingReader struct {
	reader io.Reader
	n      int64
}

// Read implements io.Reader.
func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.n += int64(n)
	return n, err
}
