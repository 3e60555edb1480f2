package core

// reader.go cleans up table pages read from disk before they reach the
// HTML parser.
//
// Pages exported by spreadsheet tools on Windows often start with a UTF-8
// BOM and occasionally carry Latin-1 bytes in cell text. PageReader strips
// the BOM, replaces every invalid byte with '?' and stops once a size limit
// is crossed.

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// ErrPageTooLarge is returned when a page exceeds the reader's limit.
var ErrPageTooLarge = errors.New("page exceeds size limit")

// MaxPageSize is the default limit for a single page (32MB).
var MaxPageSize int64 = 32 << 20

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// PageReader is an io.Reader yielding valid UTF-8 without a leading BOM.
type PageReader struct {
	br      *bufio.Reader
	limit   int64
	read    int64
	started bool

	// Encoded bytes of a rune that did not fit the caller's buffer
	pending []byte
	buf     [utf8.UTFMax]byte
}

// NewPageReader wraps r. A limit of zero or less disables the size check.
func NewPageReader(r io.Reader, limit int64) *PageReader {
	return &PageReader{br: bufio.NewReader(r), limit: limit}
}

// BytesRead returns how many source bytes have been consumed.
func (p *PageReader) BytesRead() int64 {
	return p.read
}

// Read implements io.Reader.
func (p *PageReader) Read(dst []byte) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if !p.started {
		p.started = true
		if head, _ := p.br.Peek(len(utf8BOM)); len(head) == len(utf8BOM) &&
			head[0] == utf8BOM[0] && head[1] == utf8BOM[1] && head[2] == utf8BOM[2] {
			n, _ := p.br.Discard(len(utf8BOM))
			p.read += int64(n)
		}
	}

	n := copy(dst, p.pending)
	p.pending = p.pending[n:]

	for n < len(dst) {
		r, size, err := p.br.ReadRune()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}
		p.read += int64(size)
		if p.limit > 0 && p.read > p.limit {
			return n, ErrPageTooLarge
		}

		// ReadRune reports an invalid byte as RuneError with size 1; a
		// literal U+FFFD in the input has size 3 and is kept.
		if r == utf8.RuneError && size == 1 {
			r = '?'
		}
		w := utf8.EncodeRune(p.buf[:], r)
		c := copy(dst[n:], p.buf[:w])
		n += c
		if c < w {
			p.pending = append(p.pending[:0], p.buf[c:w]...)
		}
	}
	return n, nil
}
