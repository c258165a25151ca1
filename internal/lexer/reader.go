package lexer

import (
	"bufio"
	"io"
	"os"

	"github.com/deepnoodle-ai/bfvm/errz"
	"github.com/deepnoodle-ai/bfvm/internal/token"
)

// SourceReader yields raw source bytes one at a time and tracks the
// line/column of the most recently returned byte.
//
// Newlines are attributed to the line they end: the line counter advances
// on the byte following a '\n', at which point the column restarts at 1.
type SourceReader struct {
	rd       *bufio.Reader
	closer   io.Closer
	filename string
	pos      token.Position
	last     byte
}

// NewSourceReader returns a reader over r.
func NewSourceReader(r io.Reader) *SourceReader {
	return &SourceReader{
		rd:  bufio.NewReader(r),
		pos: token.StartPosition,
	}
}

// OpenFile opens the source file at path. The caller must Close the reader.
func OpenFile(path string) (*SourceReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errz.Newf(errz.ErrSource, errz.E1001, "could not open file: %s", path).WithCause(err)
	}
	r := NewSourceReader(f)
	r.closer = f
	r.filename = path
	return r, nil
}

// Next returns the next raw byte. The second result is false once the input
// is exhausted.
func (r *SourceReader) Next() (byte, bool, error) {
	ch, err := r.rd.ReadByte()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errz.New(errz.ErrSource, errz.E1002, "could not read source").WithCause(err)
	}
	if r.last == '\n' {
		r.pos.Line++
		r.pos.Column = 1
	} else {
		r.pos.Column++
	}
	r.last = ch
	return ch, true, nil
}

// Position returns the position of the byte most recently returned by Next.
func (r *SourceReader) Position() token.Position {
	return r.pos
}

// Filename returns the path the reader was opened from, if any.
func (r *SourceReader) Filename() string {
	return r.filename
}

// Close releases the underlying file, if the reader owns one.
func (r *SourceReader) Close() error {
	if r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}
