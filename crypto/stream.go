package crypto

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

// Source is the byte source of a decryption run. IsEOF must become true
// only after all bytes have been consumed, so that the pipeline can
// finish its readers on the final chunk.
type Source interface {
	Read(p []byte) (int, error)
	// Available returns the number of bytes known to remain, or a
	// negative value when unknown.
	Available() int
	IsEOF() bool
}

// Sink is the byte sink of a decryption run. A write absorbs all bytes
// or fails; there are no partial writes.
type Sink interface {
	Write(p []byte) error
}

// NewBytesSource returns a Source over a byte slice.
func NewBytesSource(b []byte) Source {
	return &bytesSource{buf: b}
}

type bytesSource struct {
	buf []byte
	pos int
}

func (s *bytesSource) Read(p []byte) (int, error) {
	n := copy(p, s.buf[s.pos:])
	s.pos += n
	return n, nil
}

func (s *bytesSource) Available() int {
	return len(s.buf) - s.pos
}

func (s *bytesSource) IsEOF() bool {
	return s.pos >= len(s.buf)
}

// NewReaderSource returns a Source over an io.Reader. The source reads
// ahead one byte so that IsEOF turns true exactly when the last byte
// has been consumed.
func NewReaderSource(r io.Reader) Source {
	return &readerSource{r: bufio.NewReader(r)}
}

type readerSource struct {
	r   *bufio.Reader
	eof bool
}

func (s *readerSource) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err == io.EOF {
		s.eof = true
		return n, nil
	}
	if err != nil {
		return n, err
	}
	if _, perr := s.r.Peek(1); perr == io.EOF {
		s.eof = true
	}
	return n, nil
}

func (s *readerSource) Available() int {
	if s.eof {
		return 0
	}
	if n := s.r.Buffered(); n > 0 {
		return n
	}
	return -1
}

func (s *readerSource) IsEOF() bool {
	if s.eof {
		return true
	}
	if _, err := s.r.Peek(1); err == io.EOF {
		s.eof = true
	}
	return s.eof
}

// NewWriterSink returns a Sink over an io.Writer.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

type writerSink struct {
	w io.Writer
}

func (s *writerSink) Write(p []byte) error {
	n, err := s.w.Write(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return errors.Wrap(io.ErrShortWrite, "goencryptmsg: sink write")
	}
	return nil
}

// BytesSink collects output in memory.
type BytesSink struct {
	buf []byte
}

func (s *BytesSink) Write(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

// Bytes returns the collected output.
func (s *BytesSink) Bytes() []byte {
	return s.buf
}
