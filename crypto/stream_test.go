package crypto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesSourceEOF(t *testing.T) {
	s := NewBytesSource([]byte("abcd"))
	assert.False(t, s.IsEOF())
	assert.Equal(t, 4, s.Available())

	buf := make([]byte, 2)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.False(t, s.IsEOF())

	n, err = s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// EOF turns true exactly when the last byte is consumed.
	assert.True(t, s.IsEOF())
	assert.Equal(t, 0, s.Available())
}

func TestReaderSourceEOFAtChunkBoundary(t *testing.T) {
	s := NewReaderSource(bytes.NewReader([]byte("abcd")))

	buf := make([]byte, 4)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.True(t, s.IsEOF())
}

func TestReaderSourceEmpty(t *testing.T) {
	s := NewReaderSource(bytes.NewReader(nil))
	assert.True(t, s.IsEOF())
}

func TestBytesSink(t *testing.T) {
	sink := &BytesSink{}
	require.NoError(t, sink.Write([]byte("ab")))
	require.NoError(t, sink.Write([]byte("cd")))
	assert.Equal(t, []byte("abcd"), sink.Bytes())
}
