package wad

import (
	"bytes"
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptmsg/goencryptmsg/message"
)

func TestWriteParseRoundTrip(t *testing.T) {
	payload := []byte("not really ciphertext, but opaque enough")

	var archive bytes.Buffer
	require.NoError(t, Write(&archive, payload, "keys/master.key"))

	b := archive.Bytes()
	assert.True(t, IsMagic(b))

	info, err := Parse(b)
	require.NoError(t, err)
	assert.Equal(t, "keys/master.key", info.KeyFile)
	assert.Equal(t, uint32(0), info.PayloadSize)
	assert.Equal(t, payload, b[info.PayloadOffset:])
}

func TestWriteEmptyKeyFile(t *testing.T) {
	var archive bytes.Buffer
	require.NoError(t, Write(&archive, []byte("payload"), ""))

	info, err := Parse(archive.Bytes())
	require.NoError(t, err)
	assert.Empty(t, info.KeyFile)
}

func TestParseTruncated(t *testing.T) {
	var archive bytes.Buffer
	require.NoError(t, Write(&archive, []byte("payload"), "k.key"))
	full := archive.Bytes()

	for _, size := range []int{0, 3, 8, HeaderSize, HeaderSize + DirEntrySize} {
		_, err := Parse(full[:size])
		require.Error(t, err, "prefix size %d", size)
		assert.Equal(t, message.InvalidOrIncompleteWadFile, message.ResultOf(err), "prefix size %d", size)
	}
}

func TestParseBadMagic(t *testing.T) {
	_, err := Parse([]byte("NOTAWADFILE!"))
	require.Error(t, err)
	assert.Equal(t, message.InvalidWadFile, message.ResultOf(err))
}

func TestParseImplausibleLumpCount(t *testing.T) {
	b := make([]byte, HeaderSize)
	copy(b, "IWAD")
	b[4] = 0xFF
	b[5] = 0xFF
	_, err := Parse(b)
	require.Error(t, err)
	assert.Equal(t, message.InvalidWadFile, message.ResultOf(err))
}

func TestLegacyLayout(t *testing.T) {
	payload := []byte("legacy payload bytes")

	fb := filebuffer.New(nil)
	require.NoError(t, WriteLegacy(fb, payload, "old.key"))
	full := fb.Buff.Bytes()

	// The directory trails the payload, so any prefix is incomplete.
	_, err := Parse(full[:len(full)-1])
	require.Error(t, err)
	assert.Equal(t, message.InvalidOrIncompleteWadFile, message.ResultOf(err))

	info, err := Parse(full)
	require.NoError(t, err)
	assert.Equal(t, "old.key", info.KeyFile)
	assert.Equal(t, uint32(HeaderSize), info.PayloadOffset)
	assert.Equal(t, uint32(len(payload)), info.PayloadSize)

	// Readers trim the trailer with the exact size.
	trimmed := full[info.PayloadOffset:][:info.PayloadSize]
	assert.Equal(t, payload, trimmed)
}
