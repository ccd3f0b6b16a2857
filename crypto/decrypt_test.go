package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptmsg/goencryptmsg/message"
)

func TestDecryptPlainGPG(t *testing.T) {
	plain := []byte("hello\n")
	encrypted, err := Encryption().Passphrase([]byte(testPassphrase)).New().Encrypt(plain)
	require.NoError(t, err)
	require.Equal(t, byte(0xC3), encrypted[0])

	for _, chunkSize := range testChunkSizes {
		sink := &BytesSink{}
		result, err := Decryption().
			Passphrase([]byte(testPassphrase)).
			ChunkSize(chunkSize).
			New().
			DecryptStream(NewBytesSource(encrypted), sink)
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, message.Success, result, "chunk size %d", chunkSize)
		assert.Equal(t, plain, sink.Bytes(), "chunk size %d", chunkSize)
	}
}

func TestDecryptKeyFileGPG(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	plain := []byte("key-file encrypted text\n")

	encrypted, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		New().
		Encrypt(plain)
	require.NoError(t, err)

	out, err := decryptAll(t, Decryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		KeyOnly(), encrypted, 16)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecryptMissingKeyFile(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	encrypted, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		New().
		Encrypt([]byte("unreachable"))
	require.NoError(t, err)

	sink := &BytesSink{}
	result, err := Decryption().
		KeyOnly().
		ChunkSize(16).
		New().
		DecryptStream(NewBytesSource(encrypted), sink)
	require.Error(t, err)
	assert.Equal(t, message.KeyFileNotSpecified, result)
	assert.Empty(t, sink.Bytes())
}

func TestDecryptWadEnvelope(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	plain := []byte("payload inside a wad archive\n")

	archive, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		WadWrap(true).
		New().
		Encrypt(plain)
	require.NoError(t, err)

	// The key-file reference comes from the archive header.
	for _, chunkSize := range testChunkSizes {
		out, err := decryptAll(t, Decryption().
			KeyFilePassphrase([]byte(testKeyFilePassphrase)), archive, chunkSize)
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, plain, out, "chunk size %d", chunkSize)
	}
}

func TestDecryptWadEnvelopePWADMagic(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	plain := []byte("pwad payload\n")

	archive, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		WadWrap(true).
		New().
		Encrypt(plain)
	require.NoError(t, err)
	// Both magics are accepted by the sniffer and the parser.
	archive[0] = 'P'

	out, err := decryptAll(t, Decryption().
		KeyFilePassphrase([]byte(testKeyFilePassphrase)), archive, 16)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestDecryptNestedWad(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	plain := []byte("innermost plaintext\n")

	nested, err := Encryption().
		Passphrase([]byte(testPassphrase)).
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		Nested().
		New().
		Encrypt(plain)
	require.NoError(t, err)
	require.Equal(t, byte(0xC3), nested[0])

	for _, chunkSize := range testChunkSizes {
		out, err := decryptAll(t, Decryption().
			Passphrase([]byte(testPassphrase)).
			KeyFile(keyFile).
			KeyFilePassphrase([]byte(testKeyFilePassphrase)), nested, chunkSize)
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, plain, out, "chunk size %d", chunkSize)
	}
}

func TestDecryptTruncatedWadHeader(t *testing.T) {
	input := []byte("PWAD\x02\x00\x00")

	sink := &BytesSink{}
	result, err := Decryption().
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		ChunkSize(16).
		New().
		DecryptStream(NewBytesSource(input), sink)
	require.Error(t, err)
	assert.Equal(t, message.InvalidOrIncompleteWadFile, result)
	assert.Empty(t, sink.Bytes())
}

func TestDecryptEmptyInput(t *testing.T) {
	sink := &BytesSink{}
	result, err := Decryption().
		Passphrase([]byte(testPassphrase)).
		New().
		DecryptStream(NewBytesSource(nil), sink)
	require.NoError(t, err)
	assert.Equal(t, message.Success, result)
	assert.Empty(t, sink.Bytes())
}

func TestDecryptWrongPassphrase(t *testing.T) {
	encrypted, err := Encryption().Passphrase([]byte(testPassphrase)).New().Encrypt([]byte("secret"))
	require.NoError(t, err)

	sink := &BytesSink{}
	result, err := Decryption().
		Passphrase([]byte("wrong passphrase")).
		ChunkSize(16).
		New().
		DecryptStream(NewBytesSource(encrypted), sink)
	require.Error(t, err)
	assert.NotEqual(t, message.Success, result)
	assert.Contains(t, []message.Result{message.InvalidPassphrase, message.MDCError}, result)
}

func TestDecryptWrongKeyFilePassphrase(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	encrypted, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		New().
		Encrypt([]byte("secret"))
	require.NoError(t, err)

	sink := &BytesSink{}
	result, err := Decryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte("wrong")).
		KeyOnly().
		ChunkSize(16).
		New().
		DecryptStream(NewBytesSource(encrypted), sink)
	require.Error(t, err)
	assert.Equal(t, message.InvalidKeyFilePassphrase, result)
	assert.Empty(t, sink.Bytes())
}

func TestDecryptLegacyWadLayout(t *testing.T) {
	keyFile := writeTestKeyFile(t)
	plain := []byte("legacy layout plaintext\n")

	payload, err := Encryption().
		KeyFile(keyFile).
		KeyFilePassphrase([]byte(testKeyFilePassphrase)).
		New().
		Encrypt(plain)
	require.NoError(t, err)

	archive := buildLegacyArchive(t, payload, keyFile)

	for _, chunkSize := range []int{1, 16, 1 << 20} {
		out, err := decryptAll(t, Decryption().
			KeyFilePassphrase([]byte(testKeyFilePassphrase)), archive, chunkSize)
		require.NoError(t, err, "chunk size %d", chunkSize)
		assert.Equal(t, plain, out, "chunk size %d", chunkSize)
	}
}
