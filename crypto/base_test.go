package crypto

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mattetti/filebuffer"
	"github.com/stretchr/testify/require"

	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/wad"
)

const (
	testPassphrase        = "outer passphrase"
	testKeyFilePassphrase = "key file passphrase"
)

var testChunkSizes = []int{1, 4, 16, 1 << 20}

// writeTestKeyFile generates key material, wraps it with the key file
// passphrase and stores it under a temp dir.
func writeTestKeyFile(t *testing.T) string {
	t.Helper()
	key, err := keyfile.Generate(32)
	require.NoError(t, err)
	content, err := keyfile.EncryptContent(key, []byte(testKeyFilePassphrase), false)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "test.key")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	return path
}

// buildLegacyArchive wraps payload in the legacy trailing-directory WAD
// layout with an embedded key-file reference.
func buildLegacyArchive(t *testing.T, payload []byte, keyFile string) []byte {
	t.Helper()
	fb := filebuffer.New(nil)
	require.NoError(t, wad.WriteLegacy(fb, payload, keyFile))
	return fb.Buff.Bytes()
}

// decryptAll runs the pipeline over data with the given chunk size and
// returns the sink contents.
func decryptAll(t *testing.T, builder *DecryptionHandleBuilder, data []byte, chunkSize int) ([]byte, error) {
	t.Helper()
	sink := &BytesSink{}
	_, err := builder.ChunkSize(chunkSize).New().DecryptStream(NewBytesSource(data), sink)
	return sink.Bytes(), err
}
