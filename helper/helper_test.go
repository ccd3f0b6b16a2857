package helper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encryptmsg/goencryptmsg/crypto"
	"github.com/encryptmsg/goencryptmsg/keyfile"
)

func TestPasswordRoundTrip(t *testing.T) {
	plain := []byte("helper round trip\n")
	encrypted, err := EncryptMessageWithPassword(plain, []byte("pass"))
	require.NoError(t, err)

	decrypted, err := DecryptMessageWithPassword(encrypted, []byte("pass"))
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}

func TestDecryptMessageAutoDetects(t *testing.T) {
	key, err := keyfile.Generate(32)
	require.NoError(t, err)
	content, err := keyfile.EncryptContent(key, []byte("kf pass"), false)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "auto.key")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	plain := []byte("auto-detected envelope\n")

	passphraseMsg, err := EncryptMessageWithPassword(plain, []byte("pass"))
	require.NoError(t, err)
	wadMsg, err := crypto.Encryption().
		KeyFile(path).
		KeyFilePassphrase([]byte("kf pass")).
		WadWrap(true).
		New().
		Encrypt(plain)
	require.NoError(t, err)
	nestedMsg, err := crypto.Encryption().
		Passphrase([]byte("pass")).
		KeyFile(path).
		KeyFilePassphrase([]byte("kf pass")).
		Nested().
		New().
		Encrypt(plain)
	require.NoError(t, err)

	// The same call resolves each envelope type from the stream alone.
	for _, envelope := range [][]byte{passphraseMsg, wadMsg, nestedMsg} {
		out, err := DecryptMessage(envelope, []byte("pass"), path, []byte("kf pass"))
		require.NoError(t, err)
		assert.Equal(t, plain, out)
	}
}

func TestKeyFileRoundTrip(t *testing.T) {
	key, err := keyfile.Generate(32)
	require.NoError(t, err)
	content, err := keyfile.EncryptContent(key, []byte("kf pass"), true)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "helper.key")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	plain := []byte("helper key file round trip\n")
	encrypted, err := EncryptMessageWithKeyFile(plain, path, []byte("kf pass"))
	require.NoError(t, err)

	decrypted, err := DecryptMessageWithKeyFile(encrypted, path, []byte("kf pass"))
	require.NoError(t, err)
	assert.Equal(t, plain, decrypted)
}
