package crypto

import (
	"github.com/rcrowley/go-metrics"

	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/message"
)

// DecryptionHandleBuilder configures a decryption handle.
type DecryptionHandleBuilder struct {
	handle *decryptionHandle
}

// Decryption starts building a decryption handle.
func Decryption() *DecryptionHandleBuilder {
	return &DecryptionHandleBuilder{handle: defaultDecryptionHandle()}
}

// Passphrase sets the passphrase of the outer envelope.
func (b *DecryptionHandleBuilder) Passphrase(passphrase []byte) *DecryptionHandleBuilder {
	b.handle.params.Passphrase = passphrase
	return b
}

// KeyFile sets the key file path or URL. When empty, a key-file
// envelope uses the reference embedded in the WAD header, if any.
func (b *DecryptionHandleBuilder) KeyFile(location string) *DecryptionHandleBuilder {
	b.handle.metadata.KeyFile = location
	return b
}

// KeyOnly asserts that the message is key-file encrypted, skipping the
// passphrase envelope.
func (b *DecryptionHandleBuilder) KeyOnly() *DecryptionHandleBuilder {
	b.handle.metadata.KeyOnly = true
	return b
}

// KeyFilePassphrase sets the passphrase protecting the key file content.
func (b *DecryptionHandleBuilder) KeyFilePassphrase(passphrase []byte) *DecryptionHandleBuilder {
	b.handle.params.KeyFileEncryptParams = &EncryptParams{Passphrase: passphrase}
	return b
}

// Fetch configures HTTP retrieval of URL key files.
func (b *DecryptionHandleBuilder) Fetch(params *keyfile.FetchParams) *DecryptionHandleBuilder {
	b.handle.params.Fetch = params
	return b
}

// ChunkSize overrides the read chunk size. The pipeline is correct for
// any positive size; this only tunes throughput.
func (b *DecryptionHandleBuilder) ChunkSize(n int) *DecryptionHandleBuilder {
	if n > 0 {
		b.handle.chunkSize = n
	}
	return b
}

// Config selects the cipher and compression assumed for sessions.
func (b *DecryptionHandleBuilder) Config(config *message.Config) *DecryptionHandleBuilder {
	b.handle.params.Config = config
	return b
}

// Metrics publishes pipeline and dispatcher counters to registry.
func (b *DecryptionHandleBuilder) Metrics(registry metrics.Registry) *DecryptionHandleBuilder {
	if registry != nil {
		b.handle.registry = registry
	}
	return b
}

// New returns the configured handle.
func (b *DecryptionHandleBuilder) New() Decryptor {
	return b.handle
}
