package crypto

import (
	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/message"
)

// EncryptionHandleBuilder configures an encryption handle.
type EncryptionHandleBuilder struct {
	handle *encryptionHandle
}

// Encryption starts building an encryption handle.
func Encryption() *EncryptionHandleBuilder {
	return &EncryptionHandleBuilder{handle: defaultEncryptionHandle()}
}

// Passphrase sets the passphrase of the outer envelope.
func (b *EncryptionHandleBuilder) Passphrase(passphrase []byte) *EncryptionHandleBuilder {
	b.handle.params.Passphrase = passphrase
	return b
}

// KeyFile selects key-file encryption with the key at location.
func (b *EncryptionHandleBuilder) KeyFile(location string) *EncryptionHandleBuilder {
	b.handle.metadata.KeyFile = location
	b.handle.metadata.KeyOnly = true
	return b
}

// KeyFilePassphrase sets the passphrase protecting the key file content.
func (b *EncryptionHandleBuilder) KeyFilePassphrase(passphrase []byte) *EncryptionHandleBuilder {
	b.handle.params.KeyFileEncryptParams = &EncryptParams{Passphrase: passphrase}
	return b
}

// Fetch configures HTTP retrieval of URL key files.
func (b *EncryptionHandleBuilder) Fetch(params *keyfile.FetchParams) *EncryptionHandleBuilder {
	b.handle.params.Fetch = params
	return b
}

// WadWrap wraps the key-file envelope in a WAD archive. When persist is
// true, the archive embeds the key-file reference.
func (b *EncryptionHandleBuilder) WadWrap(persist bool) *EncryptionHandleBuilder {
	b.handle.wadWrap = true
	b.handle.metadata.PersistKeyLocation = persist
	return b
}

// Nested selects the two-layer envelope: key-file encrypt, WAD wrap,
// passphrase encrypt.
func (b *EncryptionHandleBuilder) Nested() *EncryptionHandleBuilder {
	b.handle.wadWrap = true
	b.handle.nested = true
	return b
}

// Armored produces an armored outer envelope.
func (b *EncryptionHandleBuilder) Armored() *EncryptionHandleBuilder {
	b.handle.metadata.IsArmored = true
	return b
}

// Config selects the cipher and compression of the message stream.
func (b *EncryptionHandleBuilder) Config(config *message.Config) *EncryptionHandleBuilder {
	b.handle.params.Config = config
	return b
}

// New returns the configured handle.
func (b *EncryptionHandleBuilder) New() Encryptor {
	return b.handle
}
