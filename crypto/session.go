package crypto

import "github.com/encryptmsg/goencryptmsg/message"

// decryptionSession pairs a key service, a passphrase and the stateful
// message reader fed by the pipeline. The context owns at most two
// sessions, one per envelope layer, each constructed at most once.
type decryptionSession struct {
	keyService    *message.KeyService
	ownPassphrase []byte
	reader        *message.Reader
}

// newPassphraseSession builds the session for the outer passphrase
// envelope. The key service is shared with the caller so that the same
// unlocked passphrase serves a later encrypt pass.
func newPassphraseSession(keyService *message.KeyService, passphrase []byte, config *message.Config) *decryptionSession {
	if keyService == nil {
		keyService = message.NewKeyService()
	}
	keyService.Unlock(passphrase)
	return &decryptionSession{
		keyService: keyService,
		reader:     message.NewReader(passphrase, config),
	}
}

// newKeyFileSession builds an empty session; the key material is loaded
// and unlocked by the ReadKeyFile state before the reader exists.
func newKeyFileSession() *decryptionSession {
	return &decryptionSession{keyService: message.NewKeyService()}
}

// unlock installs the decrypted key material and starts the reader.
func (s *decryptionSession) unlock(keyMaterial []byte, config *message.Config) {
	s.ownPassphrase = keyMaterial
	s.keyService.Unlock(keyMaterial)
	s.reader = message.NewReader(keyMaterial, config)
}

// release closes the reader and wipes the key material.
func (s *decryptionSession) release() {
	if s == nil {
		return
	}
	if s.reader != nil {
		s.reader.Close()
	}
	for i := range s.ownPassphrase {
		s.ownPassphrase[i] = 0
	}
	s.keyService.Clear()
}
