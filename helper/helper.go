// Package helper contains one-call wrappers around the encryption and
// decryption handles for the common envelope shapes.
package helper

import (
	"github.com/encryptmsg/goencryptmsg/crypto"
)

// EncryptMessageWithPassword encrypts data into a passphrase envelope.
func EncryptMessageWithPassword(data, passphrase []byte) ([]byte, error) {
	return crypto.Encryption().Passphrase(passphrase).New().Encrypt(data)
}

// DecryptMessageWithPassword decrypts an envelope with a passphrase
// only. A nested WAD decrypts when its header embeds the key-file
// reference and that key file is stored unencrypted, since no key-file
// passphrase is supplied. Key-file envelopes are not handled; see
// DecryptMessageWithKeyFile.
func DecryptMessageWithPassword(data, passphrase []byte) ([]byte, error) {
	return crypto.Decryption().Passphrase(passphrase).New().Decrypt(data)
}

// EncryptMessageWithKeyFile encrypts data with the key material in the
// key file at location.
func EncryptMessageWithKeyFile(data []byte, location string, keyFilePassphrase []byte) ([]byte, error) {
	return crypto.Encryption().
		KeyFile(location).
		KeyFilePassphrase(keyFilePassphrase).
		New().
		Encrypt(data)
}

// DecryptMessage decrypts any supported envelope, letting the pipeline
// auto-detect its format. Supply whichever credentials the caller has:
// the passphrase serves passphrase and nested-WAD envelopes, the key
// file serves WAD envelopes and nested payloads. An empty
// keyFileLocation is resolved from the WAD header when the archive
// embeds one. A message known to be key-file encrypted needs
// DecryptMessageWithKeyFile instead; on the wire it is
// indistinguishable from a passphrase envelope.
func DecryptMessage(data, passphrase []byte, keyFileLocation string, keyFilePassphrase []byte) ([]byte, error) {
	return crypto.Decryption().
		Passphrase(passphrase).
		KeyFile(keyFileLocation).
		KeyFilePassphrase(keyFilePassphrase).
		New().
		Decrypt(data)
}

// DecryptMessageWithKeyFile decrypts a key-file envelope.
func DecryptMessageWithKeyFile(data []byte, location string, keyFilePassphrase []byte) ([]byte, error) {
	return crypto.Decryption().
		KeyFile(location).
		KeyFilePassphrase(keyFilePassphrase).
		KeyOnly().
		New().
		Decrypt(data)
}
