// Package crypto implements the streaming decryption pipeline and its
// encryption counterpart. The pipeline auto-detects which envelope the
// input carries, a passphrase-encrypted message, a key-file-encrypted
// message, a WAD archive wrapping an encrypted payload, or a nested
// WAD inside an encrypted envelope, and drives the input through one or
// two decryption passes onto the output sink.
package crypto

import (
	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/message"
)

// Format is the detected envelope type of the input stream.
type Format int

const (
	// FormatUnknown means the sniffer has not decided yet.
	FormatUnknown Format = iota
	// FormatEmpty means the input carried no bytes.
	FormatEmpty
	// FormatGPG is a passphrase-encrypted message.
	FormatGPG
	// FormatGPGByKeyFile is a key-file-encrypted message.
	FormatGPGByKeyFile
	// FormatGPGOrNestedWad is an encrypted envelope that may resolve to
	// FormatGPG or FormatNestedWAD after the first decryption pass.
	FormatGPGOrNestedWad
	// FormatWAD is a WAD archive wrapping a key-file-encrypted payload.
	FormatWAD
	// FormatNestedWAD is a WAD inside a passphrase-encrypted envelope,
	// itself wrapping a key-file-encrypted payload.
	FormatNestedWAD
)

func (f Format) String() string {
	switch f {
	case FormatEmpty:
		return "empty"
	case FormatGPG:
		return "gpg"
	case FormatGPGByKeyFile:
		return "gpg-by-key-file"
	case FormatGPGOrNestedWad:
		return "gpg-or-nested-wad"
	case FormatWAD:
		return "wad"
	case FormatNestedWAD:
		return "nested-wad"
	default:
		return "unknown"
	}
}

// EncryptParams is the immutable configuration of a run.
type EncryptParams struct {
	// KeyService caches the unlocked passphrase across the run.
	KeyService *message.KeyService
	// Passphrase decrypts (or encrypts) the passphrase envelope.
	Passphrase []byte
	// KeyFileEncryptParams decrypt the key file content itself.
	KeyFileEncryptParams *EncryptParams
	// Fetch configures HTTP retrieval of URL key files.
	Fetch *keyfile.FetchParams
	// Config selects cipher and compression for the write path.
	Config *message.Config
}
