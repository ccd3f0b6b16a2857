// Package message implements an incremental OpenPGP message reader and
// writer with a typed result taxonomy. The reader and writer are
// push-style: callers feed ciphertext (or plaintext) buffers and collect
// whatever output the underlying stream has produced so far.
package message

// Result identifies the outcome of a packet operation. It is the
// machine-readable half of the error model; Error pairs a Result with a
// human-readable error.
type Result int

const (
	// ResultNone means no result has been recorded yet.
	ResultNone Result = iota
	// Success is the terminal success result.
	Success
	// UnexpectedError covers failures outside the taxonomy below.
	UnexpectedError
	// IOError is a read or write failure on the input or output stream.
	IOError
	// InvalidPassphrase means the message did not decrypt with the
	// supplied passphrase.
	InvalidPassphrase
	// UnsupportedPacketType means the stream contained an OpenPGP packet
	// the reader does not handle.
	UnsupportedPacketType
	// MDCError means the modification detection code did not verify.
	MDCError
	// Empty means the input contained no data.
	Empty
	// KeyFileNotSpecified means a key-file envelope was detected but no
	// key-file reference is available.
	KeyFileNotSpecified
	// IOErrorKeyFile is a failure to load the key file from its path or
	// URL.
	IOErrorKeyFile
	// InvalidKeyFile means the key file content is not usable as key
	// material.
	InvalidKeyFile
	// InvalidKeyFilePassphrase means the key file loaded but did not
	// decrypt with the configured parameters.
	InvalidKeyFilePassphrase
	// InvalidWadFile means the WAD container is structurally invalid.
	InvalidWadFile
	// InvalidOrIncompleteWadFile means the WAD header is malformed or
	// truncated at EOF.
	InvalidOrIncompleteWadFile
)

var resultNames = map[Result]string{
	ResultNone:                 "none",
	Success:                    "success",
	UnexpectedError:            "unexpected error",
	IOError:                    "input/output error",
	InvalidPassphrase:          "invalid passphrase",
	UnsupportedPacketType:      "unsupported packet type",
	MDCError:                   "mdc integrity check failed",
	Empty:                      "empty input",
	KeyFileNotSpecified:        "key file not specified",
	IOErrorKeyFile:             "cannot read key file",
	InvalidKeyFile:             "invalid key file",
	InvalidKeyFilePassphrase:   "invalid key file passphrase",
	InvalidWadFile:             "invalid wad file",
	InvalidOrIncompleteWadFile: "invalid or incomplete wad file",
}

func (r Result) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "unknown result"
}
