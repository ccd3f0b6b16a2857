package message

// Metadata travels with a single encryption or decryption run.
type Metadata struct {
	// KeyFile is the path or URL of the key file. It may be supplied by
	// the caller or discovered from a WAD header.
	KeyFile string
	// KeyOnly asserts that the message is key-file encrypted, so no
	// passphrase session is required.
	KeyOnly bool
	// CipherAlgo and Compression name the algorithms for the write path;
	// see the constants package.
	CipherAlgo  string
	Compression string
	// PersistKeyLocation embeds the key-file reference in the WAD
	// header on the write path, so readers can locate the key file
	// without being told.
	PersistKeyLocation bool
	// IsArmored marks armored (text) envelopes on the write path.
	IsArmored bool
}
