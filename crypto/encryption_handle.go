package crypto

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/encryptmsg/goencryptmsg/armor"
	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/message"
	"github.com/encryptmsg/goencryptmsg/wad"
)

// Encryptor builds the envelopes the decryption pipeline understands.
type Encryptor interface {
	// Encrypt wraps data in the configured envelope.
	Encrypt(data []byte) ([]byte, error)
	// EncryptStream encrypts from r onto w. Container envelopes and
	// armored output are buffered; other envelopes stream.
	EncryptStream(r io.Reader, w io.Writer) error
}

// encryptionHandle collects the configuration parameters of the write
// path: which envelope to produce and the key material for it.
type encryptionHandle struct {
	params   *EncryptParams
	metadata message.Metadata
	// wadWrap wraps the key-file envelope in a WAD archive.
	wadWrap bool
	// nested additionally encrypts the WAD with the passphrase.
	nested bool
}

func defaultEncryptionHandle() *encryptionHandle {
	return &encryptionHandle{
		params: &EncryptParams{KeyService: message.NewKeyService()},
	}
}

func (eh *encryptionHandle) Encrypt(data []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := eh.EncryptStream(bytes.NewReader(data), &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (eh *encryptionHandle) EncryptStream(r io.Reader, w io.Writer) error {
	switch {
	case eh.nested:
		return eh.encryptNested(r, w)
	case eh.wadWrap:
		return eh.encryptWad(r, w)
	case eh.metadata.KeyOnly || eh.metadata.KeyFile != "":
		passphrase, err := eh.keyMaterial()
		if err != nil {
			return err
		}
		return eh.encryptPlain(r, w, passphrase)
	default:
		return eh.encryptPlain(r, w, eh.params.Passphrase)
	}
}

// encryptPlain streams a single passphrase envelope, armoring the
// output when the metadata asks for it.
func (eh *encryptionHandle) encryptPlain(r io.Reader, w io.Writer, passphrase []byte) error {
	if eh.metadata.IsArmored {
		var buf bytes.Buffer
		if err := eh.encryptBinary(r, &buf, passphrase); err != nil {
			return err
		}
		text, err := armor.ArmorMessage(buf.Bytes())
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, text)
		return errors.Wrap(err, "goencryptmsg: unable to write armored message")
	}
	return eh.encryptBinary(r, w, passphrase)
}

func (eh *encryptionHandle) encryptBinary(r io.Reader, w io.Writer, passphrase []byte) error {
	mw, err := message.NewWriter(w, passphrase, eh.config())
	if err != nil {
		return err
	}
	buf := make([]byte, 4096)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if werr := mw.Update(buf[:n]); werr != nil {
				return werr
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return message.WrapError(rerr, message.IOError)
		}
	}
	return mw.Finish()
}

// encryptWad wraps a key-file envelope in a WAD archive. The archive
// carries the key-file reference only when PersistKeyLocation is set;
// otherwise its key lump is empty.
func (eh *encryptionHandle) encryptWad(r io.Reader, w io.Writer) error {
	passphrase, err := eh.keyMaterial()
	if err != nil {
		return err
	}
	var payload bytes.Buffer
	if err := eh.encryptBinary(r, &payload, passphrase); err != nil {
		return err
	}
	keyRef := ""
	if eh.metadata.PersistKeyLocation {
		keyRef = eh.metadata.KeyFile
	}
	return wad.Write(w, payload.Bytes(), keyRef)
}

// encryptNested produces the two-layer envelope: key-file encrypt,
// wrap in a WAD, then passphrase-encrypt the archive.
func (eh *encryptionHandle) encryptNested(r io.Reader, w io.Writer) error {
	var archive bytes.Buffer
	if err := eh.encryptWad(r, &archive); err != nil {
		return err
	}
	return eh.encryptPlain(bytes.NewReader(archive.Bytes()), w, eh.params.Passphrase)
}

// keyMaterial loads and unwraps the key file configured for the handle.
func (eh *encryptionHandle) keyMaterial() ([]byte, error) {
	if eh.metadata.KeyFile == "" {
		return nil, message.NewError(message.KeyFileNotSpecified)
	}
	content, err := keyfile.Load(eh.metadata.KeyFile, eh.params.Fetch)
	if err != nil {
		return nil, err
	}
	var keyFilePassphrase []byte
	if eh.params.KeyFileEncryptParams != nil {
		keyFilePassphrase = eh.params.KeyFileEncryptParams.Passphrase
	}
	keyMaterial, err := keyfile.DecryptContent(content, keyFilePassphrase)
	if err != nil {
		return nil, err
	}
	eh.params.KeyService.Unlock(keyMaterial)
	return keyMaterial, nil
}

func (eh *encryptionHandle) config() *message.Config {
	if eh.params.Config != nil {
		return eh.params.Config
	}
	return &message.Config{Cipher: eh.metadata.CipherAlgo, Compression: eh.metadata.Compression}
}
