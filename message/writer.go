package message

import (
	"io"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/pkg/errors"
)

// Writer incrementally encrypts plaintext into a passphrase-protected
// OpenPGP message written to the underlying sink. Unlike the Reader it
// needs no goroutine: the openpgp encryptor is already push-style.
type Writer struct {
	wc       io.WriteCloser
	finished bool
}

// NewWriter starts an encrypted message on w with the given passphrase.
func NewWriter(w io.Writer, passphrase []byte, config *Config) (*Writer, error) {
	hints := &openpgp.FileHints{IsBinary: true}
	wc, err := openpgp.SymmetricallyEncrypt(w, passphrase, hints, config.packetConfig())
	if err != nil {
		return nil, errors.Wrap(err, "goencryptmsg: unable to start encrypted message")
	}
	return &Writer{wc: wc}, nil
}

// Update feeds plaintext into the message.
func (w *Writer) Update(buf []byte) error {
	if w.finished {
		return errors.New("goencryptmsg: update after finish")
	}
	if _, err := w.wc.Write(buf); err != nil {
		return errors.Wrap(err, "goencryptmsg: unable to write encrypted message")
	}
	return nil
}

// Finish completes the message, flushing the trailing packets. It must
// be called exactly once.
func (w *Writer) Finish() error {
	if w.finished {
		return errors.New("goencryptmsg: finish called twice")
	}
	w.finished = true
	if err := w.wc.Close(); err != nil {
		return errors.Wrap(err, "goencryptmsg: unable to close encrypted message")
	}
	return nil
}
