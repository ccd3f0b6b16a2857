package crypto

import (
	"bytes"

	"github.com/encryptmsg/goencryptmsg/fsm"
	"github.com/encryptmsg/goencryptmsg/keyfile"
	"github.com/encryptmsg/goencryptmsg/message"
	"github.com/encryptmsg/goencryptmsg/wad"
)

// State names. The dispatcher enters the first admissible state in this
// order; later pipeline stages sit higher so the pipeline drains before
// new input is fetched.
const (
	StateFail                 = "Fail"
	StateEnd                  = "End"
	StateWriteOut             = "WriteOut"
	StateDecrypt              = "Decrypt"
	StateSetPassphraseSession = "SetPassphraseSession"
	StateReadKeyFile          = "ReadKeyFile"
	StateWADHead              = "WADHead"
	StateParseFormat          = "ParseFormat"
	StateReadIn               = "ReadIn"
)

var wadMarkers = [][]byte{[]byte("IWAD"), []byte("PWAD")}

// decryptionStates builds the ordered state list over ctx. The order is
// a correctness contract; see the state machine documentation.
func decryptionStates() []fsm.State {
	return []fsm.State{
		{Name: StateFail, CanEnter: canFail, Terminal: true},
		{Name: StateEnd, CanEnter: canEnd, OnEnter: onEnd, Terminal: true},
		{Name: StateWriteOut, CanEnter: canWriteOut, OnEnter: onWriteOut},
		{Name: StateDecrypt, CanEnter: canDecrypt, OnEnter: onDecrypt},
		{Name: StateSetPassphraseSession, CanEnter: canSetPassphraseSession, OnEnter: onSetPassphraseSession},
		{Name: StateReadKeyFile, CanEnter: canReadKeyFile, OnEnter: onReadKeyFile},
		{Name: StateWADHead, CanEnter: canWADHead, OnEnter: onWADHead},
		{Name: StateParseFormat, CanEnter: canParseFormat, OnEnter: onParseFormat},
		{Name: StateReadIn, CanEnter: canReadIn, OnEnter: onReadIn},
	}
}

func toContext(ctx fsm.Context) *decryptionContext {
	return ctx.(*decryptionContext)
}

// --- Fail

func canFail(ctx fsm.Context) bool {
	return toContext(ctx).failed
}

// --- End

func canEnd(ctx fsm.Context) bool {
	c := toContext(ctx)
	return c.in.IsEOF() && len(c.buffer) == 0 && len(c.pending) == 0
}

func onEnd(ctx fsm.Context) {
	c := toContext(ctx)
	if c.format == FormatUnknown {
		c.format = FormatEmpty
	}
	c.setResult(message.Success)
}

// --- ReadIn

func canReadIn(ctx fsm.Context) bool {
	return len(toContext(ctx).buffer) == 0
}

func onReadIn(ctx fsm.Context) {
	c := toContext(ctx)
	size := c.chunkSize
	if avail := c.in.Available(); avail > 0 && avail < size {
		size = avail
	}
	buf := make([]byte, size)
	n, err := c.in.Read(buf)
	if err != nil {
		c.fail(message.IOError, message.WrapError(err, message.IOError))
		return
	}
	c.buffer = buf[:n]
	c.bytesIn.Inc(int64(n))
	// Each fresh chunk traverses the filter pipeline from pass zero.
	c.filterCount = 0
}

// --- ParseFormat

func canParseFormat(ctx fsm.Context) bool {
	c := toContext(ctx)
	switch c.format {
	case FormatUnknown:
	case FormatGPGOrNestedWad:
		if c.filterCount != 1 {
			return false
		}
	default:
		return false
	}
	// Staged bytes alone re-admit the sniffer only at EOF; otherwise it
	// waits for ReadIn to bring more input.
	return len(c.buffer) > 0 || (len(c.pending) > 0 && c.in.IsEOF())
}

func onParseFormat(ctx fsm.Context) {
	c := toContext(ctx)
	requiredBytes := 1
	if c.filterCount == 1 {
		requiredBytes = 4
	}

	c.pending = append(c.pending, c.buffer...)
	c.buffer = nil

	// We need more bytes
	if len(c.pending) < requiredBytes && !c.in.IsEOF() {
		return
	}

	if c.filterCount == 0 {
		b := c.pending[0]
		if b&0x80 != 0 && b != 0xEF {
			// The first byte matches an OpenPGP packet tag.
			if c.metadata.KeyOnly {
				c.format = FormatGPGByKeyFile
			} else {
				c.format = FormatGPGOrNestedWad
			}
		} else {
			// A WAD starts with ASCII I or P, in which the most
			// significant bit is not set.
			c.format = FormatWAD
		}
	} else {
		c.format = FormatGPG
		if len(c.pending) >= 4 {
			for _, marker := range wadMarkers {
				if bytes.Equal(c.pending[:4], marker) {
					c.format = FormatNestedWAD
					break
				}
			}
		}
	}

	c.buffer, c.pending = c.pending, nil
}

// --- SetPassphraseSession

func canSetPassphraseSession(ctx fsm.Context) bool {
	c := toContext(ctx)
	switch c.format {
	case FormatGPG, FormatGPGOrNestedWad:
		return c.passphraseSession == nil
	default:
		return false
	}
}

func onSetPassphraseSession(ctx fsm.Context) {
	c := toContext(ctx)
	c.passphraseSession = newPassphraseSession(c.params.KeyService, c.params.Passphrase, c.params.Config)
}

// --- ReadKeyFile

func canReadKeyFile(ctx fsm.Context) bool {
	c := toContext(ctx)
	if c.keyFileSession != nil {
		return false
	}
	switch c.format {
	case FormatGPGByKeyFile:
		return true
	case FormatWAD, FormatNestedWAD:
		return c.wadHeadFinished
	default:
		return false
	}
}

func onReadKeyFile(ctx fsm.Context) {
	c := toContext(ctx)

	if c.metadata.KeyFile == "" {
		c.fail(message.KeyFileNotSpecified, message.NewError(message.KeyFileNotSpecified))
		return
	}

	session := newKeyFileSession()

	content, err := keyfile.Load(c.metadata.KeyFile, c.params.Fetch)
	if err != nil {
		c.fail(message.ResultOf(err), err)
		return
	}

	var keyFilePassphrase []byte
	if c.params.KeyFileEncryptParams != nil {
		keyFilePassphrase = c.params.KeyFileEncryptParams.Passphrase
	}
	keyMaterial, err := keyfile.DecryptContent(content, keyFilePassphrase)
	if err != nil {
		c.fail(message.InvalidKeyFilePassphrase, err)
		return
	}

	session.unlock(keyMaterial, c.params.Config)
	c.keyFileSession = session
	c.setResult(message.Success)
}

// --- WADHead

func canWADHead(ctx fsm.Context) bool {
	c := toContext(ctx)
	if c.wadHeadFinished {
		return false
	}
	// Staged bytes alone re-admit the head parser only at EOF; otherwise
	// it waits for ReadIn to bring more input.
	if len(c.buffer) == 0 && (len(c.pending) == 0 || !c.in.IsEOF()) {
		return false
	}
	switch c.format {
	case FormatWAD, FormatNestedWAD:
		return true
	default:
		return false
	}
}

func onWADHead(ctx fsm.Context) {
	c := toContext(ctx)
	c.pending = append(c.pending, c.buffer...)
	c.buffer = nil

	info, err := wad.Parse(c.pending)
	if err != nil {
		result := message.ResultOf(err)
		if result == message.InvalidOrIncompleteWadFile && !c.in.IsEOF() {
			// More input may complete the head.
			return
		}
		c.fail(result, err)
		return
	}

	if c.metadata.KeyFile == "" {
		c.metadata.KeyFile = info.KeyFile
	}

	c.buffer, c.pending = c.pending, nil
	c.buffer = c.buffer[info.PayloadOffset:]
	if info.PayloadSize != 0 && int(info.PayloadSize) < len(c.buffer) {
		// The legacy 3.2.1 layout places the key string and the
		// directory after the payload; trim the trailer.
		c.buffer = c.buffer[:info.PayloadSize]
	}
	c.wadHeadFinished = true
	c.setResult(message.Success)
}

// --- Decrypt

func canDecrypt(ctx fsm.Context) bool {
	c := toContext(ctx)
	if c.filterCount > 1 {
		return false
	}

	switch c.format {
	case FormatEmpty, FormatUnknown:
		return false

	case FormatGPG, FormatGPGOrNestedWad:
		if c.passphraseSession == nil {
			return false
		}
		if c.filterCount == 1 {
			return false
		}

	case FormatGPGByKeyFile:
		if c.keyFileSession == nil {
			return false
		}
		if c.filterCount == 1 {
			return false
		}

	case FormatWAD:
		if !c.wadHeadFinished {
			return false
		}
		if c.keyFileSession == nil {
			return false
		}
		if c.filterCount == 1 {
			return false
		}

	case FormatNestedWAD:
		if c.passphraseSession == nil {
			return false
		}
		if c.filterCount == 1 && !c.wadHeadFinished {
			return false
		}
		if c.filterCount == 1 && c.keyFileSession == nil {
			return false
		}
	}

	return len(c.buffer) > 0
}

func onDecrypt(ctx fsm.Context) {
	c := toContext(ctx)
	var session *decryptionSession
	switch c.format {
	case FormatGPG, FormatGPGOrNestedWad:
		session = c.passphraseSession
	case FormatNestedWAD:
		if c.filterCount == 0 {
			session = c.passphraseSession
		} else {
			session = c.keyFileSession
		}
	default:
		session = c.keyFileSession
	}

	var out []byte
	var err error
	if c.in.IsEOF() {
		out, err = session.reader.Finish(c.buffer)
	} else {
		out, err = session.reader.Update(c.buffer)
	}
	c.buffer = out
	c.filterCount++
	if err != nil {
		c.fail(message.ResultOf(err), err)
		return
	}
	c.setResult(message.Success)
}

// --- WriteOut

func canWriteOut(ctx fsm.Context) bool {
	c := toContext(ctx)
	if len(c.buffer) == 0 {
		return false
	}

	switch c.format {
	case FormatGPG, FormatGPGByKeyFile, FormatWAD:
		return c.filterCount == 1
	case FormatNestedWAD:
		return c.filterCount == 2
	default:
		// Empty, Unknown and the unresolved GPGOrNestedWad never write.
		return false
	}
}

func onWriteOut(ctx fsm.Context) {
	c := toContext(ctx)
	if err := c.out.Write(c.buffer); err != nil {
		c.fail(message.IOError, message.WrapError(err, message.IOError))
		return
	}
	c.bytesOut.Inc(int64(len(c.buffer)))
	c.buffer = nil
}
