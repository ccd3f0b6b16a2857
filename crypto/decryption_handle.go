package crypto

import (
	"bufio"
	"io"

	"github.com/rcrowley/go-metrics"

	"github.com/encryptmsg/goencryptmsg/armor"
	"github.com/encryptmsg/goencryptmsg/constants"
	"github.com/encryptmsg/goencryptmsg/fsm"
	"github.com/encryptmsg/goencryptmsg/internal"
	"github.com/encryptmsg/goencryptmsg/message"
)

// Decryptor runs the streaming decryption pipeline.
type Decryptor interface {
	// DecryptStream drives in through the state machine onto out.
	DecryptStream(in Source, out Sink) (message.Result, error)
	// Decrypt decrypts an in-memory envelope in one call.
	Decrypt(data []byte) ([]byte, error)
	// DecryptingPipe decrypts from r onto w.
	DecryptingPipe(r io.Reader, w io.Writer) (message.Result, error)
}

// decryptionHandle collects the configuration parameters of a
// decryption run. A handle is reusable: every DecryptStream call runs
// on a fresh context.
type decryptionHandle struct {
	params    *EncryptParams
	metadata  message.Metadata
	chunkSize int
	registry  metrics.Registry
}

func defaultDecryptionHandle() *decryptionHandle {
	return &decryptionHandle{
		params:    &EncryptParams{KeyService: message.NewKeyService()},
		chunkSize: constants.DefaultChunkSize,
		registry:  metrics.NewRegistry(),
	}
}

// DecryptStream drives in through the state machine onto out and
// returns the terminal result. On failure the sink may hold a partial
// plaintext prefix; already-written bytes are not truncated. The error
// is non-nil exactly when the result is not Success.
func (dh *decryptionHandle) DecryptStream(in Source, out Sink) (message.Result, error) {
	metadata := dh.metadata
	ctx := newDecryptionContext(in, out, dh.params, &metadata, dh.chunkSize, dh.registry)
	defer ctx.release()

	machine := fsm.New(decryptionStates(), dh.registry)
	if _, err := machine.Run(ctx); err != nil {
		// A wedged configuration; must not occur for well-formed inputs.
		ctx.fail(message.UnexpectedError, message.WrapError(err, message.UnexpectedError))
	}

	if ctx.failed {
		err := ctx.err
		if err == nil {
			err = message.NewError(ctx.result)
		}
		return ctx.result, err
	}
	return ctx.result, nil
}

// Decrypt decrypts an in-memory envelope in one call, unarmoring it
// first when needed. The state machine itself only sniffs binary
// envelopes.
func (dh *decryptionHandle) Decrypt(data []byte) ([]byte, error) {
	if internal.IsArmored(data) {
		unarmored, err := armor.Unarmor(data)
		if err != nil {
			return nil, err
		}
		data = unarmored
	}
	sink := &BytesSink{}
	if _, err := dh.DecryptStream(NewBytesSource(data), sink); err != nil {
		return nil, err
	}
	return sink.Bytes(), nil
}

// DecryptingPipe decrypts from r onto w, unarmoring armored input.
func (dh *decryptionHandle) DecryptingPipe(r io.Reader, w io.Writer) (message.Result, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(armorPeekPrefix)); err == nil && internal.IsArmored(head) {
		body, aerr := armor.ArmorReader(br)
		if aerr != nil {
			return message.UnexpectedError, aerr
		}
		return dh.DecryptStream(NewReaderSource(body), NewWriterSink(w))
	}
	return dh.DecryptStream(NewReaderSource(br), NewWriterSink(w))
}

var armorPeekPrefix = []byte("-----BEGIN PGP ")
