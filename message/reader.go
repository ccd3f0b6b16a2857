package message

import (
	stderrors "errors"
	"io"
	"sync"

	"github.com/ProtonMail/go-crypto/openpgp"
	pgperrors "github.com/ProtonMail/go-crypto/openpgp/errors"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
	"github.com/pkg/errors"
)

// drainChunkSize is the plaintext pull size of the drain goroutine.
const drainChunkSize = 4096

// Reader incrementally decrypts a passphrase-protected OpenPGP message.
// Ciphertext is fed with Update; each call returns whatever plaintext
// the stream has produced so far, which may be empty while the reader
// is still buffering. Finish feeds the final bytes, closes the stream
// and returns the remaining plaintext; it must be called exactly once.
//
// The pull-based openpgp message reader runs in a drain goroutine
// behind an io.Pipe. The goroutine owns the openpgp stream; Update and
// Finish only touch the pipe and the shared plaintext buffer.
type Reader struct {
	pw *io.PipeWriter

	mu    sync.Mutex
	plain []byte

	done     chan struct{}
	err      error // written by the drain goroutine before done is closed
	finished bool
	closed   bool
}

// NewReader starts a reader for a message encrypted with the given
// passphrase.
func NewReader(passphrase []byte, config *Config) *Reader {
	pr, pw := io.Pipe()
	r := &Reader{
		pw:   pw,
		done: make(chan struct{}),
	}
	go r.drain(pr, append([]byte(nil), passphrase...), config.packetConfig())
	return r
}

// Update feeds ciphertext and returns the plaintext produced so far.
// A typed Error is returned once the underlying stream has failed.
func (r *Reader) Update(buf []byte) ([]byte, error) {
	if r.finished {
		return nil, errors.New("goencryptmsg: update after finish")
	}
	if len(buf) > 0 {
		if _, err := r.pw.Write(buf); err != nil {
			<-r.done
			return nil, r.err
		}
	}
	return r.take(), nil
}

// Finish feeds the final ciphertext bytes, signals end of stream and
// returns the remaining plaintext. The integrity of the message is only
// fully verified once Finish returns without error.
func (r *Reader) Finish(buf []byte) ([]byte, error) {
	if r.finished {
		return nil, errors.New("goencryptmsg: finish called twice")
	}
	r.finished = true
	if len(buf) > 0 {
		if _, err := r.pw.Write(buf); err != nil {
			<-r.done
			return r.take(), r.err
		}
	}
	r.pw.Close()
	<-r.done
	return r.take(), r.err
}

// Close aborts the reader without verifying the stream. It is safe to
// call after Finish and multiple times.
func (r *Reader) Close() {
	if r.closed {
		return
	}
	r.closed = true
	if !r.finished {
		r.finished = true
		r.pw.CloseWithError(errors.New("goencryptmsg: reader aborted"))
	}
	<-r.done
}

func (r *Reader) take() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.plain
	r.plain = nil
	return out
}

func (r *Reader) drain(pr *io.PipeReader, passphrase []byte, config *packet.Config) {
	defer close(r.done)

	md, err := openpgp.ReadMessage(pr, nil, createPasswordPrompt(passphrase), config)
	if err != nil {
		r.err = classifyReadError(err)
		// Unblock any writer stuck in the pipe.
		pr.CloseWithError(r.err)
		return
	}

	buf := make([]byte, drainChunkSize)
	for {
		n, err := md.UnverifiedBody.Read(buf)
		if n > 0 {
			r.mu.Lock()
			r.plain = append(r.plain, buf[:n]...)
			r.mu.Unlock()
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			r.err = classifyBodyError(err)
			pr.CloseWithError(r.err)
			return
		}
	}
	// Consume bytes trailing the message so a writer never blocks on a
	// pipe nobody reads.
	_, _ = io.Copy(io.Discard, pr)
}

func createPasswordPrompt(passphrase []byte) func(keys []openpgp.Key, symmetric bool) ([]byte, error) {
	firstTimeCalled := true
	return func(keys []openpgp.Key, symmetric bool) ([]byte, error) {
		if firstTimeCalled {
			firstTimeCalled = false
			return passphrase, nil
		}
		// A re-prompt means the decrypted session key did not parse,
		// which for symmetric messages indicates a wrong passphrase.
		return nil, NewError(InvalidPassphrase)
	}
}

func classifyReadError(err error) error {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed
	}
	var unsupported pgperrors.UnsupportedError
	if stderrors.As(err, &unsupported) {
		return WrapError(err, UnsupportedPacketType)
	}
	// Parsing errors when reading the message are most likely caused by
	// an incorrect passphrase, but we cannot know for sure.
	return WrapError(errors.Wrap(err, "goencryptmsg: error in reading password protected message"), InvalidPassphrase)
}

func classifyBodyError(err error) error {
	if stderrors.Is(err, pgperrors.ErrMDCHashMismatch) || stderrors.Is(err, pgperrors.ErrMDCMissing) {
		return WrapError(err, MDCError)
	}
	var sig pgperrors.SignatureError
	if stderrors.As(err, &sig) {
		return WrapError(err, MDCError)
	}
	return WrapError(errors.Wrap(err, "goencryptmsg: error in reading message body"), UnexpectedError)
}
