package crypto

import (
	"github.com/rcrowley/go-metrics"

	"github.com/encryptmsg/goencryptmsg/message"
)

// decryptionContext is the mutable carrier of one decryption run. It
// owns the working buffers and the sessions; both are released on every
// exit path.
type decryptionContext struct {
	in  Source
	out Sink

	// buffer holds the hot working bytes: just read, or just produced
	// by a filter pass and awaiting the next consumer.
	buffer []byte
	// pending stages bytes for a consumer that needs more input before
	// it can proceed (format sniffer, WAD head parser).
	pending []byte

	format Format
	// filterCount is the number of decryption passes applied to the
	// bytes in buffer; reset to zero on every read.
	filterCount int

	passphraseSession *decryptionSession
	keyFileSession    *decryptionSession

	wadHeadFinished bool

	metadata *message.Metadata
	params   *EncryptParams

	chunkSize int

	result message.Result
	err    error
	failed bool

	bytesIn  metrics.Counter
	bytesOut metrics.Counter
}

func newDecryptionContext(in Source, out Sink, params *EncryptParams, metadata *message.Metadata, chunkSize int, registry metrics.Registry) *decryptionContext {
	return &decryptionContext{
		in:        in,
		out:       out,
		params:    params,
		metadata:  metadata,
		chunkSize: chunkSize,
		bytesIn:   metrics.GetOrRegisterCounter("pipeline.bytes.in", registry),
		bytesOut:  metrics.GetOrRegisterCounter("pipeline.bytes.out", registry),
	}
}

// fail records a typed result and raises the sticky failure flag; the
// dispatcher enters the terminal Fail state on its next scan.
func (c *decryptionContext) fail(result message.Result, err error) {
	c.result = result
	c.err = err
	c.failed = true
}

func (c *decryptionContext) setResult(result message.Result) {
	c.result = result
}

// release drops the sessions and buffers. Called on every exit path.
func (c *decryptionContext) release() {
	c.passphraseSession.release()
	c.keyFileSession.release()
	c.passphraseSession = nil
	c.keyFileSession = nil
	c.buffer = nil
	c.pending = nil
}
