// Package wad reads and writes the WAD archive container wrapping
// encrypted payloads. A WAD starts with the ASCII magic "IWAD" or
// "PWAD", followed by a lump count and a directory offset; the
// directory locates the encrypted payload and an optional key-file
// reference. The current layout places the directory and the key lump
// before the payload so that a streaming reader can parse the head from
// a prefix; the legacy "3.2.1" layout places them after the payload.
package wad

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/encryptmsg/goencryptmsg/message"
)

const (
	// HeaderSize is magic + lump count + directory offset.
	HeaderSize = 12
	// DirEntrySize is filepos + size + 8-byte lump name.
	DirEntrySize = 16

	// PayloadLumpName locates the encrypted payload.
	PayloadLumpName = "_PAYLOAD"
	// KeyLumpName holds the key-file location string.
	KeyLumpName = "__X2_KEY"

	// maxLumps bounds the directory; EncryptPad archives carry two.
	maxLumps = 64
)

// Info is the result of parsing a WAD head.
type Info struct {
	// PayloadOffset is the byte offset of the encrypted payload.
	PayloadOffset uint32
	// PayloadSize is the payload length; zero means the payload extends
	// to the end of the container.
	PayloadSize uint32
	// KeyFile is the embedded key-file reference, empty if none.
	KeyFile string
}

func incomplete(msg string) error {
	return message.WrapError(errors.New("wad: "+msg), message.InvalidOrIncompleteWadFile)
}

func invalid(msg string) error {
	return message.WrapError(errors.New("wad: "+msg), message.InvalidWadFile)
}

// IsMagic reports whether b starts with a WAD magic.
func IsMagic(b []byte) bool {
	return len(b) >= 4 && (bytes.Equal(b[:4], []byte("IWAD")) || bytes.Equal(b[:4], []byte("PWAD")))
}

// Parse reads the container head from b. b may be a prefix of the
// archive: a truncated head yields a typed InvalidOrIncompleteWadFile
// error, which callers treat as "need more input" until EOF. A
// structurally invalid container yields InvalidWadFile.
func Parse(b []byte) (Info, error) {
	var info Info
	if len(b) < HeaderSize {
		return info, incomplete("truncated header")
	}
	if !IsMagic(b) {
		return info, invalid("bad magic")
	}
	count := binary.LittleEndian.Uint32(b[4:8])
	dirOffset := binary.LittleEndian.Uint32(b[8:12])
	if count == 0 || count > maxLumps {
		return info, invalid("implausible lump count")
	}
	dirEnd := uint64(dirOffset) + uint64(count)*DirEntrySize
	if dirEnd > uint64(len(b)) {
		return info, incomplete("directory out of range")
	}

	payloadFound := false
	for i := uint32(0); i < count; i++ {
		entry := b[uint64(dirOffset)+uint64(i)*DirEntrySize:]
		filePos := binary.LittleEndian.Uint32(entry[0:4])
		size := binary.LittleEndian.Uint32(entry[4:8])
		name := string(bytes.TrimRight(entry[8:16], "\x00"))

		switch name {
		case PayloadLumpName:
			if uint64(filePos) > uint64(len(b)) {
				return info, incomplete("payload out of range")
			}
			info.PayloadOffset = filePos
			info.PayloadSize = size
			payloadFound = true
		case KeyLumpName:
			end := uint64(filePos) + uint64(size)
			if end > uint64(len(b)) {
				return info, incomplete("key lump out of range")
			}
			info.KeyFile = string(b[filePos:end])
		}
	}
	if !payloadFound {
		return info, invalid("payload lump missing")
	}
	return info, nil
}

// Writer streams a WAD archive: the header, directory and key lump are
// written up front, and the payload extends to the end of the container
// (its directory size is zero). Close is a no-op flush point kept for
// symmetry with the message writer.
type Writer struct {
	w io.Writer
}

// NewWriter writes the container head on w and returns a writer for the
// payload bytes.
func NewWriter(w io.Writer, keyFile string) (*Writer, error) {
	head, err := buildHead(keyFile)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(head); err != nil {
		return nil, errors.Wrap(err, "wad: unable to write container head")
	}
	return &Writer{w: w}, nil
}

func (w *Writer) Write(p []byte) (int, error) {
	return w.w.Write(p)
}

func (w *Writer) Close() error {
	return nil
}

// Write builds an archive around payload in one call.
func Write(w io.Writer, payload []byte, keyFile string) error {
	ww, err := NewWriter(w, keyFile)
	if err != nil {
		return err
	}
	if _, err := ww.Write(payload); err != nil {
		return errors.Wrap(err, "wad: unable to write payload")
	}
	return ww.Close()
}

// WriteLegacy builds an archive in the legacy "3.2.1" layout: payload
// first, then the key lump and the directory, with the header pointing
// at the trailing directory. The archive is written front to back in a
// single pass. The payload size is exact, so readers must trim the
// trailer.
func WriteLegacy(w io.WriteSeeker, payload []byte, keyFile string) error {
	keyPos := uint32(HeaderSize + len(payload))
	dirOffset := keyPos + uint32(len(keyFile))

	magic := []byte("IWAD")
	header := make([]byte, HeaderSize)
	copy(header, magic)
	binary.LittleEndian.PutUint32(header[4:8], 2)
	binary.LittleEndian.PutUint32(header[8:12], dirOffset)
	if _, err := w.Write(header); err != nil {
		return errors.Wrap(err, "wad: unable to write header")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "wad: unable to write payload")
	}
	if _, err := w.Write([]byte(keyFile)); err != nil {
		return errors.Wrap(err, "wad: unable to write key lump")
	}

	dir := make([]byte, 2*DirEntrySize)
	putDirEntry(dir[0:], keyPos, uint32(len(keyFile)), KeyLumpName)
	putDirEntry(dir[DirEntrySize:], HeaderSize, uint32(len(payload)), PayloadLumpName)
	if _, err := w.Write(dir); err != nil {
		return errors.Wrap(err, "wad: unable to write directory")
	}
	return nil
}

func buildHead(keyFile string) ([]byte, error) {
	if len(keyFile) > 0xFFFF {
		return nil, invalid("key file reference too long")
	}
	keyPos := uint32(HeaderSize + 2*DirEntrySize)
	payloadPos := keyPos + uint32(len(keyFile))

	head := make([]byte, 0, payloadPos)
	header := make([]byte, HeaderSize)
	copy(header, "IWAD")
	binary.LittleEndian.PutUint32(header[4:8], 2)
	binary.LittleEndian.PutUint32(header[8:12], HeaderSize)
	head = append(head, header...)

	entry := make([]byte, DirEntrySize)
	putDirEntry(entry, keyPos, uint32(len(keyFile)), KeyLumpName)
	head = append(head, entry...)
	putDirEntry(entry, payloadPos, 0, PayloadLumpName)
	head = append(head, entry...)

	head = append(head, keyFile...)
	return head, nil
}

func putDirEntry(b []byte, filePos, size uint32, name string) {
	binary.LittleEndian.PutUint32(b[0:4], filePos)
	binary.LittleEndian.PutUint32(b[4:8], size)
	for i := 0; i < 8; i++ {
		b[8+i] = 0
	}
	copy(b[8:16], name)
}
