// Package armor contains a set of helper methods for armoring and
// unarmoring data.
package armor

import (
	"bytes"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/pkg/errors"

	"github.com/encryptmsg/goencryptmsg/constants"
	"github.com/encryptmsg/goencryptmsg/internal"
)

// ArmorMessage armors input as a PGP message block.
func ArmorMessage(input []byte) (string, error) {
	return ArmorWithType(input, constants.PGPMessageHeader)
}

// ArmorWithType armors input with the given armorType.
func ArmorWithType(input []byte, armorType string) (string, error) {
	var b bytes.Buffer
	w, err := armor.Encode(&b, armorType, internal.ArmorHeaders)
	if err != nil {
		return "", errors.Wrap(err, "goencryptmsg: unable to encode armoring")
	}
	if _, err = w.Write(input); err != nil {
		return "", errors.Wrap(err, "goencryptmsg: unable to write armored to buffer")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "goencryptmsg: unable to close armor buffer")
	}
	return b.String(), nil
}

// ArmorReader returns an io.Reader which, when read, reads unarmored
// data from in.
func ArmorReader(in io.Reader) (io.Reader, error) {
	block, err := armor.Decode(in)
	if err != nil {
		return nil, errors.Wrap(err, "goencryptmsg: unable to unarmor")
	}
	return block.Body, nil
}

// Unarmor unarmors an armored input into a byte array.
func Unarmor(input []byte) ([]byte, error) {
	block, err := internal.Unarmor(input)
	if err != nil {
		return nil, errors.Wrap(err, "goencryptmsg: unable to unarmor")
	}
	return io.ReadAll(block.Body)
}

// IsArmored reports whether input looks like an armored block.
func IsArmored(input []byte) bool {
	return internal.IsArmored(input)
}
