// Package internal contains internal methods and constants.
package internal

import (
	"bytes"

	"github.com/ProtonMail/go-crypto/openpgp/armor"

	"github.com/encryptmsg/goencryptmsg/constants"
)

var armorPrefix = []byte("-----BEGIN PGP ")

// ArmorHeaders is a map of default armor headers.
var ArmorHeaders = map[string]string{
	"Version": constants.ArmorHeaderVersion,
	"Comment": constants.ArmorHeaderComment,
}

// Unarmor decodes an armored block from input.
func Unarmor(input []byte) (*armor.Block, error) {
	return armor.Decode(bytes.NewReader(input))
}

// IsArmored reports whether input starts with an armor begin line,
// ignoring leading whitespace.
func IsArmored(input []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(input, " \t\r\n"), armorPrefix)
}
