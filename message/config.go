package message

import (
	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/encryptmsg/goencryptmsg/constants"
)

// Config selects the symmetric cipher and compression of a message
// stream. The zero value selects the library defaults.
type Config struct {
	Cipher      string
	Compression string
}

func (c *Config) packetConfig() *packet.Config {
	cipher := constants.DefaultCipher
	compression := constants.DefaultCompression
	if c != nil && c.Cipher != "" {
		cipher = c.Cipher
	}
	if c != nil && c.Compression != "" {
		compression = c.Compression
	}

	pc := &packet.Config{}
	switch cipher {
	case constants.ThreeDES:
		pc.DefaultCipher = packet.Cipher3DES
	case constants.CAST5:
		pc.DefaultCipher = packet.CipherCAST5
	case constants.AES128:
		pc.DefaultCipher = packet.CipherAES128
	case constants.AES192:
		pc.DefaultCipher = packet.CipherAES192
	default:
		pc.DefaultCipher = packet.CipherAES256
	}
	switch compression {
	case constants.NoCompression:
		pc.DefaultCompressionAlgo = packet.CompressionNone
	case constants.ZIPCompression:
		pc.DefaultCompressionAlgo = packet.CompressionZIP
	default:
		pc.DefaultCompressionAlgo = packet.CompressionZLIB
	}
	return pc
}
