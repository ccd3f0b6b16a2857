// Package constants provides a set of common constants shared by the
// message, key file and container codecs.
package constants

// Constants for armored data.
const (
	ArmorHeaderVersion = "goencryptmsg " + Version
	ArmorHeaderComment = "https://github.com/encryptmsg/goencryptmsg"
	PGPMessageHeader   = "PGP MESSAGE"
)
