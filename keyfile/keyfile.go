// Package keyfile loads, generates and converts key files. A key file
// is an external resource, local path or URL, whose content is the key
// material used as the passphrase for a message. The content may be
// stored in the clear or wrapped in a passphrase-protected OpenPGP
// blob, armored or binary.
package keyfile

import (
	"encoding/base64"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/NebulousLabs/fastrand"
	"github.com/pkg/errors"

	"github.com/encryptmsg/goencryptmsg/armor"
	"github.com/encryptmsg/goencryptmsg/message"
)

// DefaultKeyBytes is the amount of random key material in a generated
// key file.
const DefaultKeyBytes = 32

// FetchParams configure the HTTP client used for URL key files.
type FetchParams struct {
	// Timeout bounds the whole fetch; zero means no timeout.
	Timeout time.Duration
	// UserAgent overrides the request user agent when non-empty.
	UserAgent string
}

// Load reads the key file at location, which is either a local path or
// an http(s) URL. Errors carry the IOErrorKeyFile result.
func Load(location string, fetch *FetchParams) ([]byte, error) {
	if isURL(location) {
		return fetchURL(location, fetch)
	}
	content, err := os.ReadFile(location)
	if err != nil {
		return nil, message.WrapError(errors.Wrap(err, "goencryptmsg: unable to read key file"), message.IOErrorKeyFile)
	}
	return content, nil
}

func isURL(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func fetchURL(location string, fetch *FetchParams) ([]byte, error) {
	client := &http.Client{}
	req, err := http.NewRequest(http.MethodGet, location, nil)
	if err != nil {
		return nil, message.WrapError(errors.Wrap(err, "goencryptmsg: invalid key file url"), message.IOErrorKeyFile)
	}
	if fetch != nil {
		client.Timeout = fetch.Timeout
		if fetch.UserAgent != "" {
			req.Header.Set("User-Agent", fetch.UserAgent)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, message.WrapError(errors.Wrap(err, "goencryptmsg: unable to fetch key file"), message.IOErrorKeyFile)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, message.WrapError(errors.Errorf("goencryptmsg: key file fetch returned %s", resp.Status), message.IOErrorKeyFile)
	}
	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, message.WrapError(errors.Wrap(err, "goencryptmsg: unable to read key file response"), message.IOErrorKeyFile)
	}
	return content, nil
}

// DecryptContent converts key file content into key material. Armored
// and binary OpenPGP blobs are decrypted with passphrase; plain content
// is used as is. Trailing line breaks are trimmed from the key material
// in both cases. Decryption failures carry the InvalidKeyFilePassphrase
// result.
func DecryptContent(content, passphrase []byte) ([]byte, error) {
	blob := content
	encrypted := false
	if armor.IsArmored(content) {
		unarmored, err := armor.Unarmor(content)
		if err != nil {
			return nil, message.WrapError(err, message.InvalidKeyFile)
		}
		blob = unarmored
		encrypted = true
	} else if len(blob) > 0 && blob[0]&0x80 != 0 {
		encrypted = true
	}
	if !encrypted {
		return trimKey(content), nil
	}

	plain, err := message.Decrypt(blob, passphrase, nil)
	if err != nil {
		return nil, message.WrapError(err, message.InvalidKeyFilePassphrase)
	}
	return trimKey(plain), nil
}

// EncryptContent wraps key material in a passphrase-protected OpenPGP
// blob, armored when requested.
func EncryptContent(content, passphrase []byte, armored bool) ([]byte, error) {
	encrypted, err := message.Encrypt(content, passphrase, nil)
	if err != nil {
		return nil, err
	}
	if !armored {
		return encrypted, nil
	}
	text, err := armor.ArmorMessage(encrypted)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Generate returns fresh base64 key material with n random bytes.
func Generate(n int) ([]byte, error) {
	if n <= 0 {
		n = DefaultKeyBytes
	}
	raw := fastrand.Bytes(n)
	return []byte(base64.StdEncoding.EncodeToString(raw)), nil
}

func trimKey(content []byte) []byte {
	return []byte(strings.TrimRight(string(content), "\r\n"))
}
