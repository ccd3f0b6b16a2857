package message

import "bytes"

// Encrypt encrypts data into a passphrase-protected binary OpenPGP
// message in one call.
func Encrypt(data, passphrase []byte, config *Config) ([]byte, error) {
	var out bytes.Buffer
	w, err := NewWriter(&out, passphrase, config)
	if err != nil {
		return nil, err
	}
	if err := w.Update(data); err != nil {
		return nil, err
	}
	if err := w.Finish(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// Decrypt decrypts a passphrase-protected binary OpenPGP message in one
// call.
func Decrypt(data, passphrase []byte, config *Config) ([]byte, error) {
	r := NewReader(passphrase, config)
	defer r.Close()
	plain, err := r.Update(data)
	if err != nil {
		return nil, err
	}
	rest, err := r.Finish(nil)
	if err != nil {
		return nil, err
	}
	return append(plain, rest...), nil
}
