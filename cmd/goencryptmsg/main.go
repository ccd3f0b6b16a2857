// Command goencryptmsg encrypts and decrypts files in the envelopes of
// the library: passphrase, key file, WAD and nested WAD.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/encryptmsg/goencryptmsg/constants"
	"github.com/encryptmsg/goencryptmsg/crypto"
	"github.com/encryptmsg/goencryptmsg/keyfile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "goencryptmsg:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		encrypt     = flag.Bool("e", false, "encrypt instead of decrypt")
		output      = flag.String("o", "", "output file (default: stdout)")
		keyFile     = flag.String("key-file", "", "key file path or URL")
		keyOnly     = flag.Bool("key-only", false, "message is key-file encrypted, skip the passphrase")
		keyFilePwd  = flag.Bool("key-file-passphrase", false, "prompt for a key file passphrase")
		wadWrap     = flag.Bool("wad", false, "wrap the encrypted payload in a WAD archive")
		nested      = flag.Bool("nested", false, "passphrase-encrypt the WAD archive as well")
		persistKey  = flag.Bool("persist-key-location", false, "embed the key file reference in the WAD header")
		armored     = flag.Bool("armor", false, "armor the encrypted output")
		genKey      = flag.Int("generate-key", 0, "generate a key file with n random bytes and exit")
		chunkSize   = flag.Int("chunk-size", constants.DefaultChunkSize, "read chunk size of the decryption pipeline")
		passFD      = flag.Int("passphrase-fd", -1, "read passphrases from this file descriptor instead of prompting")
	)
	flag.Parse()

	prompter := &passphrasePrompter{fd: *passFD}

	if *genKey > 0 {
		return generateKey(*genKey, *keyFile, *keyFilePwd, prompter)
	}

	in, err := openInput(flag.Arg(0))
	if err != nil {
		return err
	}
	defer in.Close()

	needPassphrase := *keyFile == "" || *nested
	if !*encrypt {
		needPassphrase = !*keyOnly
	}
	var passphrase []byte
	if needPassphrase {
		passphrase, err = prompter.read("Passphrase: ")
		if err != nil {
			return err
		}
	}
	var keyFilePassphrase []byte
	if *keyFilePwd {
		keyFilePassphrase, err = prompter.read("Key file passphrase: ")
		if err != nil {
			return err
		}
	}

	out, commit, err := openOutput(*output)
	if err != nil {
		return err
	}

	if *encrypt {
		builder := crypto.Encryption().Passphrase(passphrase)
		if *keyFile != "" {
			builder = builder.KeyFile(*keyFile).KeyFilePassphrase(keyFilePassphrase)
		}
		if *nested {
			builder = builder.WadWrap(*persistKey).Nested()
		} else if *wadWrap {
			builder = builder.WadWrap(*persistKey)
		}
		if *armored {
			builder = builder.Armored()
		}
		if err := builder.New().EncryptStream(in, out); err != nil {
			return err
		}
		return commit()
	}

	builder := crypto.Decryption().
		Passphrase(passphrase).
		KeyFile(*keyFile).
		KeyFilePassphrase(keyFilePassphrase).
		ChunkSize(*chunkSize)
	if *keyOnly {
		builder = builder.KeyOnly()
	}
	if _, err := builder.New().DecryptingPipe(in, out); err != nil {
		return err
	}
	return commit()
}

func generateKey(n int, location string, encrypted bool, prompter *passphrasePrompter) error {
	key, err := keyfile.Generate(n)
	if err != nil {
		return err
	}
	content := key
	if encrypted {
		passphrase, err := prompter.read("Key file passphrase: ")
		if err != nil {
			return err
		}
		content, err = keyfile.EncryptContent(key, passphrase, true)
		if err != nil {
			return err
		}
	}
	if location == "" {
		_, err := os.Stdout.Write(append(content, '\n'))
		return err
	}
	return os.WriteFile(location, content, 0o600)
}

func openInput(path string) (*os.File, error) {
	if path == "" || path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// openOutput returns the output writer and a commit function. File
// output is written to a uniquely named temporary sibling and renamed
// into place on commit, so failed runs never leave a partial file
// under the final name.
func openOutput(path string) (*os.File, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, nil, err
	}
	commit := func() error {
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		return os.Rename(tmp, path)
	}
	return f, commit, nil
}

// passphrasePrompter reads passphrases without echo from the terminal,
// or line by line from the descriptor given with -passphrase-fd for
// scripted use, e.g. goencryptmsg -passphrase-fd 3 3<<<"$PASS".
type passphrasePrompter struct {
	fd     int
	reader *bufio.Reader
}

func (p *passphrasePrompter) read(prompt string) ([]byte, error) {
	if p.fd >= 0 {
		return p.readFromFD()
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("stdin is not a terminal; pass the passphrase with -passphrase-fd")
	}
	fmt.Fprint(os.Stderr, prompt)
	passphrase, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}
	return passphrase, nil
}

func (p *passphrasePrompter) readFromFD() ([]byte, error) {
	if p.reader == nil {
		f := os.NewFile(uintptr(p.fd), "passphrase")
		if f == nil {
			return nil, fmt.Errorf("invalid passphrase fd %d", p.fd)
		}
		p.reader = bufio.NewReader(f)
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
