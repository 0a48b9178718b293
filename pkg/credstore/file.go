package credstore

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// File layout: magic | salt | nonce | sealed token.
var fileMagic = []byte("IGT1")

const (
	saltSize = 16
	keySize  = chacha20poly1305.KeySize

	argonTime    = 1
	argonMemory  = 19 * 1024
	argonThreads = 1

	fileMode = 0o600
	dirMode  = 0o700
)

// FileStore keeps the token in a single file encrypted with XChaCha20-Poly1305.
// It is meant for hosts without a usable keyring, such as CI runners and containers.
//
// The encryption key is derived from a passphrase with Argon2id and a per-write
// random salt. Writes go through a temporary file and a rename, so a concurrent
// reader sees either the old or the new token.
type FileStore struct {
	path       string
	passphrase []byte

	mu   sync.Mutex
	keys map[string][]byte // salt -> derived key
}

// NewFileStore returns a store that writes to path, creating its directory on first write.
func NewFileStore(path string, passphrase []byte) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("credstore: file path is required")
	}
	if len(passphrase) == 0 {
		return nil, fmt.Errorf("credstore: passphrase is required")
	}
	return &FileStore{
		path:       filepath.Clean(path),
		passphrase: append([]byte(nil), passphrase...),
		keys:       make(map[string][]byte),
	}, nil
}

// Path returns the file the token is written to.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Store(token string) error {
	if token == "" {
		return storageError("store", StatusInvalid, errors.New("token is empty"))
	}

	sealed, err := s.seal([]byte(token))
	if err != nil {
		return storageError("store", StatusCrypto, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return storageError("store", StatusIO, err)
	}
	if err := writeFileAtomic(s.path, sealed); err != nil {
		return storageError("store", StatusIO, err)
	}
	return nil
}

func (s *FileStore) Retrieve() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}
	token, err := s.open(data)
	if err != nil || len(token) == 0 {
		return "", false
	}
	return string(token), true
}

func (s *FileStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageError("delete", StatusIO, err)
	}
	return nil
}

func (s *FileStore) seal(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, fileMagic), nil
}

func (s *FileStore) open(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, fileMagic) {
		return nil, errors.New("unrecognized token file")
	}
	data = data[len(fileMagic):]
	if len(data) < saltSize+chacha20poly1305.NonceSizeX {
		return nil, errors.New("token file truncated")
	}
	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	sealed := data[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(s.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, sealed, fileMagic)
}

// deriveKey memoizes Argon2id per salt; a token file keeps its salt until the next write.
func (s *FileStore) deriveKey(salt []byte) []byte {
	s.mu.Lock()
	key, ok := s.keys[string(salt)]
	s.mu.Unlock()
	if ok {
		return key
	}

	key = argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, keySize)

	s.mu.Lock()
	s.keys[string(salt)] = key
	s.mu.Unlock()
	return key
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)
