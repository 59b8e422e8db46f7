package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize          = 32 // AES-256
	nonceSize        = 12
	pbkdf2Iterations = 100000
)

var (
	ErrNoPassphrase = errors.New("vault passphrase is not configured")
	ErrDecrypt      = errors.New("decryption failed: invalid key or corrupted data")
)

// Vault seals stored credential secrets with AES-256-GCM.
type Vault struct {
	key []byte
}

// New derives the vault key from passphrase and salt.
func New(passphrase, salt string) (*Vault, error) {
	if passphrase == "" {
		return nil, ErrNoPassphrase
	}
	key := pbkdf2.Key([]byte(passphrase), []byte(salt), pbkdf2Iterations, keySize, sha256.New)
	return &Vault{key: key}, nil
}

// Encrypt returns base64(nonce || ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	gcm, err := v.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (v *Vault) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(data) < nonceSize {
		return "", ErrDecrypt
	}

	gcm, err := v.gcm()
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plaintext), nil
}

func (v *Vault) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
