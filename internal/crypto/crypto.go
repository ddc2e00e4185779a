// Package crypto stores and recovers gift card codes. Cards are
// encrypted with AES-256-GCM under a key derived from ENCRYPTION_KEY;
// tokens are opaque "nonce:ciphertext" hex strings.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const keyLength = 32

var ErrInvalidToken = errors.New("invalid encrypted token format")

// Encryptor provides the opaque encrypt/decrypt capability for card codes.
type Encryptor interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(token string) (string, error)
}

type aesEncryptor struct {
	key []byte
}

// New derives the AES key from the given secret. A 64-char hex secret is
// used as the key directly; anything else goes through scrypt.
func New(secret string) (Encryptor, error) {
	if secret == "" {
		return nil, errors.New("encryption key is required")
	}

	if len(secret) == hex.EncodedLen(keyLength) {
		if key, err := hex.DecodeString(secret); err == nil {
			return &aesEncryptor{key: key}, nil
		}
	}

	key, err := scrypt.Key([]byte(secret), []byte("salt"), 16384, 8, 1, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}
	return &aesEncryptor{key: key}, nil
}

func (e *aesEncryptor) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(sealed), nil
}

func (e *aesEncryptor) Decrypt(token string) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return "", ErrInvalidToken
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", ErrInvalidToken
	}
	sealed, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrInvalidToken
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(nonce) != gcm.NonceSize() {
		return "", ErrInvalidToken
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt card code: %w", err)
	}
	return string(plaintext), nil
}
