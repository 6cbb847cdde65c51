package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const EncryptionAlgorithm = "AES-256-GCM"

const (
	keySize          = 32
	saltSize         = 16
	pbkdf2Iterations = 210000
)

// PayloadCipher encrypts and decrypts backup payloads with AES-256-GCM.
// The key is derived from an externally supplied secret; key rotation is the
// responsibility of whoever provides the secret.
type PayloadCipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
	Algorithm() string
}

func NewPayloadCipher(secret string) (PayloadCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("encryption secret is empty")
	}
	return &payloadCipherImpl{secret: []byte(secret)}, nil
}

type payloadCipherImpl struct {
	secret []byte
}

func (p *payloadCipherImpl) Algorithm() string {
	return EncryptionAlgorithm
}

// Encrypt produces salt || nonce || ciphertext. A fresh salt and nonce are
// generated for every artifact so identical payloads never produce identical files.
func (p *payloadCipherImpl) Encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := p.makeAEAD(salt)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plaintext, nil), nil
}

func (p *payloadCipherImpl) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltSize {
		return nil, fmt.Errorf("ciphertext is too short")
	}
	salt := ciphertext[:saltSize]

	aead, err := p.makeAEAD(salt)
	if err != nil {
		return nil, err
	}

	rest := ciphertext[saltSize:]
	if len(rest) < aead.NonceSize() {
		return nil, fmt.Errorf("ciphertext is too short")
	}
	nonce := rest[:aead.NonceSize()]

	plaintext, err := aead.Open(nil, nonce, rest[aead.NonceSize():], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt payload: %w", err)
	}
	return plaintext, nil
}

func (p *payloadCipherImpl) makeAEAD(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(p.secret, salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}
