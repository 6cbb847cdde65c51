package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"hash"
)

func CreateRandomHash() string {
	bytes := make([]byte, 32) //32 symbols
	rand.Read(bytes)
	return hex.EncodeToString(bytes[:])
}

func CreateSHA256Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// NewChecksumHash returns the streaming hash used for backup payload checksums.
func NewChecksumHash() hash.Hash {
	return sha256.New()
}

func EncodeChecksum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}
