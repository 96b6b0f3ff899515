package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// DeckHash fingerprints the decay-scheme deck a system was built from, so a
// persisted run records exactly which dataset produced it.
type DeckHash Hash

// NewDeckHash hashes raw deck file content
func NewDeckHash(data []byte) DeckHash { return DeckHash(NewHash(data)) }

func (h DeckHash) String() string { return Hash(h).String() }
