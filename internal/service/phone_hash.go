package service

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// PhoneHasher derives a stable, keyed token from a phone number so repeat
// anonymous complaints can be correlated without storing the number.
type PhoneHasher struct {
	key []byte
}

// NewPhoneHasher keys the hash; blake2b accepts keys up to 64 bytes.
func NewPhoneHasher(key string) *PhoneHasher {
	k := []byte(key)
	if len(k) > blake2b.Size {
		k = k[:blake2b.Size]
	}
	return &PhoneHasher{key: k}
}

// Hash returns the hex digest for phone.
func (h *PhoneHasher) Hash(phone string) string {
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// only reachable with an oversized key, which the constructor prevents
		panic(err)
	}
	mac.Write([]byte(phone))
	return hex.EncodeToString(mac.Sum(nil))
}
