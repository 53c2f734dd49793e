// Package idgen generates surrogate entity ids.
//
// Ids are produced client-side, before any row is persisted, so parent ids
// are known when child rows reference them. The format is a fixed-length
// base36 string: a millisecond timestamp prefix (keeps ids roughly sortable
// by creation time) followed by random entropy.
package idgen

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const base36Alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const (
	timeLength    = 8  // base36 millisecond timestamp
	entropyLength = 12 // base36 random suffix
)

// EncodeBase36 converts a byte slice to a base36 string of the given length,
// left-padded with zeros and truncated to the least significant digits.
func EncodeBase36(data []byte, length int) string {
	num := new(big.Int).SetBytes(data)
	base := big.NewInt(36)
	zero := big.NewInt(0)
	mod := new(big.Int)

	chars := make([]byte, 0, length)
	for num.Cmp(zero) > 0 {
		num.DivMod(num, base, mod)
		chars = append(chars, base36Alphabet[mod.Int64()])
	}
	for i, j := 0, len(chars)-1; i < j; i, j = i+1, j-1 {
		chars[i], chars[j] = chars[j], chars[i]
	}

	str := string(chars)
	if len(str) < length {
		str = strings.Repeat("0", length-len(str)) + str
	}
	if len(str) > length {
		str = str[len(str)-length:]
	}
	return str
}

func encodeBase36Int(n int64, length int) string {
	num := big.NewInt(n)
	return EncodeBase36(num.Bytes(), length)
}

// NewID returns a fresh surrogate id. Collisions require identical
// millisecond timestamps plus identical 9-byte random suffixes, which is
// negligible at import batch sizes.
func NewID() string {
	entropy := make([]byte, 9)
	if _, err := rand.Read(entropy); err != nil {
		// crypto/rand failure means the platform RNG is broken; fall back
		// to the timestamp alone rather than returning an error nobody
		// can act on.
		return encodeBase36Int(time.Now().UnixNano(), timeLength+entropyLength)
	}
	return encodeBase36Int(time.Now().UnixMilli(), timeLength) + EncodeBase36(entropy, entropyLength)
}

// Valid reports whether s looks like an id produced by NewID.
func Valid(s string) bool {
	if len(s) != timeLength+entropyLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !strings.ContainsRune(base36Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}
