package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/argon2"
)

// Digest versions. Version 1 is the historical rolling hash carried over
// from the browser app; version 2 is argon2id with a per-account salt.
const (
	HashVersionLegacy = 1
	HashVersionArgon2 = 2
)

const argon2Prefix = "v2$"

// Hasher produces and verifies password digests for one scheme.
type Hasher interface {
	Version() int
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// NewHasher returns the Hasher for a configured scheme name
// ("legacy" or "argon2").
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case "", "legacy":
		return LegacyHasher{}, nil
	case "argon2":
		return Argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown digest scheme %q", scheme)
	}
}

// HasherFor returns the Hasher matching a stored digest version.
func HasherFor(version int) Hasher {
	if version == HashVersionArgon2 {
		return Argon2Hasher{}
	}
	return LegacyHasher{}
}

// VersionOf reports the digest version of a stored digest string.
func VersionOf(digest string) int {
	if strings.HasPrefix(digest, argon2Prefix) {
		return HashVersionArgon2
	}
	return HashVersionLegacy
}

// LegacyHasher is the original non-cryptographic obfuscation: a rolling
// hash over the UTF-16 code units of the password with 32-bit signed
// wraparound at every step, rendered as a base-10 string. It is
// deterministic, unsalted, and must not be mistaken for a security
// primitive; it exists for byte-for-byte compatibility with digests
// already on disk.
type LegacyHasher struct{}

func (LegacyHasher) Version() int { return HashVersionLegacy }

func (LegacyHasher) Hash(password string) (string, error) {
	return legacyDigest(password), nil
}

func (LegacyHasher) Verify(password, digest string) bool {
	candidate := legacyDigest(password)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1
}

// legacyDigest computes hash = (hash << 5) - hash + codeUnit over UTF-16
// code units. int32 arithmetic wraps exactly like the original's
// "hash & hash" truncation.
func legacyDigest(password string) string {
	var hash int32
	for _, cu := range utf16.Encode([]rune(password)) {
		hash = hash<<5 - hash + int32(cu)
	}
	return strconv.FormatInt(int64(hash), 10)
}

// Argon2Hasher derives digests with argon2id and a random 16-byte salt,
// encoded as "v2$<salt-hex>$<key-hex>". Opt-in via configuration; existing
// legacy digests are re-hashed on the next successful login.
type Argon2Hasher struct{}

const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	argon2SaltLen = 16
)

func (Argon2Hasher) Version() int { return HashVersionArgon2 }

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	return argon2Prefix + hex.EncodeToString(salt) + "$" + hex.EncodeToString(key), nil
}

func (Argon2Hasher) Verify(password, digest string) bool {
	rest, ok := strings.CutPrefix(digest, argon2Prefix)
	if !ok {
		return false
	}
	saltHex, keyHex, ok := strings.Cut(rest, "$")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(candidate, key) == 1
}
