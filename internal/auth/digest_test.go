package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyDigest_KnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     string
	}{
		{"empty", "", "0"},
		{"single char", "a", "97"},
		{"abc", "abc", "96354"},
		{"hello", "hello", "99162322"},
		// famous collision pair: both hash to 2112
		{"collision Aa", "Aa", "2112"},
		{"collision BB", "BB", "2112"},
		// long enough to wrap the 32-bit accumulator into negative territory
		{"signed overflow", "polygenelubricants", "-2147483648"},
		// U+1F600 is a surrogate pair; the hash runs over UTF-16 code
		// units (0xD83D, 0xDE00), not runes
		{"surrogate pair", "\U0001F600", "1772899"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, legacyDigest(tc.password))
		})
	}
}

func TestLegacyHasher_HashAndVerify(t *testing.T) {
	h := LegacyHasher{}

	digest, err := h.Hash("pw1234")
	require.NoError(t, err)

	assert.True(t, h.Verify("pw1234", digest))
	assert.False(t, h.Verify("pw12345", digest))
	assert.Equal(t, HashVersionLegacy, h.Version())

	// deterministic: same password, same digest
	again, err := h.Hash("pw1234")
	require.NoError(t, err)
	assert.Equal(t, digest, again)
}

func TestArgon2Hasher_HashAndVerify(t *testing.T) {
	h := Argon2Hasher{}

	digest, err := h.Hash("pw1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "v2$"))

	assert.True(t, h.Verify("pw1234", digest))
	assert.False(t, h.Verify("wrong", digest))
	assert.Equal(t, HashVersionArgon2, h.Version())

	// salted: two hashes of the same password differ
	again, err := h.Hash("pw1234")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again)
	assert.True(t, h.Verify("pw1234", again))
}

func TestArgon2Hasher_RejectsMalformedDigests(t *testing.T) {
	h := Argon2Hasher{}

	for _, digest := range []string{
		"",
		"12345",
		"v2$",
		"v2$nothex$cafe",
		"v2$cafe",
	} {
		assert.False(t, h.Verify("pw1234", digest), "digest %q", digest)
	}
}

func TestVersionOf(t *testing.T) {
	assert.Equal(t, HashVersionLegacy, VersionOf("-1038337121"))
	assert.Equal(t, HashVersionLegacy, VersionOf("0"))
	assert.Equal(t, HashVersionArgon2, VersionOf("v2$cafe$beef"))
}

func TestNewHasher(t *testing.T) {
	h, err := NewHasher("legacy")
	require.NoError(t, err)
	assert.Equal(t, HashVersionLegacy, h.Version())

	h, err = NewHasher("")
	require.NoError(t, err)
	assert.Equal(t, HashVersionLegacy, h.Version())

	h, err = NewHasher("argon2")
	require.NoError(t, err)
	assert.Equal(t, HashVersionArgon2, h.Version())

	_, err = NewHasher("md5")
	require.Error(t, err)
}
