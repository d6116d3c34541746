package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
)

// SecretSize is the byte length of a refresh secret. 32 bytes of CSPRNG
// output; the secret itself is the credential, there is no embedded
// structure to parse.
const SecretSize = 32

// ErrInvalidTokenEncoding is returned by DecodeToken for tokens that are
// not well-formed base64url secrets of the expected size.
var ErrInvalidTokenEncoding = errors.New("invalid refresh token encoding")

// NewSecret generates a fresh refresh secret from crypto/rand.
func NewSecret() ([SecretSize]byte, error) {
	var secret [SecretSize]byte
	_, err := rand.Read(secret[:])
	return secret, err
}

// HashSecret is the lookup-key derivation: SHA-256 over the raw secret.
// Deterministic and unsalted; the secret is high-entropy random data, so a
// per-token salt would add a stored field without adding protection.
func HashSecret(secret [SecretSize]byte) [32]byte {
	return sha256.Sum256(secret[:])
}

// HashSecretBytes hashes an already-decoded secret of arbitrary length.
func HashSecretBytes(secret []byte) [32]byte {
	return sha256.Sum256(secret)
}

// EncodeToken renders a secret as the opaque token string handed to callers.
func EncodeToken(secret [SecretSize]byte) string {
	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(secret[:])
}

// DecodeToken parses an opaque token string back into the raw secret.
func DecodeToken(token string) ([SecretSize]byte, error) {
	var secret [SecretSize]byte

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return secret, ErrInvalidTokenEncoding
	}
	if len(raw) != SecretSize {
		return secret, ErrInvalidTokenEncoding
	}

	copy(secret[:], raw)
	return secret, nil
}

// EncodeDigest renders a digest for use as a Redis key segment or set member.
func EncodeDigest(digest [32]byte) string {
	return base64.RawURLEncoding.EncodeToString(digest[:])
}
