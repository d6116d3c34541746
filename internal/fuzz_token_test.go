package internal

import (
	"testing"
)

// FuzzDecodeToken exercises token decoding with arbitrary strings.
// Goal: no panics; invalid inputs should return errors cleanly.
func FuzzDecodeToken(f *testing.F) {
	f.Add("")
	f.Add("abc")
	f.Add("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA") // 43 chars, one 32-byte block

	// A genuinely valid token as seed.
	if secret, err := NewSecret(); err == nil {
		f.Add(EncodeToken(secret))
	}

	// Malformed base64 and wrong lengths.
	f.Add("!!!not-base64!!!")
	f.Add("aGVsbG8=")
	f.Add("dG9vLXNob3J0")

	f.Fuzz(func(t *testing.T, input string) {
		// Must not panic. Errors are fine for invalid inputs.
		secret, err := DecodeToken(input)
		if err != nil {
			return
		}

		// A successful decode must round-trip exactly.
		reEncoded := EncodeToken(secret)
		secret2, err := DecodeToken(reEncoded)
		if err != nil {
			t.Fatalf("roundtrip decode failed: %v", err)
		}
		if secret2 != secret {
			t.Error("roundtrip secret mismatch")
		}
	})
}
