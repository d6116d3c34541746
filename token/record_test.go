package token

import (
	"testing"
	"time"
)

func TestRecordRoundTrip(t *testing.T) {
	now := time.Now().Unix()
	original := &Record{
		UserID:     "user-1",
		Family:     "d3b1c2a0-0000-4000-8000-000000000001",
		DeviceInfo: "Mozilla/5.0 (X11; Linux x86_64)",
		IPAddress:  "203.0.113.7",
		CreatedAt:  now,
		LastUsedAt: now,
		RotatedAt:  now + 30,
		Rotated:    true,
	}

	encoded, err := encodeRecord(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeRecord(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if *decoded != *original {
		t.Fatalf("round trip mismatch: got %+v want %+v", decoded, original)
	}
}

func TestRecordEmptyMetadata(t *testing.T) {
	original := &Record{
		UserID:    "u",
		Family:    "f",
		CreatedAt: 1700000000,
	}

	encoded, err := encodeRecord(original)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	decoded, err := decodeRecord(encoded)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.DeviceInfo != "" || decoded.IPAddress != "" {
		t.Fatalf("expected empty metadata, got %+v", decoded)
	}
	if decoded.Rotated {
		t.Fatal("fresh record decoded as rotated")
	}
}

func TestDecodeRecordRejectsCorruptBlobs(t *testing.T) {
	valid, err := encodeRecord(&Record{UserID: "u", Family: "f"})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	cases := map[string][]byte{
		"empty":           {},
		"bad version":     {0xFF, 0x00},
		"truncated":       valid[:len(valid)-3],
		"trailing bytes":  append(append([]byte{}, valid...), 0x00),
		"header only":     valid[:2],
		"missing lengths": valid[:26],
	}

	for name, blob := range cases {
		if _, err := decodeRecord(blob); err == nil {
			t.Fatalf("%s: decode accepted corrupt blob", name)
		}
	}
}
