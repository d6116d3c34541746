package token

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

const recordVersionV1 = 1

const rotatedFlag = 0x01

// ErrRecordCorrupt is returned when a stored record blob cannot be decoded.
var ErrRecordCorrupt = errors.New("refresh token record corrupt")

// Record is the stored state of one issued refresh token, indexed in Redis
// by the digest of the secret the client holds. The plaintext secret is
// never persisted.
type Record struct {
	UserID     string
	Family     string
	DeviceInfo string
	IPAddress  string
	CreatedAt  int64
	LastUsedAt int64
	RotatedAt  int64
	Rotated    bool
}

func encodeRecord(record *Record) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(recordVersionV1)

	var flags byte
	if record.Rotated {
		flags |= rotatedFlag
	}
	buf.WriteByte(flags)

	if err := binary.Write(&buf, binary.BigEndian, record.CreatedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.LastUsedAt); err != nil {
		return nil, err
	}
	if err := binary.Write(&buf, binary.BigEndian, record.RotatedAt); err != nil {
		return nil, err
	}

	for _, field := range []string{record.UserID, record.Family, record.DeviceInfo, record.IPAddress} {
		if len(field) > 65535 {
			return nil, errors.New("record field too long")
		}
		if err := binary.Write(&buf, binary.BigEndian, uint16(len(field))); err != nil {
			return nil, err
		}
		buf.WriteString(field)
	}

	return buf.Bytes(), nil
}

func decodeRecord(data []byte) (*Record, error) {
	reader := bytes.NewReader(data)

	version, err := reader.ReadByte()
	if err != nil {
		return nil, ErrRecordCorrupt
	}
	if version != recordVersionV1 {
		return nil, ErrRecordCorrupt
	}

	flags, err := reader.ReadByte()
	if err != nil {
		return nil, ErrRecordCorrupt
	}

	record := &Record{
		Rotated: flags&rotatedFlag != 0,
	}

	if err := binary.Read(reader, binary.BigEndian, &record.CreatedAt); err != nil {
		return nil, ErrRecordCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &record.LastUsedAt); err != nil {
		return nil, ErrRecordCorrupt
	}
	if err := binary.Read(reader, binary.BigEndian, &record.RotatedAt); err != nil {
		return nil, ErrRecordCorrupt
	}

	for _, field := range []*string{&record.UserID, &record.Family, &record.DeviceInfo, &record.IPAddress} {
		var length uint16
		if err := binary.Read(reader, binary.BigEndian, &length); err != nil {
			return nil, ErrRecordCorrupt
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(reader, raw); err != nil {
			return nil, ErrRecordCorrupt
		}
		*field = string(raw)
	}

	if reader.Len() != 0 {
		return nil, ErrRecordCorrupt
	}

	return record, nil
}
