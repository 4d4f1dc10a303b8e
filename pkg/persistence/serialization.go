package persistence

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// MarshalOwnerSetRecord serializes an owner set record to JSON.
func MarshalOwnerSetRecord(record *OwnerSetRecord) ([]byte, error) {
	if record == nil {
		return nil, fmt.Errorf("cannot marshal nil OwnerSetRecord")
	}
	return json.Marshal(record)
}

// UnmarshalOwnerSetRecord deserializes an owner set record from JSON.
func UnmarshalOwnerSetRecord(data []byte) (*OwnerSetRecord, error) {
	var record OwnerSetRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal OwnerSetRecord: %w", err)
	}
	return &record, nil
}

// EncodeNonce serializes the replay counter as big-endian bytes.
func EncodeNonce(nonce uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, nonce)
	return buf
}

// DecodeNonce deserializes the replay counter.
func DecodeNonce(data []byte) (uint64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid nonce encoding: expected 8 bytes, got %d", len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}
