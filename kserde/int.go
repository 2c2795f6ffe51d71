package kserde

import (
	"encoding/binary"
	"fmt"
)

// Int64Size is the length of a binary encoded int64.
const Int64Size = 8

// Int64Serializer encodes an int64 as 8 big-endian bytes. Non-negative values
// sort bytewise in numeric order, which keeps Kafka record keys ordered.
var Int64Serializer = func(data int64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(make([]byte, 0, Int64Size), uint64(data)), nil
}

// Int64Deserializer decodes 8 big-endian bytes
var Int64Deserializer = func(data []byte) (int64, error) {
	if len(data) != Int64Size {
		return 0, fmt.Errorf("int64 deserialization requires exactly %d bytes, got %d", Int64Size, len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

// Int64 is a SerDe for int64 values in binary form
var Int64 = Serde[int64]{
	Serializer:   Int64Serializer,
	Deserializer: Int64Deserializer,
}
