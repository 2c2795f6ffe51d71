package kserde

import (
	"fmt"
	"strconv"
)

// Int64TextSerializer renders an int64 as base-10 text
var Int64TextSerializer = func(data int64) ([]byte, error) {
	return strconv.AppendInt(nil, data, 10), nil
}

// Int64TextDeserializer parses base-10 text into an int64
var Int64TextDeserializer = func(data []byte) (int64, error) {
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("int64 text deserialization: %w", err)
	}
	return v, nil
}

// Int64Text is a SerDe for int64 values in decimal text form
var Int64Text = Serde[int64]{
	Serializer:   Int64TextSerializer,
	Deserializer: Int64TextDeserializer,
}
