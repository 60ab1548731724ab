package codec

import (
	"fmt"

	"gopkg.in/mgo.v2/bson"
)

// Only structs and maps are valid bson documents at the top level.
// Nested documents decode into bson.M when the target is an interface.

func BsonEncode[T any](value T) ([]byte, error) {
	data, err := bson.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("bson: encoding %T: %w", value, err)
	}
	return data, nil
}

func BsonDecode[T any](data []byte) (T, error) {
	var v T
	if err := bson.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("bson: decoding into %T: %w", v, err)
	}
	return v, nil
}

func NewBsonCodec[T any]() Codec[T] {
	return Codec[T]{encode: BsonEncode[T], decode: BsonDecode[T], tag: "bson"}
}
