package codec

import (
	"bytes"
	"encoding/json"
)

func NewJsonCodec[T any]() Codec[T] {
	return Codec[T]{encode: JsonEncode[T], decode: JsonDecode[T], tag: "json"}
}

func JsonEncode[T any](value T) ([]byte, error) {
	return json.Marshal(value)
}

// Numbers inside interface values are kept as json.Number, so integers
// survive the round trip.
func JsonDecode[T any](data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	err := dec.Decode(&v)
	return v, err
}
