package codec

import (
	"reflect"

	"github.com/ugorji/go/codec"
)

// handles must not be modified after first use
var mh = func() *codec.MsgpackHandle {
	h := &codec.MsgpackHandle{}
	h.MapType = reflect.TypeOf(map[string]any(nil))
	h.RawToString = true
	h.WriteExt = true
	return h
}()

func NewMsgpackCodec[T any]() Codec[T] {
	return Codec[T]{encode: MsgpackEncode[T], decode: MsgpackDecode[T], tag: "codec"}
}

func MsgpackEncode[T any](value T) ([]byte, error) {
	var b []byte
	err := codec.NewEncoderBytes(&b, mh).Encode(value)
	return b, err
}

func MsgpackDecode[T any](data []byte) (T, error) {
	var v T
	err := codec.NewDecoderBytes(data, mh).Decode(&v)
	return v, err
}
