// Encoders and decoders for values kept in a byte storage.
package codec

type (
	Encode[T any] func(value T) ([]byte, error)
	Decode[T any] func(data []byte) (T, error)
)

type Codec[T any] struct {
	encode Encode[T]
	decode Decode[T]
	tag    string
}

func (c *Codec[T]) Encode(value T) ([]byte, error) {
	return c.encode(value)
}

func (c *Codec[T]) Decode(data []byte) (T, error) {
	return c.decode(data)
}

// Struct tag key the codec reads field names from.
func (c *Codec[T]) Tag() string {
	return c.tag
}

// ByName returns the codec registered under name ("bson", "json" or
// "msgpack").
func ByName[T any](name string) (Codec[T], bool) {
	switch name {
	case "bson":
		return NewBsonCodec[T](), true
	case "json":
		return NewJsonCodec[T](), true
	case "msgpack":
		return NewMsgpackCodec[T](), true
	}
	return Codec[T]{}, false
}
