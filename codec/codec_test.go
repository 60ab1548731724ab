package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type song struct {
	Name  string `bson:"name" json:"name" codec:"name"`
	Plays int    `bson:"plays" json:"plays" codec:"plays"`
}

func TestCodecs(t *testing.T) {
	tags := map[string]string{"bson": "bson", "json": "json", "msgpack": "codec"}

	for name, tag := range tags {
		name, tag := name, tag
		t.Run(name, func(t *testing.T) {
			// arrange
			c, ok := ByName[song](name)
			value := song{Name: "Mean", Plays: 3}

			// act
			data, encErr := c.Encode(value)
			decoded, decErr := c.Decode(data)

			// assert
			assert.True(t, ok)
			assert.NoError(t, encErr)
			assert.NoError(t, decErr)
			assert.Equal(t, value, decoded)
			assert.Equal(t, tag, c.Tag())
		})
	}
}

func TestByNameUnknown(t *testing.T) {
	_, ok := ByName[song]("xml")
	assert.False(t, ok)
}
