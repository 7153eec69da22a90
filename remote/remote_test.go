package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport swaps the MQTT client for an in-process topic map.
func fakeTransport(prefix string) (*Client, map[string][]string) {
	published := make(map[string][]string)
	handlers := make(map[string]func([]byte))
	return &Client{
		prefix: prefix,
		publish: func(topic string, payload []byte) error {
			published[topic] = append(published[topic], string(payload))
			if h, ok := handlers[topic]; ok {
				h(payload)
			}
			return nil
		},
		subscribe: func(topic string, handler func([]byte)) error {
			handlers[topic] = handler
			return nil
		},
	}, published
}

func TestWritePublishesPrefixedChannel(t *testing.T) {
	c, published := fakeTransport("neoglow/control")

	require.NoError(t, c.Write("V2", 512))
	require.NoError(t, c.Write("V2", 0))

	assert.Equal(t, []string{"512", "0"}, published["neoglow/control/V2"])
}

func TestWriteWithoutPrefix(t *testing.T) {
	c, published := fakeTransport("")
	require.NoError(t, c.Write("V0", 1))
	assert.Equal(t, []string{"1"}, published["V0"])
}

func TestHandleParsesIntegers(t *testing.T) {
	c, _ := fakeTransport("neoglow/control")

	var got []int
	require.NoError(t, c.Handle("V0", func(v int) { got = append(got, v) }))

	require.NoError(t, c.Write("V0", 1))
	require.NoError(t, c.Write("V0", 0))
	assert.Equal(t, []int{1, 0}, got)
}

func TestHandleDropsGarbage(t *testing.T) {
	c, _ := fakeTransport("")

	var got []int
	require.NoError(t, c.Handle("V1", func(v int) { got = append(got, v) }))

	require.NoError(t, c.publish("V1", []byte("not a number")))
	require.NoError(t, c.publish("V1", []byte(" 7 ")))
	assert.Equal(t, []int{7}, got)
}
