// Package remote exposes app-driven control of the engine as named virtual
// channels carrying small integers, transported over MQTT. A phone app
// publishing 1 to <prefix>/V0 is all it takes to make the ghast angry.
package remote

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"lautenbacher.net/neoglow/config"
)

// Client reads and writes named virtual control channels. The transport
// functions are swappable so tests run without a broker.
type Client struct {
	prefix    string
	publish   func(topic string, payload []byte) error
	subscribe func(topic string, handler func(payload []byte)) error
	close     func()
}

// Dial connects to the configured MQTT broker. Writes are fire-and-forget
// at QoS 0, matching the best-effort contract of the control surface.
func Dial(conf config.MQTTConfig) (*Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(conf.URL).
		SetClientID(conf.ClientID).
		SetUsername(conf.Username).
		SetPassword(conf.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connecting to MQTT broker %s: %w", conf.URL, token.Error())
	}

	return &Client{
		prefix: strings.TrimSuffix(conf.Prefix, "/"),
		publish: func(topic string, payload []byte) error {
			client.Publish(topic, 0, false, payload)
			return nil
		},
		subscribe: func(topic string, handler func(payload []byte)) error {
			token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
				handler(msg.Payload())
			})
			if token.Wait() && token.Error() != nil {
				return token.Error()
			}
			return nil
		},
		close: func() { client.Disconnect(250) },
	}, nil
}

func (c *Client) topic(channel string) string {
	if c.prefix == "" {
		return channel
	}
	return c.prefix + "/" + channel
}

// Write reports a value on a named channel.
func (c *Client) Write(channel string, value int) error {
	return c.publish(c.topic(channel), []byte(strconv.Itoa(value)))
}

// Handle invokes fn with every integer value arriving on the named
// channel. Non-numeric payloads are logged and dropped.
func (c *Client) Handle(channel string, fn func(int)) error {
	return c.subscribe(c.topic(channel), func(payload []byte) {
		value, err := strconv.Atoi(strings.TrimSpace(string(payload)))
		if err != nil {
			slog.Warn("ignoring non-numeric control value", "channel", channel, "payload", string(payload))
			return
		}
		fn(value)
	})
}

// Close disconnects from the broker.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}
