package clientmqtt

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/goccy/go-json"

	"mqtt2ola/internal/logger"
)

// ClientMQTT структура клиента MQTT.
type ClientMQTT struct {
	ctx       context.Context
	log       logger.Logger
	cfgClient MQTTConf
	client    mqtt.Client
	opts      *mqtt.ClientOptions
	dmxDataCh chan<- DataCh
}

// NewClient конструктор.
func NewClient(log logger.Logger, cfgClient MQTTConf) *ClientMQTT {
	return &ClientMQTT{
		log:       log,
		cfgClient: cfgClient,
	}
}

// Start connects to the broker. Updates received on the DMX topics are sent
// to dmxDataCh until ctx is done.
func (c *ClientMQTT) Start(ctx context.Context, dmxDataCh chan<- DataCh) error {
	if c.log.GetLevel() == "debug" {
		mqttLog := c.log.With(logger.Fields{"module": "paho"})
		mqtt.ERROR = mqttLog
		mqtt.CRITICAL = mqttLog
		mqtt.WARN = mqttLog
	}

	c.ctx = ctx
	c.dmxDataCh = dmxDataCh

	c.opts = mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("%s://%s:%s", c.cfgClient.Schema, c.cfgClient.Host, c.cfgClient.Port)).
		SetUsername(c.cfgClient.User).
		SetPassword(c.cfgClient.Password).
		SetDefaultPublishHandler(c.messageHandler).
		SetOnConnectHandler(c.connectHandler).
		SetConnectionLostHandler(c.connectLostHandler).
		SetClientID(c.cfgClient.ClientID).
		SetOrderMatters(true). // frames for a universe must reach OLA in order
		SetCleanSession(false).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)

	c.client = mqtt.NewClient(c.opts)

	token := c.client.Connect()
	select {
	case <-token.Done():
		if token.Error() != nil {
			return token.Error()
		}
	case <-c.ctx.Done():
		return errors.New("context canceled")
	}

	c.log.With(logger.Fields{"module": "mqtt"}).Infof("Status: %v", c.client.IsConnected())
	return nil
}

func (c *ClientMQTT) Stop() error {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(500)
	}
	return nil
}

// Publish sends payload to topic and waits for the broker to accept it.
func (c *ClientMQTT) Publish(topic string, retained bool, payload []byte) error {
	if c.client == nil {
		return errors.New("mqtt client not started")
	}
	token := c.client.Publish(topic, c.cfgClient.Qos, retained, payload)
	select {
	case <-token.Done():
		return token.Error()
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// Topics returns the subscription filters for the configured prefix.
func (c *ClientMQTT) Topics() map[string]byte {
	return map[string]byte{
		c.cfgClient.TopicPrefix + "/+/" + suffixSet:   c.cfgClient.Qos,
		c.cfgClient.TopicPrefix + "/+/" + suffixFrame: c.cfgClient.Qos,
	}
}

// connectHandler subscribes on every (re)connect so a broker restart does
// not lose the subscriptions.
func (c *ClientMQTT) connectHandler(client mqtt.Client) {
	c.log.With(logger.Fields{"module": "mqtt"}).Info("client connected to server")
	c.sub(client, c.Topics())
}

func (c *ClientMQTT) connectLostHandler(_ mqtt.Client, err error) {
	c.log.With(logger.Fields{"module": "mqtt"}).Errorf("server connect lost: %v", err)
}

func (c *ClientMQTT) messageHandler(_ mqtt.Client, msg mqtt.Message) {
	log := c.log.With(logger.Fields{"module": "mqtt", "topic": msg.Topic()})
	log.Debugf("received message: %s", msg.Payload())

	data, err := ParseMessage(c.cfgClient.TopicPrefix, msg.Topic(), msg.Payload())
	if err != nil {
		log.Errorf("message rejected: %v", err)
		return
	}

	select {
	case c.dmxDataCh <- data:
	case <-c.ctx.Done():
	}
}

func (c *ClientMQTT) sub(client mqtt.Client, filters map[string]byte) {
	token := client.SubscribeMultiple(filters, c.messageHandler)
	go func() {
		select {
		case <-c.ctx.Done():
			return
		case <-token.Done():
			if token.Error() != nil {
				c.log.With(logger.Fields{"module": "mqtt"}).Errorf("subscription error. %v", token.Error())
				return
			}
		}
		c.log.With(logger.Fields{"module": "mqtt"}).Debugf("topics %v subscribed", filters)
	}()
}

// ParseMessage decodes a message published to <prefix>/<universe>/set or
// <prefix>/<universe>/frame.
//
// A set payload is a list of {"channel": n, "value": v} objects and only
// touches the listed channels. A frame payload is a list of channel values
// starting at channel 0 and replaces the whole universe; an empty list
// blacks it out.
func ParseMessage(prefix, topic string, payload []byte) (DataCh, error) {
	rest := strings.TrimPrefix(topic, prefix+"/")
	if rest == topic {
		return DataCh{}, fmt.Errorf("topic %q is outside prefix %q", topic, prefix)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		return DataCh{}, fmt.Errorf("topic %q: want %s/<universe>/{set,frame}", topic, prefix)
	}

	universe, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil {
		return DataCh{}, fmt.Errorf("topic %q: bad universe: %w", topic, err)
	}
	data := DataCh{Universe: uint16(universe)}

	switch parts[1] {
	case suffixSet:
		var cmds Payload
		if err := json.Unmarshal(payload, &cmds); err != nil {
			return DataCh{}, fmt.Errorf("message could not be parsed: %w", err)
		}
		data.Commands = cmds
	case suffixFrame:
		// Decoded as ints: a []byte target would expect base64.
		var values []int
		if err := json.Unmarshal(payload, &values); err != nil {
			return DataCh{}, fmt.Errorf("message could not be parsed: %w", err)
		}
		frame := make([]byte, len(values))
		for i, v := range values {
			if v < 0 || v > 255 {
				return DataCh{}, fmt.Errorf("channel %d: value %d out of range 0-255", i, v)
			}
			frame[i] = byte(v)
		}
		data.Frame = frame
		data.Absolute = true
	default:
		return DataCh{}, fmt.Errorf("topic %q: unknown action %q", topic, parts[1])
	}

	return data, nil
}
