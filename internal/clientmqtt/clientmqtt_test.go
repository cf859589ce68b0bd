package clientmqtt

import (
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"mqtt2ola/internal/logger"
)

func quietLog() *logger.Log {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &logger.Log{Entry: logrus.NewEntry(l)}
}

// fakeMessage implements only the parts of mqtt.Message the handler reads.
type fakeMessage struct {
	mqtt.Message
	topic   string
	payload []byte
}

func (m fakeMessage) Topic() string   { return m.topic }
func (m fakeMessage) Payload() []byte { return m.payload }

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
		want    DataCh
	}{
		{
			name:    "set",
			topic:   "ola/1/set",
			payload: `[{"channel":0,"value":255},{"channel":10,"value":7}]`,
			want:    DataCh{Universe: 1, Commands: Payload{{Channel: 0, Value: 255}, {Channel: 10, Value: 7}}},
		},
		{
			name:    "frame",
			topic:   "ola/3/frame",
			payload: `[255,0,128]`,
			want:    DataCh{Universe: 3, Frame: []byte{255, 0, 128}, Absolute: true},
		},
		{
			name:    "blackout frame",
			topic:   "ola/3/frame",
			payload: `[]`,
			want:    DataCh{Universe: 3, Frame: []byte{}, Absolute: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMessage("ola", tt.topic, []byte(tt.payload))
			if err != nil {
				t.Fatalf("ParseMessage: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseMessage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseMessageErrors(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{name: "foreign prefix", topic: "other/1/set", payload: `[]`},
		{name: "missing action", topic: "ola/1", payload: `[]`},
		{name: "too deep", topic: "ola/1/set/x", payload: `[]`},
		{name: "bad universe", topic: "ola/one/set", payload: `[]`},
		{name: "universe overflow", topic: "ola/70000/set", payload: `[]`},
		{name: "unknown action", topic: "ola/1/get", payload: `[]`},
		{name: "set not json", topic: "ola/1/set", payload: `on`},
		{name: "set value overflow", topic: "ola/1/set", payload: `[{"channel":1,"value":300}]`},
		{name: "frame not json", topic: "ola/1/frame", payload: `{`},
		{name: "frame value overflow", topic: "ola/1/frame", payload: `[1,256]`},
		{name: "frame negative", topic: "ola/1/frame", payload: `[-1]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMessage("ola", tt.topic, []byte(tt.payload)); err == nil {
				t.Fatalf("ParseMessage(%q, %q) expected error", tt.topic, tt.payload)
			}
		})
	}
}

func TestTopics(t *testing.T) {
	c := NewClient(quietLog(), MQTTConf{TopicPrefix: "stage", Qos: 1})
	want := map[string]byte{"stage/+/set": 1, "stage/+/frame": 1}
	if got := c.Topics(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Topics() = %v, want %v", got, want)
	}
}

func TestMessageHandlerForwards(t *testing.T) {
	ch := make(chan DataCh, 1)
	c := NewClient(quietLog(), MQTTConf{TopicPrefix: "ola"})
	c.ctx = context.Background()
	c.dmxDataCh = ch

	c.messageHandler(nil, fakeMessage{topic: "ola/2/frame", payload: []byte(`[1,2]`)})

	select {
	case got := <-ch:
		want := DataCh{Universe: 2, Frame: []byte{1, 2}, Absolute: true}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	case <-time.After(time.Second):
		t.Fatal("no data forwarded")
	}
}

func TestMessageHandlerDropsInvalid(t *testing.T) {
	ch := make(chan DataCh, 1)
	c := NewClient(quietLog(), MQTTConf{TopicPrefix: "ola"})
	c.ctx = context.Background()
	c.dmxDataCh = ch

	c.messageHandler(nil, fakeMessage{topic: "ola/2/frame", payload: []byte(`nope`)})

	if len(ch) != 0 {
		t.Fatalf("invalid message forwarded: %+v", <-ch)
	}
}

func TestMessageHandlerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(quietLog(), MQTTConf{TopicPrefix: "ola"})
	c.ctx = ctx
	c.dmxDataCh = make(chan DataCh) // unbuffered, nobody reads

	done := make(chan struct{})
	go func() {
		c.messageHandler(nil, fakeMessage{topic: "ola/1/set", payload: []byte(`[]`)})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler blocked after context cancel")
	}
}

func TestPublishBeforeStart(t *testing.T) {
	c := NewClient(quietLog(), MQTTConf{})
	if err := c.Publish("ola/status/server", true, []byte(`{}`)); err == nil {
		t.Fatal("expected error before Start")
	}
}
