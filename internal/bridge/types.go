package bridge

import (
	"context"
	"time"

	"mqtt2ola/pkg/ola"
)

// ChannelValue defines a universe and the value of one of its DMX channels.
type ChannelValue struct {
	Universe uint16 // Universe: номер вселенной OLA.
	Channel  uint16 // Channel: номер байта (канал), с нуля.
	Value    uint8  // Value: значение для канала.
}

// DMXClient is the part of the OLA client the bridge drives.
type DMXClient interface {
	SetDMX(ctx context.Context, universe string, values []byte) error
	GetServerStats(ctx context.Context) (*ola.ServerStats, error)
	UniversesPluginList(ctx context.Context) (*ola.UniversesPluginList, error)
}

// Publisher sends status documents to the broker.
type Publisher interface {
	Publish(topic string, retained bool, payload []byte) error
}

// Conf настройки моста.
type Conf struct {
	TopicPrefix    string
	StatusInterval time.Duration // 0 - статус не публикуется.
	BufferLength   int           // количество каналов во вселенной.
}
