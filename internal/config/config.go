package config

import (
	"time"

	"github.com/BurntSushi/toml"
)

// Config структура конфигурации.
type Config struct {
	Logger LogConf    // Logger - конфигурация регистратора.
	OLA    OLAConf    // OLA - адрес сервера OLA.
	MQTT   MQTTConf   // MQTT - конфигурация MQTT клиента.
	Bridge BridgeConf // Bridge - параметры моста MQTT -> OLA.
}

// LogConf структура конфигурации.
type LogConf struct {
	Level  string `toml:"log-level"`  // Level - уровень логирования.
	Format string `toml:"log-format"` // Format - "text" или "json".
}

// OLAConf describes the OLA server the client talks to.
type OLAConf struct {
	Host         string   `toml:"host"`
	Port         int      `toml:"port"`
	BufferLength int      `toml:"buffer-length"` // BufferLength - количество каналов в кадре DMX.
	Timeout      Duration `toml:"timeout"`       // Timeout - таймаут HTTP запроса, 0 - без таймаута.
}

// MQTTConf структура конфигурации.
type MQTTConf struct {
	ClientID string `toml:"clientID"` // ClientID - имя клиента.
	Schema   string `toml:"schema"`   // Schema - тип подключения.
	Host     string `toml:"server"`   // Host - адрес MQTT сервера.
	Port     string `toml:"port"`     // Port - порт MQTT сервера.
	User     string `toml:"user"`     // User - логин для подключения к MQTT серверу.
	Password string `toml:"password"` // Password - пароль для подключения к MQTT серверу.
	Qos      byte   `toml:"qos"`      // Qos - качество обслуживания.
}

// BridgeConf controls topics and the status loop.
type BridgeConf struct {
	TopicPrefix    string   `toml:"topic-prefix"`
	StatusInterval Duration `toml:"status-interval"` // 0 disables status publication.
}

// Duration reads "5s"-style strings from toml.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// Default returns the configuration used when a key is missing from the file.
func Default() Config {
	return Config{
		Logger: LogConf{Level: "info", Format: "text"},
		OLA: OLAConf{
			Host:         "localhost",
			Port:         9090,
			BufferLength: 512,
			Timeout:      Duration{10 * time.Second},
		},
		MQTT: MQTTConf{
			ClientID: "mqtt2ola",
			Schema:   "tcp",
			Host:     "localhost",
			Port:     "1883",
		},
		Bridge: BridgeConf{
			TopicPrefix:    "ola",
			StatusInterval: Duration{30 * time.Second},
		},
	}
}

// NewConfig конструктор.
func NewConfig(path string) (*Config, error) {
	// default values
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return &cfg, err
	}
	return &cfg, nil
}
