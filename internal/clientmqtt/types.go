package clientmqtt

type MQTTConf struct {
	ClientID    string // ClientID - уникальное имя клиента для брокеров.
	Schema      string // Schema - тип подключения.
	Host        string // Host - адрес MQTT сервера.
	Port        string // Port - порт MQTT сервера.
	User        string // User - логин для подключения к MQTT серверу.
	Password    string // Password - пароль для подключения к MQTT серверу.
	Qos         byte   // Qos - качество обслуживания.
	TopicPrefix string // TopicPrefix - корень дерева топиков, например "ola".
}

// Topic suffixes under <prefix>/<universe>/.
const (
	suffixSet   = "set"
	suffixFrame = "frame"
)

// DataCh is one update for a universe received over MQTT.
type DataCh struct {
	Universe uint16
	Commands Payload // relative update, set only when Absolute is false
	Frame    []byte  // whole universe, set only when Absolute is true
	Absolute bool
}

type DMXCommand struct {
	Channel uint16 `json:"channel"` // Channel is the channel a command can talk to (0-511).
	Value   uint8  `json:"value"`   // Value is the value a DMX channel can represent (0-255).
}

type Payload []DMXCommand
