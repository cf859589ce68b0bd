package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewConfigDefaults(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("empty file: got %+v, want defaults %+v", *cfg, Default())
	}
}

func TestNewConfigOverrides(t *testing.T) {
	cfg, err := NewConfig(writeConfig(t, `
[Logger]
log-level = "debug"

[OLA]
host = "10.0.0.2"
port = 9191
buffer-length = 24
timeout = "2s"

[MQTT]
server = "broker"
qos = 1

[Bridge]
topic-prefix = "stage"
status-interval = "0s"
`))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}

	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q", cfg.Logger.Level)
	}
	if cfg.OLA.Host != "10.0.0.2" || cfg.OLA.Port != 9191 || cfg.OLA.BufferLength != 24 {
		t.Errorf("OLA = %+v", cfg.OLA)
	}
	if cfg.OLA.Timeout.Duration != 2*time.Second {
		t.Errorf("OLA.Timeout = %v", cfg.OLA.Timeout)
	}
	if cfg.MQTT.Host != "broker" || cfg.MQTT.Qos != 1 {
		t.Errorf("MQTT = %+v", cfg.MQTT)
	}
	// keys absent from the file keep their defaults
	if cfg.MQTT.Port != "1883" || cfg.MQTT.Schema != "tcp" {
		t.Errorf("MQTT defaults lost: %+v", cfg.MQTT)
	}
	if cfg.Bridge.TopicPrefix != "stage" || cfg.Bridge.StatusInterval.Duration != 0 {
		t.Errorf("Bridge = %+v", cfg.Bridge)
	}
}

func TestNewConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{name: "missing file", path: func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.toml") }},
		{name: "bad duration", path: func(t *testing.T) string { return writeConfig(t, "[OLA]\ntimeout = \"soon\"\n") }},
		{name: "bad syntax", path: func(t *testing.T) string { return writeConfig(t, "[OLA\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewConfig(tt.path(t)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
