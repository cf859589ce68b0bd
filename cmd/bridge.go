package main

import (
	"github.com/spf13/cobra"

	"mqtt2ola/internal/bridge"
	"mqtt2ola/internal/clientmqtt"
	"mqtt2ola/internal/config"
	"mqtt2ola/internal/logger"
)

var bridgeCmd = &cobra.Command{
	Use:   "bridge",
	Short: "Forward MQTT DMX topics to OLA (default)",
	Args:  cobra.NoArgs,
	RunE:  runBridge,
}

func init() {
	RootCmd.AddCommand(bridgeCmd)
}

func runBridge(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	client := clientmqtt.NewClient(log, ConvertConfigClientMQTT(cfg.MQTT, cfg.Bridge.TopicPrefix))
	log.With(logger.Fields{"module": "mqtt"}).Debug("NewClient created ok")

	b := bridge.NewBridge(log, olaClient, client, bridge.Conf{
		TopicPrefix:    cfg.Bridge.TopicPrefix,
		StatusInterval: cfg.Bridge.StatusInterval.Duration,
		BufferLength:   olaClient.BufferLength(),
	})
	log.With(logger.Fields{"module": "bridge"}).Debug("NewBridge created ok")

	// Канал для передачи.
	dmxDataCh := make(chan clientmqtt.DataCh, 10)

	if err := client.Start(ctx, dmxDataCh); err != nil {
		return err
	}
	b.Start(ctx, dmxDataCh)

	<-ctx.Done()

	if err := client.Stop(); err != nil {
		log.Error("failed to stop MQTT service:", err.Error())
	}
	b.Stop()

	log.Info("shutdown complete")
	return nil
}

// ConvertConfigClientMQTT преобразует структуры.
func ConvertConfigClientMQTT(cfg config.MQTTConf, prefix string) clientmqtt.MQTTConf {
	schema := cfg.Schema
	if schema == "" {
		schema = "tcp"
	}
	return clientmqtt.MQTTConf{
		ClientID:    cfg.ClientID,
		Schema:      schema,
		Host:        cfg.Host,
		Port:        cfg.Port,
		User:        cfg.User,
		Password:    cfg.Password,
		Qos:         cfg.Qos,
		TopicPrefix: prefix,
	}
}
