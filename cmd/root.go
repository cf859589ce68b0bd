package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/spf13/cobra"

	"mqtt2ola/internal/config"
	"mqtt2ola/internal/logger"
	"mqtt2ola/pkg/ola"
)

var (
	configFile string
	host       string
	port       int
	debug      bool

	// filled in by loadRuntime before any command runs
	cfg       *config.Config
	log       *logger.Log
	olaClient *ola.Client

	RootCmd = &cobra.Command{
		Use:               "mqtt2ola",
		Short:             "Drive an OLA server over MQTT or from the command line",
		Long:              "mqtt2ola bridges MQTT DMX topics to the HTTP API of an OLA server. Subcommands call the API directly.",
		SilenceUsage:      true,
		PersistentPreRunE: loadRuntime,
		RunE:              runBridge,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "configs/conf.toml", "Path to configuration file")
	RootCmd.PersistentFlags().StringVar(&host, "host", "", "OLA host, overrides the config file")
	RootCmd.PersistentFlags().IntVar(&port, "port", 0, "OLA HTTP port, overrides the config file")
	RootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debugging")
}

func loadRuntime(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.NewConfig(configFile)
	if err != nil {
		// the default path is optional, an explicit one is not
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return fmt.Errorf("configuration file read error: %w", err)
		}
		def := config.Default()
		cfg = &def
	}

	if host != "" {
		cfg.OLA.Host = host
	}
	if port != 0 {
		cfg.OLA.Port = port
	}
	if debug {
		cfg.Logger.Level = "debug"
	}

	log, err = logger.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create a logger: %w", err)
	}
	log.With(logger.Fields{"module": "logger"}).Debug("newLogger created ok")

	olaClient = ola.New(cfg.OLA.Host, cfg.OLA.Port,
		ola.WithBufferLength(cfg.OLA.BufferLength),
		ola.WithHTTPClient(&http.Client{Timeout: cfg.OLA.Timeout.Duration}),
		ola.WithLogger(log),
	)
	log.With(logger.Fields{"module": "ola"}).Debugf("client for %s created ok", olaClient.BaseURL())
	return nil
}
