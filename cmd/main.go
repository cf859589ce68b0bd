package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		logrus.Errorf("failed to execute command: %v", err)
		cancel()
		os.Exit(1)
	}
}
