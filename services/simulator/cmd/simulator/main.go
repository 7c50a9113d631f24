package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"evcharge/libs/logging"
	"evcharge/services/simulator/internal/config"
	"evcharge/services/simulator/internal/replay"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("simulator")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	sessions, err := replay.LoadDataset(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("failed to load dataset", zap.Error(err))
	}
	logger.Info("dataset loaded",
		zap.String("path", cfg.Dataset.Path),
		zap.Int("records", len(sessions)))

	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.BrokerURL()).
		SetClientID(cfg.MQTT.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true)
	client := pahomqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		logger.Fatal("failed to connect to broker",
			zap.String("broker", cfg.BrokerURL()),
			zap.Error(token.Error()))
	}
	defer client.Disconnect(500)

	logger.Info("connected to broker",
		zap.String("broker", cfg.BrokerURL()),
		zap.String("topic", cfg.MQTT.Topic))

	publisher := replay.NewPublisher(client, cfg.MQTT.Topic, cfg.Interval, cfg.Limit, cfg.Loop, logger)
	if err := publisher.Run(ctx, sessions); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("replay stopped with error", zap.Error(err))
	}
}
