package replay

import (
	"context"
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"evcharge/libs/wire"
)

const publishTimeout = 10 * time.Second

// Publisher replays dataset records onto the topic at a fixed interval.
type Publisher struct {
	client   pahomqtt.Client
	topic    string
	interval time.Duration
	limit    int
	loop     bool
	logger   *zap.Logger
}

// NewPublisher returns publisher. limit 0 replays the whole dataset; loop
// restarts from the beginning when the dataset is exhausted.
func NewPublisher(client pahomqtt.Client, topic string, interval time.Duration, limit int, loop bool, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topic:    topic,
		interval: interval,
		limit:    limit,
		loop:     loop,
		logger:   logger,
	}
}

// Run publishes until the dataset (and limit) is exhausted or ctx cancelled.
func (p *Publisher) Run(ctx context.Context, sessions []wire.ChargingSession) error {
	if len(sessions) == 0 {
		return fmt.Errorf("replay: empty dataset")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	published := 0
	for {
		for _, session := range sessions {
			if p.limit > 0 && published >= p.limit {
				p.logger.Info("replay limit reached", zap.Int("published", published))
				return nil
			}

			if err := p.publish(session); err != nil {
				// A malformed row or broker hiccup never aborts the replay.
				p.logger.Warn("skipping record", zap.String("station_id", session.StationID), zap.Error(err))
			} else {
				published++
				p.logger.Debug("published session",
					zap.Int("published", published),
					zap.String("station_id", session.StationID),
					zap.Float64("energy_consumed_kwh", session.EnergyConsumedKWh))
			}

			select {
			case <-ctx.Done():
				p.logger.Info("replay stopped", zap.Int("published", published))
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if !p.loop {
			break
		}
	}

	p.logger.Info("replay finished", zap.Int("published", published))
	return nil
}

func (p *Publisher) publish(session wire.ChargingSession) error {
	payload, err := wire.Encode(session)
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, 1, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("replay: publish timed out")
	}
	return token.Error()
}
