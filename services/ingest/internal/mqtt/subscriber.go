package mqtt

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"evcharge/services/ingest/internal/backoff"
	"evcharge/services/ingest/internal/worker"
)

// State of the channel subscription.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateSubscribed
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateSubscribed:
		return "subscribed"
	case StateDraining:
		return "draining"
	default:
		return "unknown"
	}
}

const (
	defaultKeepAlive      = 30 * time.Second
	defaultConnectTimeout = 10 * time.Second
	disconnectQuiesceMS   = 500
)

// seam for tests
var newClient = func(opts *pahomqtt.ClientOptions) pahomqtt.Client {
	return pahomqtt.NewClient(opts)
}

// Config for the subscriber.
type Config struct {
	BrokerURL string
	Topic     string
	ClientID  string
	Reconnect backoff.Policy
}

// Subscriber maintains a persistent QoS 1 subscription to a single topic and
// feeds delivered payloads into the worker pool. Messages are acknowledged
// only after the pool handler finishes, so every decoded record is attempted
// against the store at least once before the ack.
type Subscriber struct {
	cfg    Config
	pool   *worker.Pool
	logger *zap.Logger
	state  atomic.Int32
}

// NewSubscriber returns an unstarted subscriber.
func NewSubscriber(cfg Config, pool *worker.Pool, logger *zap.Logger) *Subscriber {
	return &Subscriber{
		cfg:    cfg,
		pool:   pool,
		logger: logger,
	}
}

// State returns the current subscription state.
func (s *Subscriber) State() State {
	return State(s.state.Load())
}

func (s *Subscriber) setState(state State) {
	s.state.Store(int32(state))
}

// Run connects, subscribes and keeps the subscription alive until ctx is
// cancelled. Reconnection retries forever with capped exponential backoff;
// the backoff resets after every successful subscribe. No in-process state
// needs replaying after a reconnect: aggregates live in the store.
func (s *Subscriber) Run(ctx context.Context) error {
	defer s.setState(StateDisconnected)

	attempt := 0
	for {
		s.setState(StateConnecting)
		client, lost, err := s.connect()
		if err != nil {
			attempt++
			delay := s.cfg.Reconnect.Delay(attempt)
			s.logger.Warn("broker connect failed",
				zap.String("broker", s.cfg.BrokerURL),
				zap.Int("attempt", attempt),
				zap.Duration("retry_in", delay),
				zap.Error(err))
			if !s.cfg.Reconnect.Sleep(ctx.Done(), attempt) {
				return ctx.Err()
			}
			continue
		}

		attempt = 0
		s.setState(StateSubscribed)
		s.logger.Info("subscribed",
			zap.String("broker", s.cfg.BrokerURL),
			zap.String("topic", s.cfg.Topic))

		select {
		case <-ctx.Done():
			s.setState(StateDraining)
			s.drain(client)
			return ctx.Err()
		case err := <-lost:
			s.logger.Warn("broker connection lost", zap.Error(err))
			// back around to Connecting
		}
	}
}

// connect dials the broker and subscribes. The returned channel reports a
// lost connection for this client only, so a stale notice from a previous
// connection can never trigger a spurious reconnect.
func (s *Subscriber) connect() (pahomqtt.Client, <-chan error, error) {
	lost := make(chan error, 1)

	opts := pahomqtt.NewClientOptions().
		AddBroker(s.cfg.BrokerURL).
		SetClientID(s.cfg.ClientID).
		SetCleanSession(false).
		SetAutoReconnect(false).
		SetAutoAckDisabled(true).
		SetKeepAlive(defaultKeepAlive).
		SetConnectTimeout(defaultConnectTimeout).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			select {
			case lost <- err:
			default:
			}
		})

	client := newClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, nil, fmt.Errorf("mqtt: connect: %w", token.Error())
	}

	if token := client.Subscribe(s.cfg.Topic, 1, s.onMessage); token.Wait() && token.Error() != nil {
		client.Disconnect(disconnectQuiesceMS)
		return nil, nil, fmt.Errorf("mqtt: subscribe %s: %w", s.cfg.Topic, token.Error())
	}

	return client, lost, nil
}

func (s *Subscriber) onMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	accepted := s.pool.Submit(worker.Job{
		Payload: msg.Payload(),
		Ack:     msg.Ack,
	})
	if !accepted {
		// Left unacked on purpose: the broker redelivers it to the next
		// subscriber session.
		s.logger.Debug("message refused while draining",
			zap.String("topic", msg.Topic()))
	}
}

// drain closes the subscription without acking queued-but-unhandled messages.
// In-flight writes are finished by the worker pool, which the caller drains
// after Run returns.
func (s *Subscriber) drain(client pahomqtt.Client) {
	if token := client.Unsubscribe(s.cfg.Topic); !token.WaitTimeout(defaultConnectTimeout) || token.Error() != nil {
		s.logger.Warn("unsubscribe failed", zap.Error(token.Error()))
	}
	client.Disconnect(disconnectQuiesceMS)
}
