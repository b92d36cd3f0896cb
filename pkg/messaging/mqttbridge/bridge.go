// Package mqttbridge relays hub messages to and from an MQTT broker as JSON,
// so several processes (or a device and a dashboard) can share one message
// stream.
//
// A type should not be forwarded and received on the same topic: every
// received message would be published back to the broker.
package mqttbridge

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/go-fluid/fluid/pkg/config"
	fluiderrors "github.com/go-fluid/fluid/pkg/errors"
	"github.com/go-fluid/fluid/pkg/messaging"
	"github.com/go-fluid/fluid/pkg/platform"
)

// DefaultTimeout bounds broker round trips when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Bridge connects a hub to a broker client.
type Bridge struct {
	hub     *messaging.Hub
	client  mqtt.Client
	prefix  string
	qos     byte
	timeout time.Duration
	logger  logrus.FieldLogger

	mu     sync.Mutex
	subs   []*messaging.Subscription
	topics []string
	closed bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithTopicPrefix prepends prefix to every topic.
func WithTopicPrefix(prefix string) Option {
	return func(b *Bridge) { b.prefix = prefix }
}

// WithQoS sets the quality of service for publishes and subscriptions.
func WithQoS(qos byte) Option {
	return func(b *Bridge) { b.qos = qos }
}

// WithTimeout bounds how long Receive and Close wait for the broker.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

// WithLogger sets the bridge logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConfig applies the prefix, QoS and timeout of cfg.
func WithConfig(cfg config.MQTTConfig) Option {
	return func(b *Bridge) {
		b.prefix = cfg.TopicPrefix
		b.qos = cfg.QoS
		WithTimeout(cfg.Timeout)(b)
	}
}

// New creates a bridge between hub and client. The client should already be
// connected; see [Dial].
func New(hub *messaging.Hub, client mqtt.Client, opts ...Option) (*Bridge, error) {
	if hub == nil || client == nil {
		return nil, fluiderrors.New("mqttbridge.New", fluiderrors.KindConfig,
			fmt.Errorf("%w: hub and client are required", fluiderrors.ErrNilArgument))
	}
	b := &Bridge{
		hub:     hub,
		client:  client,
		timeout: DefaultTimeout,
		logger:  logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithField("component", "mqttbridge")
	return b, nil
}

// Topic returns the broker topic for topic.
func (b *Bridge) Topic(topic string) string {
	return b.prefix + topic
}

type forwardKey struct {
	bridge *Bridge
	topic  string
}

// Forward publishes every hub message of type T to topic as JSON. Broker
// failures are reported through the error handler; they never reach the
// publisher on the hub.
func Forward[T any](b *Bridge, topic string) error {
	if err := b.checkOpen("mqttbridge.Forward"); err != nil {
		return err
	}
	full := b.Topic(topic)
	sub, err := messaging.Subscribe(b.hub, forwardKey{b, full}, func(msg T) {
		b.send(full, msg)
	})
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	b.logger.WithField("topic", full).Info("forwarding")
	return nil
}

func (b *Bridge) send(topic string, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.report("mqttbridge.Forward", topic, err)
		return
	}
	token := b.client.Publish(topic, b.qos, false, payload)
	go b.await("mqttbridge.Forward", topic, token)
}

func (b *Bridge) await(op, topic string, token mqtt.Token) {
	if err := b.wait(token); err != nil {
		b.report(op, topic, err)
	}
}

// Receive subscribes to topic on the broker and republishes each decoded
// message of type T on the hub, on the UI thread. Payloads that do not
// decode are reported and dropped.
func Receive[T any](b *Bridge, topic string) error {
	const op = "mqttbridge.Receive"
	if err := b.checkOpen(op); err != nil {
		return err
	}
	full := b.Topic(topic)
	token := b.client.Subscribe(full, b.qos, func(_ mqtt.Client, m mqtt.Message) {
		var msg T
		if err := json.Unmarshal(m.Payload(), &msg); err != nil {
			b.report(op, m.Topic(), err)
			return
		}
		platform.RunOnUI(func() {
			messaging.Publish(b.hub, msg)
		})
	})
	if err := b.wait(token); err != nil {
		return b.transport(op, full, err)
	}
	b.mu.Lock()
	b.topics = append(b.topics, full)
	b.mu.Unlock()
	b.logger.WithField("topic", full).Info("receiving")
	return nil
}

// Close releases the hub subscriptions and unsubscribes from every broker
// topic. It does not disconnect the client.
func (b *Bridge) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs, topics := b.subs, b.topics
	b.subs, b.topics = nil, nil
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Release()
	}
	if len(topics) == 0 {
		return nil
	}
	if err := b.wait(b.client.Unsubscribe(topics...)); err != nil {
		return b.transport("mqttbridge.Close", "", err)
	}
	return nil
}

func (b *Bridge) checkOpen(op string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return fluiderrors.New(op, fluiderrors.KindState,
			fmt.Errorf("%w: bridge closed", fluiderrors.ErrInvalidState))
	}
	return nil
}

func (b *Bridge) wait(token mqtt.Token) error {
	if !token.WaitTimeout(b.timeout) {
		return fmt.Errorf("timed out after %v", b.timeout)
	}
	return token.Error()
}

func (b *Bridge) transport(op, topic string, err error) *fluiderrors.FluidError {
	return &fluiderrors.FluidError{Op: op, Kind: fluiderrors.KindTransport, Target: topic, Err: err}
}

func (b *Bridge) report(op, topic string, err error) {
	b.logger.WithField("topic", topic).WithError(err).Warn("relay failed")
	fluiderrors.Report(b.transport(op, topic, err))
}
