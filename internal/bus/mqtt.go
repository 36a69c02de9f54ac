package bus

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 5 * time.Second

// MQTTBus adapts a paho client to the Bus interface. Handlers registered via
// Subscribe are kept so they can be re-attached when paho reconnects.
type MQTTBus struct {
	lg     *slog.Logger
	client mqtt.Client

	mu       sync.Mutex
	handlers map[string]func([]byte)
}

// NewMQTTBus connects to the broker at addr (e.g. tcp://localhost:1883) and
// blocks until the connection is established or the timeout elapses.
func NewMQTTBus(addr, clientID string, lg *slog.Logger) (*MQTTBus, error) {
	b := &MQTTBus{lg: lg, handlers: map[string]func([]byte){}}
	opts := mqtt.NewClientOptions().
		AddBroker(addr).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetOnConnectHandler(b.onConnect)
	b.client = mqtt.NewClient(opts)
	t := b.client.Connect()
	if !t.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect %s: timeout", addr)
	}
	if err := t.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", addr, err)
	}
	lg.Info("mqtt connected", "broker", addr, "clientId", clientID)
	return b, nil
}

// onConnect re-subscribes every registered handler; paho drops subscriptions
// across reconnects unless a persistent session is used.
func (b *MQTTBus) onConnect(c mqtt.Client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for topic, h := range b.handlers {
		b.subscribeLocked(c, topic, h)
	}
}

func (b *MQTTBus) subscribeLocked(c mqtt.Client, topic string, h func([]byte)) {
	t := c.Subscribe(topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		h(m.Payload())
	})
	t.Wait()
	if err := t.Error(); err != nil {
		b.lg.Error("mqtt subscribe failed", "topic", topic, "error", err)
		return
	}
	b.lg.Info("mqtt subscribed", "topic", topic)
}

// Publish sends at QoS 0 without retain, matching the at-most-once contract.
func (b *MQTTBus) Publish(topic string, payload []byte) error {
	t := b.client.Publish(topic, 0, false, payload)
	t.Wait()
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe registers handler for topic. Only one handler per topic; a second
// registration replaces the first.
func (b *MQTTBus) Subscribe(topic string, handler func([]byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = handler
	t := b.client.Subscribe(topic, 0, func(_ mqtt.Client, m mqtt.Message) {
		handler(m.Payload())
	})
	t.Wait()
	if err := t.Error(); err != nil {
		return fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	b.lg.Info("mqtt subscribed", "topic", topic)
	return nil
}

// Close disconnects after letting in-flight work drain briefly.
func (b *MQTTBus) Close() {
	b.client.Disconnect(250)
	b.lg.Info("mqtt disconnected")
}
