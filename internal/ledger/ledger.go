// Package ledger appends valve transition events to a Kafka topic so an
// external audit pipeline can replay controller decisions. Optional: with no
// brokers configured the writer is nil and every call is a no-op.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Event records one valve transition and the readings that caused it.
type Event struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Moisture      float64 `json:"moisture"`
	Temperature   float64 `json:"temperature"`
	Health        int     `json:"health"`
	WateringHours float64 `json:"wateringHours"`
	At            int64   `json:"at"` // unix millis
}

// Writer wraps a kafka-go writer. A nil *Writer is valid and does nothing.
type Writer struct {
	lg *slog.Logger
	w  *kafka.Writer
}

// New returns nil when no brokers are configured.
func New(brokers []string, topic string, lg *slog.Logger) *Writer {
	if len(brokers) == 0 {
		return nil
	}
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	lg.Info("ledger wired", "brokers", brokers, "topic", topic)
	return &Writer{lg: lg, w: w}
}

// Append writes one event. Failures never affect the control loop; the
// caller just logs them.
func (l *Writer) Append(ctx context.Context, ev Event) error {
	if l == nil {
		return nil
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("ledger marshal: %w", err)
	}
	msg := kafka.Message{Value: b, Time: time.Now()}
	if err := l.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("ledger write: %w", err)
	}
	l.lg.Info("ledger_write_ok", "from", ev.From, "to", ev.To, "moisture", ev.Moisture)
	return nil
}

// Close releases the kafka writer.
func (l *Writer) Close() {
	if l == nil {
		return
	}
	_ = l.w.Close()
	l.lg.Info("ledger closed")
}
