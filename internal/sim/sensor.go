package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/bus"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/plant"
)

// SensorPublisher ticks the plant model on a fixed period and publishes the
// resulting moisture and temperature readings.
type SensorPublisher struct {
	lg    *slog.Logger
	b     bus.Bus
	model *plant.Model
	step  time.Duration
}

func NewSensorPublisher(b bus.Bus, model *plant.Model, step time.Duration, lg *slog.Logger) *SensorPublisher {
	return &SensorPublisher{lg: lg, b: b, model: model, step: step}
}

// Run blocks until ctx is cancelled. A failed publish is logged and skipped;
// the next tick republishes fresh values, so no retry loop is needed.
func (p *SensorPublisher) Run(ctx context.Context) {
	t := time.NewTicker(p.step)
	defer t.Stop()
	p.lg.Info("sensor publisher started", "step", p.step.String())
	for {
		select {
		case <-ctx.Done():
			p.lg.Info("sensor publisher stopped")
			return
		case now := <-t.C:
			moisture, temperature := p.model.Tick(now)
			p.publish(bus.TopicSoilMoisture, moisture)
			p.publish(bus.TopicTemperature, temperature)
		}
	}
}

func (p *SensorPublisher) publish(topic string, v float64) {
	if err := p.b.Publish(topic, bus.EncodeValue(v)); err != nil {
		p.lg.Error("sensor publish failed", "topic", topic, "error", err)
	}
}
