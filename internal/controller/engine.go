package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/bus"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/ledger"
)

// Mode is the hysteresis state. Two distinct thresholds (not one) keep the
// valve from chattering near the boundary: the gap between moisture_low and
// moisture_optimal is the hysteresis band.
type Mode string

const (
	ModeMonitoring Mode = "MONITORING"
	ModeWatering   Mode = "WATERING"
)

// Stats is the /status payload.
type Stats struct {
	Mode            Mode     `json:"mode"`
	ReadingsIn      int64    `json:"readingsIn"`
	Decisions       int64    `json:"decisions"`
	CommandsOut     int64    `json:"commandsOut"`
	Malformed       int64    `json:"malformed"`
	PublishErrors   int64    `json:"publishErrors"`
	LedgerWrites    int64    `json:"ledgerWrites"`
	LastMoisture    *float64 `json:"lastMoisture,omitempty"`
	LastTemperature *float64 `json:"lastTemperature,omitempty"`
	Health          *int     `json:"health,omitempty"`
	WateringHours   *float64 `json:"wateringHours,omitempty"`
}

// Engine subscribes to the sensor topics, runs the hysteresis state machine
// on the most recent readings, and publishes the valve command and derived
// metrics. Decisions are never queued: handlers overwrite the latest slots
// and poke a coalescing notify channel, so if two readings arrive before a
// decision completes only the newest matters.
type Engine struct {
	lg     *slog.Logger
	b      bus.Bus
	store  *ThresholdStore
	topics Topics
	led    *ledger.Writer

	notify chan struct{}

	mu              sync.Mutex
	mode            Mode
	lastMoisture    *float64
	lastTemperature *float64
	stats           Stats
}

// NewEngine wires the decision loop. led may be nil (ledger disabled).
func NewEngine(b bus.Bus, store *ThresholdStore, topics Topics, led *ledger.Writer, lg *slog.Logger) *Engine {
	return &Engine{
		lg:     lg,
		b:      b,
		store:  store,
		topics: topics.withDefaults(),
		led:    led,
		notify: make(chan struct{}, 1),
		mode:   ModeMonitoring,
	}
}

func (t Topics) withDefaults() Topics {
	if t.SoilMoisture == "" {
		t.SoilMoisture = bus.TopicSoilMoisture
	}
	if t.Temperature == "" {
		t.Temperature = bus.TopicTemperature
	}
	if t.FaucetCommand == "" {
		t.FaucetCommand = bus.TopicFaucetCommand
	}
	if t.PlantHealth == "" {
		t.PlantHealth = bus.TopicPlantHealth
	}
	if t.WateringHours == "" {
		t.WateringHours = bus.TopicWateringHours
	}
	if t.CurrentlyWatering == "" {
		t.CurrentlyWatering = bus.TopicCurrentlyWatering
	}
	return t
}

// Start registers the sensor subscriptions.
func (e *Engine) Start() error {
	if err := e.b.Subscribe(e.topics.SoilMoisture, e.onMoisture); err != nil {
		return err
	}
	return e.b.Subscribe(e.topics.Temperature, e.onTemperature)
}

// Run consumes decision wake-ups until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.lg.Info("engine start", "mode", e.mode)
	for {
		select {
		case <-ctx.Done():
			e.lg.Info("engine stop")
			return
		case <-e.notify:
			e.decide(ctx)
		}
	}
}

func (e *Engine) onMoisture(payload []byte) {
	v, err := bus.DecodeValue(payload)
	if err != nil {
		e.discard("moisture", err)
		return
	}
	e.mu.Lock()
	e.lastMoisture = &v
	e.stats.ReadingsIn++
	e.mu.Unlock()
	readingsTotal.WithLabelValues(e.topics.SoilMoisture).Inc()
	moistureGauge.Set(v)
	e.wake()
}

func (e *Engine) onTemperature(payload []byte) {
	v, err := bus.DecodeValue(payload)
	if err != nil {
		e.discard("temperature", err)
		return
	}
	e.mu.Lock()
	e.lastTemperature = &v
	e.stats.ReadingsIn++
	e.mu.Unlock()
	readingsTotal.WithLabelValues(e.topics.Temperature).Inc()
	temperatureGauge.Set(v)
	e.wake()
}

// discard drops a malformed payload; the last-known value stays in force and
// the engine does not transition on it.
func (e *Engine) discard(kind string, err error) {
	e.mu.Lock()
	e.stats.Malformed++
	e.mu.Unlock()
	malformedTotal.Inc()
	e.lg.Error("reading discarded", "kind", kind, "error", err)
}

// wake pokes the decision loop; a pending wake-up already covers this one.
func (e *Engine) wake() {
	select {
	case e.notify <- struct{}{}:
	default:
	}
}

// decide runs one cycle against an immutable thresholds snapshot.
func (e *Engine) decide(ctx context.Context) {
	th := e.store.Get()

	e.mu.Lock()
	mode := e.mode
	m := e.lastMoisture
	t := e.lastTemperature
	e.stats.Decisions++
	e.mu.Unlock()

	if m == nil {
		// No moisture reading yet: stay in MONITORING, emit nothing.
		return
	}
	moisture := *m

	next := mode
	switch mode {
	case ModeMonitoring:
		if moisture <= th.MoistureLow {
			next = ModeWatering
		}
	case ModeWatering:
		if moisture >= th.MoistureOptimal {
			next = ModeMonitoring
		}
	}

	if next != mode {
		mode = e.transition(ctx, mode, next, moisture, t, th)
	}

	if t == nil {
		return
	}
	e.publishMetrics(moisture, *t, mode, th)
}

// transition publishes the valve command and commits the new mode only when
// the publish succeeds; on failure the state is unchanged and the next
// reading naturally retries. The command is emitted on transition only,
// never re-emitted while already in a state.
func (e *Engine) transition(ctx context.Context, from, to Mode, moisture float64, t *float64, th Thresholds) Mode {
	open := to == ModeWatering
	cmd := bus.EncodeCommand(open)
	if err := e.b.Publish(e.topics.FaucetCommand, cmd); err != nil {
		e.mu.Lock()
		e.stats.PublishErrors++
		e.mu.Unlock()
		publishErrorsTotal.Inc()
		e.lg.Error("valve command failed", "from", from, "to", to, "error", err)
		return from
	}
	commandsTotal.WithLabelValues(string(cmd)).Inc()

	e.mu.Lock()
	e.mode = to
	e.stats.CommandsOut++
	e.mu.Unlock()
	e.lg.Info("mode transition", "from", from, "to", to, "moisture", moisture)

	if e.led != nil {
		temperature := 0.0
		health := 0
		hours := 0.0
		if t != nil {
			temperature = *t
			health = HealthScore(moisture, temperature, th)
			hours = WateringHours(moisture, temperature, th)
		}
		ev := ledger.Event{
			From: string(from), To: string(to),
			Moisture: moisture, Temperature: temperature,
			Health: health, WateringHours: hours,
			At: time.Now().UnixMilli(),
		}
		if err := e.led.Append(ctx, ev); err != nil {
			e.lg.Error("ledger append failed", "error", err)
		} else {
			e.mu.Lock()
			e.stats.LedgerWrites++
			e.mu.Unlock()
		}
	}
	return to
}

// publishMetrics derives and publishes the per-cycle metrics once both
// readings have been observed. Failures are logged and skipped; metrics are
// recomputed fresh next cycle.
func (e *Engine) publishMetrics(moisture, temperature float64, mode Mode, th Thresholds) {
	health := HealthScore(moisture, temperature, th)
	hours := WateringHours(moisture, temperature, th)
	watering := 0
	if mode == ModeWatering {
		watering = 1
	}

	e.publish(e.topics.PlantHealth, bus.EncodeIntValue(health))
	e.publish(e.topics.WateringHours, bus.EncodeValue(hours))
	e.publish(e.topics.CurrentlyWatering, bus.EncodeIntValue(watering))

	healthGauge.Set(float64(health))
	wateringHoursGauge.Set(hours)
	wateringGauge.Set(float64(watering))

	e.mu.Lock()
	e.stats.Health = &health
	e.stats.WateringHours = &hours
	e.mu.Unlock()
}

func (e *Engine) publish(topic string, payload []byte) {
	if err := e.b.Publish(topic, payload); err != nil {
		e.mu.Lock()
		e.stats.PublishErrors++
		e.mu.Unlock()
		publishErrorsTotal.Inc()
		e.lg.Error("metric publish failed", "topic", topic, "error", err)
	}
}

// Stats returns a copy of the engine counters for the status endpoint.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	st := e.stats
	st.Mode = e.mode
	st.LastMoisture = e.lastMoisture
	st.LastTemperature = e.lastTemperature
	return st
}
