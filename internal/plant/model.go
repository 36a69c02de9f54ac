// Package plant holds the simulated plant dynamics: how soil moisture and
// temperature evolve tick to tick, with and without watering.
package plant

import (
	"log/slog"
	"math/rand"
	"sync"
	"time"
)

const (
	// MoistureFloor and MoistureCap bound the moisture percentage.
	MoistureFloor = 10.0
	MoistureCap   = 100.0

	// BaseLossPerHour is the evaporation + consumption rate in percent per
	// hour at the reference temperature.
	BaseLossPerHour = 35.0

	// MoistureGainPerLiter converts delivered water volume to a moisture
	// percentage gain. Empirical calibration: 0.5 L/s over a 2 s tick yields
	// +5 points. There is no stated soil-volume basis, so this stays a
	// tunable rather than a derived constant.
	MoistureGainPerLiter = 5.0

	// ReferenceTempC and TempFactorSlope shape the drying-rate temperature
	// factor: 1 + (t-22)*0.05, hotter dries faster.
	ReferenceTempC  = 22.0
	TempFactorSlope = 0.05

	// Temperature noise bounds per tick, degrees around the base.
	tempJitterLo = -2.0
	tempJitterHi = 3.0
)

// Config are the initial conditions of a simulated plant.
type Config struct {
	InitialMoisture float64       // percent
	BaseTemperature float64       // Celsius
	FlowRate        float64       // liters per second while the valve is open
	Step            time.Duration // nominal tick interval
}

// DefaultConfig matches the reference deployment.
func DefaultConfig() Config {
	return Config{
		InitialMoisture: 70.0,
		BaseTemperature: 22.0,
		FlowRate:        0.5,
		Step:            2 * time.Second,
	}
}

// Snapshot is a consistent copy of the plant state for status reporting.
type Snapshot struct {
	Moisture          float64   `json:"moisture"`
	BaseTemperature   float64   `json:"base_temperature"`
	ValveOpen         bool      `json:"valve_open"`
	WateringStartedAt time.Time `json:"watering_started_at"`
	FlowRate          float64   `json:"flow_rate"`
}

// Model owns the plant state. All mutation goes through Tick and SetValve,
// both of which lock, so the sensor ticker and the valve command handler can
// run on different goroutines without interleaving updates.
type Model struct {
	lg  *slog.Logger
	cfg Config

	mu                sync.Mutex
	moisture          float64
	valveOpen         bool
	wateringStartedAt time.Time
	lastTick          time.Time

	uniform func(lo, hi float64) float64
}

// NewModel builds a plant in its initial state. Zero-valued config fields
// take the defaults.
func NewModel(cfg Config, lg *slog.Logger) *Model {
	def := DefaultConfig()
	if cfg.InitialMoisture == 0 {
		cfg.InitialMoisture = def.InitialMoisture
	}
	if cfg.BaseTemperature == 0 {
		cfg.BaseTemperature = def.BaseTemperature
	}
	if cfg.FlowRate == 0 {
		cfg.FlowRate = def.FlowRate
	}
	if cfg.Step == 0 {
		cfg.Step = def.Step
	}
	return &Model{
		lg:       lg,
		cfg:      cfg,
		moisture: clampMoisture(cfg.InitialMoisture),
		uniform: func(lo, hi float64) float64 {
			return lo + rand.Float64()*(hi-lo)
		},
	}
}

// Tick advances the plant by the wall-clock time elapsed since the previous
// tick (nominal step on the first call) and returns the resulting moisture
// and the temperature drawn for this tick.
func (m *Model) Tick(now time.Time) (moisture, temperature float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dt := now.Sub(m.lastTick)
	if m.lastTick.IsZero() {
		dt = m.cfg.Step
	}
	m.lastTick = now

	// Independent draw per tick, no persisted drift.
	temperature = m.cfg.BaseTemperature + m.uniform(tempJitterLo, tempJitterHi)

	if m.valveOpen {
		gain := m.cfg.FlowRate * dt.Seconds() * MoistureGainPerLiter
		m.moisture = clampMoisture(m.moisture + gain)
	} else {
		factor := 1.0 + (temperature-ReferenceTempC)*TempFactorSlope
		loss := BaseLossPerHour * factor * dt.Hours()
		m.moisture = clampMoisture(m.moisture - loss)
	}
	return m.moisture, temperature
}

// SetValve switches the watering mode. The watering clock resets only on the
// closed-to-open transition; reopening an already open valve is a no-op and
// closing leaves the timestamp as the decay reference point.
func (m *Model) SetValve(open bool, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if open && !m.valveOpen {
		m.wateringStartedAt = now
	}
	m.valveOpen = open
	m.lg.Info("valve set", "open", open)
}

// Snapshot returns a copy of the current state.
func (m *Model) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Moisture:          m.moisture,
		BaseTemperature:   m.cfg.BaseTemperature,
		ValveOpen:         m.valveOpen,
		WateringStartedAt: m.wateringStartedAt,
		FlowRate:          m.cfg.FlowRate,
	}
}

func clampMoisture(v float64) float64 {
	if v < MoistureFloor {
		return MoistureFloor
	}
	if v > MoistureCap {
		return MoistureCap
	}
	return v
}
