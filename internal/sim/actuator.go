package sim

import (
	"log/slog"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/bus"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/plant"
)

// ValveActuator applies faucet commands from the bus to the plant model.
type ValveActuator struct {
	lg    *slog.Logger
	b     bus.Bus
	model *plant.Model
}

func NewValveActuator(b bus.Bus, model *plant.Model, lg *slog.Logger) *ValveActuator {
	return &ValveActuator{lg: lg, b: b, model: model}
}

// Start subscribes to the faucet command topic.
func (a *ValveActuator) Start() error {
	return a.b.Subscribe(bus.TopicFaucetCommand, a.handle)
}

func (a *ValveActuator) handle(payload []byte) {
	open, err := bus.DecodeCommand(payload)
	if err != nil {
		// Malformed command: drop it, keep the current valve state.
		a.lg.Error("faucet command discarded", "error", err)
		return
	}
	a.model.SetValve(open, time.Now())
	a.lg.Info("faucet command applied", "open", open)
}
