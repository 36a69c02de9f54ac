// Package sim wires the plant model to the message bus: a sensor publisher
// that ticks the model and emits readings, and a valve actuator that applies
// faucet commands. No decision logic lives here.
package sim

import (
	"os"
	"strconv"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/plant"
)

// Config is the simulator process configuration, env vars with defaults.
type Config struct {
	BrokerAddr string
	ClientID   string
	HTTPBind   string
	Plant      plant.Config
}

// FromEnv reads the simulator configuration.
func FromEnv() Config {
	return Config{
		BrokerAddr: getenv("MQTT_BROKER", "tcp://localhost:1883"),
		ClientID:   getenv("MQTT_CLIENT_ID", "plant-simulator"),
		HTTPBind:   getenv("HTTP_BIND", ":8081"),
		Plant: plant.Config{
			InitialMoisture: getf("INITIAL_MOISTURE", 70.0),
			BaseTemperature: getf("BASE_TEMPERATURE", 22.0),
			FlowRate:        getf("FLOW_RATE_LPS", 0.5),
			Step:            getd("TICK_INTERVAL", 2*time.Second),
		},
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getf(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return d
}

func getd(k string, d time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if dd, err := time.ParseDuration(v); err == nil {
			return dd
		}
	}
	return d
}
