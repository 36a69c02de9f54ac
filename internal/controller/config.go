// Package controller runs the watering decision loop: a two-state hysteresis
// machine over the latest soil readings, plus the derived health and
// watering-hours metrics.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Threshold validation failures. Fatal at load time; the engine never runs
// on a config that would make the hysteresis band empty.
var (
	ErrThresholdOrder = errors.New("moisture_low must be below moisture_optimal")
	ErrTempBand       = errors.New("temp_low must be below temp_high")
)

// Thresholds is the controller's decision configuration. Values are read as
// an immutable snapshot per decision cycle; swaps happen between cycles.
type Thresholds struct {
	MoistureLow     float64 `json:"moisture_low"`
	MoistureOptimal float64 `json:"moisture_optimal"`
	TempLow         float64 `json:"temp_low"`
	TempHigh        float64 `json:"temp_high"`
}

// Validate rejects configurations that would make the controller mis-operate.
func (t Thresholds) Validate() error {
	if t.MoistureLow >= t.MoistureOptimal {
		return fmt.Errorf("%w: low=%.1f optimal=%.1f", ErrThresholdOrder, t.MoistureLow, t.MoistureOptimal)
	}
	if t.TempLow >= t.TempHigh {
		return fmt.Errorf("%w: low=%.1f high=%.1f", ErrTempBand, t.TempLow, t.TempHigh)
	}
	return nil
}

// Topics are the bus topics the engine talks on. Empty fields take the
// canonical names from the bus package.
type Topics struct {
	SoilMoisture      string `json:"soil_moisture"`
	Temperature       string `json:"temperature"`
	FaucetCommand     string `json:"faucet_command"`
	PlantHealth       string `json:"plant_health"`
	WateringHours     string `json:"watering_hours"`
	CurrentlyWatering string `json:"currently_watering"`
}

// fileConfig is the on-disk JSON shape (plant_config.json).
type fileConfig struct {
	Broker struct {
		Host string `json:"host"`
		Port int    `json:"port"`
	} `json:"broker"`
	Thresholds Thresholds `json:"thresholds"`
	Topics     Topics     `json:"topics"`
}

// AppConfig is the resolved controller configuration.
type AppConfig struct {
	HTTPBind      string
	BrokerAddr    string
	ClientID      string
	ConfigPath    string
	LedgerBrokers []string
	LedgerTopic   string
	Thresholds    Thresholds
	Topics        Topics
}

// Load reads the config file and applies env overrides. A missing file or an
// invalid threshold set is a fatal configuration error.
func Load() (*AppConfig, error) {
	c := &AppConfig{
		HTTPBind:      getenv("HTTP_BIND", ":8080"),
		ClientID:      getenv("MQTT_CLIENT_ID", "plant-controller"),
		ConfigPath:    getenv("CONFIG_PATH", "./plant_config.json"),
		LedgerBrokers: split(getenv("LEDGER_BROKERS", ""), ","),
		LedgerTopic:   getenv("LEDGER_TOPIC", "plant.decision.ledger"),
	}
	fc, err := readFile(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	c.Thresholds = fc.Thresholds
	c.Topics = fc.Topics
	c.BrokerAddr = getenv("MQTT_BROKER", brokerAddr(fc))
	if err := c.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", c.ConfigPath, err)
	}
	return c, nil
}

// ReloadThresholds re-reads the config file and returns the validated
// thresholds. Used by the HTTP reload endpoint; the caller swaps the store
// only on success.
func (c *AppConfig) ReloadThresholds() (Thresholds, error) {
	fc, err := readFile(c.ConfigPath)
	if err != nil {
		return Thresholds{}, err
	}
	if err := fc.Thresholds.Validate(); err != nil {
		return Thresholds{}, fmt.Errorf("config %s: %w", c.ConfigPath, err)
	}
	return fc.Thresholds, nil
}

func readFile(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var fc fileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &fc, nil
}

func brokerAddr(fc *fileConfig) string {
	host := fc.Broker.Host
	if host == "" {
		host = "localhost"
	}
	port := fc.Broker.Port
	if port == 0 {
		port = 1883
	}
	return "tcp://" + host + ":" + strconv.Itoa(port)
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func split(s, sep string) []string {
	if s == "" {
		return nil
	}
	p := strings.Split(s, sep)
	out := make([]string, 0, len(p))
	for _, x := range p {
		x = strings.TrimSpace(x)
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}
