package controller

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_controller_readings_total",
			Help: "Sensor readings received, by topic",
		},
		[]string{"topic"},
	)

	malformedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plant_controller_malformed_payloads_total",
			Help: "Payloads discarded because they failed to parse",
		},
	)

	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plant_controller_valve_commands_total",
			Help: "Valve commands published, by command",
		},
		[]string{"command"},
	)

	publishErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plant_controller_publish_errors_total",
			Help: "Bus publish failures; the cycle is skipped and the next reading retries",
		},
	)

	moistureGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plant_controller_soil_moisture_percent",
			Help: "Last observed soil moisture",
		},
	)

	temperatureGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plant_controller_temperature_celsius",
			Help: "Last observed temperature",
		},
	)

	healthGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plant_controller_health_score",
			Help: "Derived plant health score, 0-100",
		},
	)

	wateringHoursGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plant_controller_watering_hours",
			Help: "Estimated hours until watering is needed, 0-24",
		},
	)

	wateringGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plant_controller_currently_watering",
			Help: "1 while the engine is in WATERING mode",
		},
	)
)
