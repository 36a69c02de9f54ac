// Package bus is the message transport boundary between the simulator and
// the controller. Delivery is at-most-once: a message may be lost but is
// never duplicated, and per-topic ordering from a single publisher holds.
package bus

// Bus is what both processes program against; the MQTT adapter is the only
// production implementation, tests use in-memory fakes.
type Bus interface {
	Publish(topic string, payload []byte) error
	Subscribe(topic string, handler func(payload []byte)) error
	Close()
}

// Topic names shared with the dashboard and any other subscriber.
// These are an interop contract; do not rename.
const (
	TopicSoilMoisture      = "sensors/soil_moisture"
	TopicTemperature       = "sensors/temperature"
	TopicFaucetCommand     = "faucet/command"
	TopicPlantHealth       = "plant/health"
	TopicWateringHours     = "plant/watering_hours"
	TopicCurrentlyWatering = "plant/currently_watering"
)
