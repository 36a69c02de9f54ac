package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/bus"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/logging"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/plant"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/sim"
)

func main() {
	lg, lf := logging.InitLogger("simulator")
	defer func() {
		if lf != os.Stdout {
			_ = lf.Close()
		}
	}()
	lg.Info("plant simulator starting")

	cfg := sim.FromEnv()
	lg.Info("config loaded", "broker", cfg.BrokerAddr, "step", cfg.Plant.Step.String(), "flow_lps", cfg.Plant.FlowRate)

	b, err := bus.NewMQTTBus(cfg.BrokerAddr, cfg.ClientID, lg)
	if err != nil {
		lg.Error("mqtt", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	model := plant.NewModel(cfg.Plant, lg)

	actuator := sim.NewValveActuator(b, model, lg)
	if err := actuator.Start(); err != nil {
		lg.Error("actuator subscribe", "error", err)
		os.Exit(1)
	}

	srv := sim.NewStatusServer(cfg.HTTPBind, model, lg)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			lg.Error("http", "error", err)
		}
	}()

	publisher := sim.NewSensorPublisher(b, model, cfg.Plant.Step, lg)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go publisher.Run(ctx)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
	sh, c := context.WithTimeout(context.Background(), 5*time.Second)
	defer c()
	_ = srv.Stop(sh)
	lg.Info("plant simulator stopped")
}
