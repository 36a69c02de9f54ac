package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/bus"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/controller"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/ledger"
	"github.com/dalexaki/Showcase-IOT-grow-a-plant/internal/logging"
)

func main() {
	lg, lf := logging.InitLogger("controller")
	defer func() {
		if lf != os.Stdout {
			_ = lf.Close()
		}
	}()
	lg.Info("plant controller starting")

	cfg, err := controller.Load()
	if err != nil {
		lg.Error("config", "error", err)
		os.Exit(1)
	}
	lg.Info("config loaded", "broker", cfg.BrokerAddr, "thresholds", cfg.Thresholds)

	store, err := controller.NewThresholdStore(cfg.Thresholds)
	if err != nil {
		lg.Error("thresholds", "error", err)
		os.Exit(1)
	}

	b, err := bus.NewMQTTBus(cfg.BrokerAddr, cfg.ClientID, lg)
	if err != nil {
		lg.Error("mqtt", "error", err)
		os.Exit(1)
	}
	defer b.Close()

	led := ledger.New(cfg.LedgerBrokers, cfg.LedgerTopic, lg)
	defer led.Close()

	eng := controller.NewEngine(b, store, cfg.Topics, led, lg)
	if err := eng.Start(); err != nil {
		lg.Error("subscribe", "error", err)
		os.Exit(1)
	}

	srv := controller.NewHTTPServer(cfg.HTTPBind, store, eng, cfg.ReloadThresholds, lg)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			lg.Error("http", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	cancel()
	sh, c := context.WithTimeout(context.Background(), 5*time.Second)
	defer c()
	_ = srv.Stop(sh)
	lg.Info("plant controller stopped")
}
