package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"storefront/handlers"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/consul"
	"storefront/internal/events"
	"storefront/internal/persist"
	"storefront/internal/realtime"
	"storefront/internal/shop"
	"storefront/internal/stores"
	"storefront/internal/stores/kafka"
	"storefront/pkg/logkey"
)

const (
	sweepInterval   = time.Minute
	shutdownTimeout = 10 * time.Second
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := startApp(); err != nil {
		slog.Error("storefront stopped", slog.String(logkey.ERROR, err.Error()))
		os.Exit(1)
	}
}

func startApp() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// storage
	repo, closeRepo, err := stores.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()
	slog.Info("store opened", slog.String(logkey.Backend, repo.Name()))
	writer := persist.NewWriter(repo, cfg.PersistTimeout)

	// events
	hub := realtime.NewHub()
	sinks := []events.Sink{hub}
	var producer *kafka.Conf
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = kafka.NewConf(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			slog.Error("kafka unavailable, events stay local", slog.String(logkey.ERROR, err.Error()))
		} else {
			sinks = append(sinks, kafka.NewPublisher(producer, cfg.KafkaTopic))
		}
	}
	bus := events.NewBus(cfg.EventBuffer, sinks...)

	e := shop.Open(ctx, repo,
		shop.WithCooldown(cfg.OrderCooldown),
		shop.WithSaver(writer),
		shop.WithNotifier(bus),
	)
	// Write the loaded (or default) state back so a fresh store is seeded.
	items, all := e.Snapshot()
	writer.SaveItems(items)
	writer.SaveOrders(all)

	var keys *auth.Keys
	if cfg.AdminEnabled() {
		keys, err = auth.NewKeys(cfg.AdminSecret)
		if err != nil {
			return err
		}
	} else {
		slog.Warn("ADMIN_SECRET not set, admin endpoints are open")
	}

	// background workers
	workers, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	var wg sync.WaitGroup
	wg.Add(3)
	go func() { defer wg.Done(); hub.Run(workers) }()
	go func() { defer wg.Done(); writer.Run(workers, cfg.AutosaveInterval, e.Snapshot) }()
	go func() { defer wg.Done(); sweep(workers, e) }()

	busDone := make(chan struct{})
	go func() { defer close(busDone); bus.Run(workers) }()

	// http server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handlers.API(cfg, keys, e, hub),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("main: API listening", slog.String("Addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	if cfg.ConsulAddr != "" {
		deregister := registerWithConsul(cfg)
		defer deregister()
	}

	var runErr error
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = err
		}
	case <-ctx.Done():
		slog.Info("main: start shutdown")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", slog.String(logkey.ERROR, err.Error()))
		_ = srv.Close()
	}

	// Deliver queued events while the hub is still up, then stop the rest.
	bus.Close()
	<-busDone
	cancelWorkers()
	wg.Wait()

	items, all = e.Snapshot()
	if err := writer.Flush(shutdownCtx, items, all); err != nil {
		slog.Error("final save failed", slog.String(logkey.ERROR, err.Error()))
	}
	if producer != nil {
		producer.Close(shutdownCtx)
	}
	slog.Info("main: shutdown complete", slog.Uint64("Dropped Events", bus.Dropped()))
	return runErr
}

func sweep(ctx context.Context, e *shop.Engine) {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			e.SweepCooldowns()
		case <-ctx.Done():
			return
		}
	}
}

// registerWithConsul is best effort; the returned func deregisters.
func registerWithConsul(cfg config.Config) func() {
	client, err := consul.NewClient(cfg.ConsulAddr)
	if err != nil {
		slog.Error("consul client", slog.String(logkey.ERROR, err.Error()))
		return func() {}
	}
	id, err := consul.RegisterService(client, consul.Registration{
		Name:       cfg.ServiceName,
		Host:       cfg.ServiceHost,
		Port:       cfg.Port,
		HealthPath: "/ping",
	})
	if err != nil {
		slog.Error("consul registration", slog.String(logkey.ERROR, err.Error()))
		return func() {}
	}
	slog.Info("registered with consul", slog.String("Service ID", id))
	return func() {
		if err := consul.Deregister(client, id); err != nil {
			slog.Error("consul deregistration", slog.String(logkey.ERROR, err.Error()))
		}
	}
}
