// Command demo runs a traffic-light table: a timer drives the lights, a
// heartbeat free event counts ticks, and faults are injected and cleared
// with a wildcard and a return-to-previous transition. Metrics are served
// on /metrics when metrics.addr is configured.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/comalice/tablefsm"
	"github.com/comalice/tablefsm/internal/config"
	"github.com/comalice/tablefsm/internal/core"
	"github.com/comalice/tablefsm/internal/extensibility"
	"github.com/comalice/tablefsm/internal/log"
	"github.com/comalice/tablefsm/internal/metrics"
	"github.com/comalice/tablefsm/internal/production"
)

func main() {
	configPath := flag.String("config", "", "path to engine config file (YAML)")
	cycles := flag.Int("cycles", 12, "stop after this many light changes (0 = run until signalled)")
	period := flag.Duration("period", time.Second, "timer period")
	flag.Parse()

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	log.Configure(log.Config{Level: cfg.Log.Level, Service: cfg.Log.Service})
	logger := log.WithComponent("demo")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *cycles, *period, logger); err != nil {
		logger.Error().Err(err).Msg("demo failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.EngineConfig, cycles int, period time.Duration, logger zerolog.Logger) error {
	var beats atomic.Int64
	handlers := demoHandlers(log.WithComponent("lights"), &beats)

	table := builtinTable(handlers)
	if cfg.Table != "" {
		loaded, err := tablefsm.LoadTable(cfg.Table, handlers)
		if err != nil {
			return err
		}
		table = loaded
	}
	for _, dup := range table.Duplicates() {
		logger.Warn().Str("duplicate", dup).Msg("table has shadowed entries")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	mt := metrics.New(reg)

	records := make(chan core.TransitionRecord, 32)
	publisher := production.NewChannelPublisher(records)

	opts := []tablefsm.Option{
		tablefsm.WithLogger(log.WithComponent("dispatch")),
		tablefsm.WithQueueSize(cfg.Mailbox.Capacity),
		tablefsm.WithHistorySize(cfg.HistorySize),
		tablefsm.WithMetrics(mt),
		tablefsm.WithPublisher(publisher),
		tablefsm.WithCallbackRunner(extensibility.NewRecoveringCallbackRunner(
			extensibility.NewLoggingCallbackRunner(&extensibility.DefaultCallbackRunner{}, log.WithComponent("callbacks")),
			log.WithComponent("callbacks"),
		)),
		tablefsm.WithDOT(),
	}
	if cfg.InitialState != 0 {
		opts = append(opts, tablefsm.WithInitialState(tablefsm.StateID(cfg.InitialState)))
	}
	if cfg.RejectOnDiscard {
		opts = append(opts, tablefsm.WithRejectOnDiscard())
	}
	var heartbeat *extensibility.TimerEventSource
	if cfg.Heartbeat.Interval > 0 {
		heartbeat = extensibility.NewTimerEventSource(tablefsm.EventID(cfg.Heartbeat.Trigger), cfg.Heartbeat.Interval)
		defer heartbeat.Stop()
		opts = append(opts, tablefsm.WithEventSource(heartbeat))
	}

	m, err := tablefsm.New(table, opts...)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	data := tablefsm.NewAppData()
	if err := m.Start(gctx, data); err != nil {
		return err
	}
	g.Go(func() error {
		<-gctx.Done()
		err := m.Stop()
		_ = publisher.Close()
		return err
	})

	// timer and fault injection
	g.Go(func() error {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
			}
			evt := evTimer
			switch n % 10 {
			case 7:
				evt = evFault
			case 9:
				evt = evResume
			}
			if err := m.PostEvent(gctx, evt); err != nil && gctx.Err() == nil {
				logger.Warn().Err(err).Uint32("event", uint32(evt)).Msg("post failed")
			}
		}
	})

	// transition consumer
	g.Go(func() error {
		changes := 0
		for rec := range records {
			changes++
			logger.Info().
				Str("transition", rec.Transition).
				Uint32("from", uint32(rec.From)).
				Uint32("to", uint32(rec.To)).
				Int64("heartbeats", beats.Load()).
				Msg("transition published")
			if cycles > 0 && changes == cycles {
				fmt.Println(m.Visualize())
				cancel()
			}
		}
		return nil
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			logger.Info().Str("addr", cfg.Metrics.Addr).Msg("serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	logger.Info().
		Uint64("dispatched", m.Dispatched()).
		Int("history", len(m.History())).
		Uint64("dropped_records", publisher.Dropped()).
		Msg("demo stopped")
	return err
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return mux
}
