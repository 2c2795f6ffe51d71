package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/birdayz/hamming"
	"github.com/birdayz/hamming/internal/metrics"
	"github.com/birdayz/hamming/kconsumer"
	"github.com/birdayz/hamming/kserde"
	"github.com/birdayz/hamming/pkg/log"
	"github.com/birdayz/hamming/pkg/regular"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var errVerification = errors.New("verification failed")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := log.Logr(log.New(level))

	strategy, err := hamming.ParseMergeStrategy(cfg.Merge)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	m := metrics.MustNew(reg)
	if cfg.MetricsAddr != "" {
		srv := serveMetrics(logger, cfg.MetricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	consumers := []kconsumer.Consumer{kconsumer.Writer(out, kserde.Int64TextSerializer)}

	collector := kconsumer.NewCollector()
	if cfg.Verify {
		consumers = append(consumers, collector)
	}

	if len(cfg.KafkaBrokers) > 0 {
		client, err := newKafkaClient(ctx, logger.WithName("kafka"), cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return err
		}
		defer client.Close()
		consumers = append(consumers, kconsumer.Kafka(client, cfg.KafkaTopic, kserde.Int64TextSerializer))
	}

	network := hamming.New(
		hamming.WithLogr(logger.WithName("network")),
		hamming.WithConsumer(kconsumer.Tee(consumers...)),
		hamming.WithMergeStrategy(strategy),
		hamming.WithTeardownTimeout(cfg.Teardown),
		hamming.WithMetrics(m),
	)
	if err := network.Configure(cfg.Count, cfg.Timeout); err != nil {
		return err
	}

	start := time.Now()
	if err := network.Start(ctx); err != nil {
		return err
	}
	logger.Info("Finished", "count", cfg.Count, "observed", network.Count(), "duration", time.Since(start))

	if cfg.Verify {
		return verify(logger, cfg.Count, collector.Values())
	}
	return nil
}

func serveMetrics(log logr.Logger, addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "Metrics server failed", "addr", addr)
		}
	}()
	log.Info("Serving metrics", "addr", addr)
	return srv
}

// verify compares what was emitted against the sequential reference.
func verify(log logr.Logger, count int, got []int64) error {
	want := regular.First(len(got))
	if !slices.Equal(want, got) {
		return fmt.Errorf("%w: emitted values differ from the reference sequence", errVerification)
	}
	if len(got) < count {
		log.Info("Verified partial output, time budget ran out", "emitted", len(got), "count", count)
		return nil
	}
	log.Info("Verified output", "emitted", len(got))
	return nil
}
