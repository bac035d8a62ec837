package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-currency-converter/config"
	"go-currency-converter/exchange"
	"go-currency-converter/http"

	nhttp "net/http"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()
	if *showVersion {
		fmt.Printf("currency-converter version=%s\n", version)
		return
	}

	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)

	cfg, err := config.Load(*configPath)
	if err != nil {
		level.Error(logger).Log("msg", "loading config", "err", err)
		os.Exit(1)
	}
	logger = level.NewFilter(logger, level.Allow(level.ParseDefault(cfg.Log.Level, level.InfoValue())))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := exchange.NewStore()

	var exchangeService exchange.Service
	exchangeService = exchange.NewService(store)
	exchangeService = exchange.NewInstrumentingService(exchange.NewMetrics(registry), exchangeService)
	exchangeService = exchange.NewLoggingService(log.With(logger, "component", "exchange"), exchangeService)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if seed := cfg.ConversionRates(); len(seed) > 0 {
		if err := exchangeService.UpdateConfiguration(ctx, seed); err != nil {
			level.Error(logger).Log("msg", "seeding rates", "err", err)
			os.Exit(1)
		}
		level.Info(logger).Log("msg", "seeded rates", "rates", len(seed))
	}

	handler := http.NewServer(exchangeService,
		http.WithLogger(log.With(logger, "component", "http")),
		http.WithMode(cfg.Server.Mode),
		http.WithExcludePaths(cfg.Log.ExcludePaths),
		http.WithRateLimit(http.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, cfg.RateLimit.IdleTTL)),
		http.WithMetrics(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
	)

	server := &nhttp.Server{
		Addr:    cfg.Server.Address,
		Handler: handler,
	}

	errs := make(chan error, 1)
	go func() {
		level.Info(logger).Log("msg", "starting http server", "address", cfg.Server.Address, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		level.Error(logger).Log("msg", "http server failed", "err", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	level.Info(logger).Log("msg", "shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		level.Error(logger).Log("msg", "http server shutdown", "err", err)
		return
	}
	level.Info(logger).Log("msg", "http server stopped")
}
