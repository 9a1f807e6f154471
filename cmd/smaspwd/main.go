// Command smaspwd polls a fleet of SMA devices over Speedwire and exports
// the results as Prometheus metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/sma-speedwire/gospeedwire/internal/client"
	"github.com/sma-speedwire/gospeedwire/internal/config"
	spwmetrics "github.com/sma-speedwire/gospeedwire/internal/metrics"
	"github.com/sma-speedwire/gospeedwire/internal/speedwire"
	"github.com/sma-speedwire/gospeedwire/internal/transport"
	appversion "github.com/sma-speedwire/gospeedwire/internal/version"
)

// shutdownTimeout is the maximum time to wait for the metrics HTTP server
// to drain active connections during graceful shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to configuration file (YAML)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to load configuration",
			slog.String("error", err.Error()),
		)
		return 1
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(config.ParseLogLevel(cfg.Log.Level))
	logger := newLoggerWithLevel(cfg.Log, logLevel)

	logger.Info("smaspwd starting",
		slog.String("version", appversion.Version),
		slog.String("metrics_addr", cfg.Metrics.Addr),
		slog.Int("devices", len(cfg.Devices)),
	)

	reg := prometheus.NewRegistry()
	collector := spwmetrics.NewCollector(reg)

	if err := runServers(cfg, collector, reg, logger); err != nil {
		logger.Error("smaspwd exited with error", slog.String("error", err.Error()))
		return 1
	}

	logger.Info("smaspwd stopped")
	return 0
}

// runServers starts the metrics HTTP server and one poller goroutine per
// configured device, all under a signal-aware errgroup.
func runServers(cfg *config.Config, collector *spwmetrics.Collector, reg *prometheus.Registry, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	metricsSrv := newMetricsServer(cfg.Metrics, reg)
	g.Go(func() error {
		logger.Info("metrics server listening",
			slog.String("addr", cfg.Metrics.Addr),
			slog.String("path", cfg.Metrics.Path),
		)
		return listenAndServe(gCtx, metricsSrv, cfg.Metrics.Addr)
	})

	for _, dc := range cfg.Devices {
		dc := dc
		g.Go(func() error {
			return runDevicePoller(gCtx, dc, collector, logger)
		})
	}

	g.Go(func() error {
		<-gCtx.Done()
		return gracefulShutdown(gCtx, metricsSrv)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("run servers: %w", err)
	}
	return nil
}

// runDevicePoller owns one Speedwire session for the lifetime of the
// daemon, polling GetDayData on unicast devices or listening for broadcasts
// on the multicast group, at dc.PollInterval, until ctx is cancelled.
func runDevicePoller(ctx context.Context, dc config.DeviceConfig, collector *spwmetrics.Collector, logger *slog.Logger) error {
	session, err := openDeviceSession(dc)
	if err != nil {
		return fmt.Errorf("device %q: open session: %w", dc.Name, err)
	}
	defer session.Close()

	spwClient := client.New(session)

	logger.Info("device poller started",
		slog.String("device", dc.Name),
		slog.String("address", dc.Address),
		slog.Bool("multicast", dc.Multicast),
	)

	ticker := time.NewTicker(dc.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			pollOnce(ctx, dc, spwClient, collector, logger)
		}
	}
}

// pollOnce runs a single poll cycle against one device, logging and
// recording metrics for any error without stopping the poller.
func pollOnce(ctx context.Context, dc config.DeviceConfig, spwClient *client.Client, collector *spwmetrics.Collector, logger *slog.Logger) {
	start := time.Now()
	defer func() {
		collector.ObserveRequestDuration(dc.Name, "poll", time.Since(start).Seconds())
	}()

	if dc.Multicast {
		meter := speedwire.Endpoint{SusyID: dc.MeterSusyID, Serial: dc.MeterSerial}
		_, payload, err := spwClient.ReadEM(ctx, meter)
		if err != nil {
			collector.IncDatagramsDropped(dc.Name)
			logger.Warn("energy-meter read failed", slog.String("device", dc.Name), slog.String("error", err.Error()))
			return
		}
		collector.IncDatagramsReceived(dc.Name)
		for _, v := range payload {
			collector.SetObisValue(dc.Name, v.ID, float64(v.Value))
		}
		logger.Debug("energy-meter reading", slog.String("device", dc.Name), slog.Int("obis_count", len(payload)))
		return
	}

	endpoint, err := spwClient.Identify(ctx)
	if err != nil {
		collector.IncDatagramsDropped(dc.Name)
		logger.Warn("identify failed", slog.String("device", dc.Name), slog.String("error", err.Error()))
		return
	}
	collector.IncDatagramsSent(dc.Name)
	collector.IncDatagramsReceived(dc.Name)

	if dc.Password != "" {
		pw, err := speedwire.NewPassword(dc.Password)
		if err != nil {
			logger.Error("invalid password in config", slog.String("device", dc.Name), slog.String("error", err.Error()))
			return
		}
		if err := spwClient.Login(ctx, endpoint, pw); err != nil {
			collector.IncLoginFailures(dc.Name)
			logger.Warn("login failed", slog.String("device", dc.Name), slog.String("error", err.Error()))
			return
		}
		defer func() {
			if err := spwClient.Logout(endpoint); err != nil {
				logger.Warn("logout failed", slog.String("device", dc.Name), slog.String("error", err.Error()))
			}
		}()

		end := time.Now()
		records, err := spwClient.GetDayData(ctx, endpoint, uint32(end.Add(-dc.PollInterval).Unix()), uint32(end.Unix())) //nolint:gosec // bounded by realistic service dates
		if err != nil {
			logger.Warn("get day data failed", slog.String("device", dc.Name), slog.String("error", err.Error()))
			return
		}
		collector.IncFragmentsReassembled(dc.Name, 1)
		logger.Debug("day data polled", slog.String("device", dc.Name), slog.Int("records", len(records)))
	}
}

func openDeviceSession(dc config.DeviceConfig) (*transport.Session, error) {
	if dc.Multicast {
		addr, err := dc.AddressAddr()
		if err != nil {
			return nil, err
		}
		return transport.Multicast(addr)
	}
	return transport.Unicast(dc.Address)
}

// loadConfig loads configuration from a file path or returns defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
		return cfg, nil
	}
	return config.DefaultConfig(), nil
}

// newLoggerWithLevel creates a structured logger using a shared LevelVar
// for dynamic log level changes.
func newLoggerWithLevel(cfg config.LogConfig, level *slog.LevelVar) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch cfg.Format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// newMetricsServer creates an HTTP server for the Prometheus metrics endpoint.
func newMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// listenAndServe creates a TCP listener and serves HTTP requests until the
// server is shut down.
func listenAndServe(ctx context.Context, srv *http.Server, addr string) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve on %s: %w", addr, err)
	}
	return nil
}

// gracefulShutdown shuts the metrics server down within shutdownTimeout.
func gracefulShutdown(ctx context.Context, srv *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown metrics server: %w", err)
	}
	return nil
}
