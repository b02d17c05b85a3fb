package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"codeberg.org/mutker/thermalogd/internal/config"
	"codeberg.org/mutker/thermalogd/internal/datalog"
	"codeberg.org/mutker/thermalogd/internal/logger"
	"codeberg.org/mutker/thermalogd/internal/pid"
	"codeberg.org/mutker/thermalogd/internal/telemetry"
	"codeberg.org/mutker/thermalogd/internal/thermal"

	"github.com/rs/zerolog"
)

const (
	bannerWidth = 30
	timeFormat  = "2006-01-02 15:04:05.000000"
)

var (
	cfg    *config.Config
	log    zerolog.Logger
	sensor thermal.Sensor
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log = logger.New(os.Stderr, logger.IsService())
	log.Debug().Msg("Config loaded")

	sensor = thermal.NewSysfsSensor(cfg.ZonePath)
}

func main() {
	if err := pid.Write(cfg.DataDir); err != nil {
		log.Fatal().Err(err).Msg("another collector already owns the data directory")
	}
	defer pid.Remove(cfg.DataDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	dataLogger, err := datalog.New(datalog.Config{
		Dir:              cfg.DataDir,
		MaxFileSizeBytes: cfg.MaxFileSize,
		MaxFileCount:     cfg.MaxFileCount,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize data logger")
	}
	defer dataLogger.Close()

	dataLogger.SetLevel(severityFromLogLevel(cfg.LogLevel))

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Enabled = cfg.Telemetry
	if cfg.Database != "" {
		telemetryCfg.DBPath = cfg.Database
	}
	collector, err := telemetry.NewService(telemetryCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer collector.Close()

	dataLogger.Start()
	writeBanner(dataLogger, "=", "-")

	if err := collect(ctx, dataLogger, collector); err != nil {
		dataLogger.Write(datalog.Record{
			Text:     fmt.Sprintf("Encountered unknown exception: %v", err),
			Severity: datalog.SeverityError,
		})
	}

	writeBanner(dataLogger, "-", "=")
	dataLogger.End()
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info().Msg("Received termination signal.")
	cancel()
}

// collect executes repeated thermal readings with delays. A failed sensor
// read is classified and recorded, never propagated as a crash.
func collect(ctx context.Context, dataLogger *datalog.Logger, collector telemetry.Collector) error {
	for attempt := 0; attempt < cfg.Attempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		reading, err := sensor.Read()
		if err != nil {
			dataLogger.Write(datalog.Record{
				Text:     "Cannot find thermal data.",
				Severity: datalog.SeverityError,
			})
			return nil
		}

		dataLogger.Write(datalog.Record{
			Text:     "\n" + reading.CelsiusString() + "\n" + reading.FahrenheitString(),
			Severity: datalog.SeverityInfo,
		})

		sample := telemetry.Sample{
			Timestamp: time.Now(),
			Reading:   reading,
			Source:    sensor.Source(),
		}
		if err := collector.Record(ctx, &sample); err != nil {
			log.Warn().Err(err).Msg("failed to record telemetry sample")
		}

		if !countdown(ctx, cfg.DelaySec) {
			return nil
		}
	}

	return nil
}

// countdown displays the remaining sleep seconds on one console line.
// Returns false if the context was canceled mid-sleep.
func countdown(ctx context.Context, seconds int) bool {
	for i := seconds; i > 0; i-- {
		fmt.Printf("\rSleeping for %d seconds...", i)
		select {
		case <-ctx.Done():
			fmt.Println()
			return false
		case <-time.After(time.Second):
		}
	}
	fmt.Print("\r")

	return true
}

func writeBanner(dataLogger *datalog.Logger, outer, inner string) {
	dataLogger.Write(datalog.Record{Text: "", Severity: datalog.SeverityInfo})
	dataLogger.Write(datalog.Record{Text: strings.Repeat(outer, bannerWidth), Severity: datalog.SeverityInfo})
	dataLogger.Write(datalog.Record{Text: time.Now().Format(timeFormat), Severity: datalog.SeverityInfo})
	dataLogger.Write(datalog.Record{Text: strings.Repeat(inner, bannerWidth), Severity: datalog.SeverityInfo})
}

func severityFromLogLevel(level string) datalog.Severity {
	switch level {
	case "warning":
		return datalog.SeverityWarning
	case "error":
		return datalog.SeverityError
	default:
		return datalog.SeverityInfo
	}
}
