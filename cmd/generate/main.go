// Package main provides the candidate generation entry point.
// Flow: config → history → search → selection → report
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"lotto-cover-lab/internal/config"
	"lotto-cover-lab/internal/domain"
	"lotto-cover-lab/internal/engine"
	"lotto-cover-lab/internal/generator"
	"lotto-cover-lab/internal/observability"
	"lotto-cover-lab/internal/reporting"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file (yaml, json or toml)")
	envFile := flag.String("env-file", ".env", "Path to .env file (ignored if missing)")
	postgresDSN := flag.String("postgres-dsn", "", "PostgreSQL connection string (overrides config)")
	clickhouseDSN := flag.String("clickhouse-dsn", "", "ClickHouse connection string (overrides config)")
	drawsFile := flag.String("draws", "", "CSV file of historical draws for in-memory runs")
	mode := flag.String("mode", "", "Search mode: auto, exhaustive or random (overrides config)")
	seed := flag.Uint64("seed", 0, "Random seed (overrides config)")
	selectN := flag.Int("select", 0, "Number of candidates to select (overrides config)")
	persist := flag.Bool("persist", false, "Persist the run and its candidates")
	reportRun := flag.String("report-run", "", "Render the report of a stored run instead of generating")
	output := flag.String("output", "", "Write the markdown report to this file instead of stdout")
	metricsFile := flag.String("metrics-file", "", "Write Prometheus metrics in text format to this file")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	logger := log.New(os.Stderr, "[generate] ", log.LstdFlags)

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Fatalf("load env file %s: %v", *envFile, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	// Flags override config
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "postgres-dsn":
			cfg.Storage.PostgresDSN = *postgresDSN
		case "clickhouse-dsn":
			cfg.Storage.ClickhouseDSN = *clickhouseDSN
		case "mode":
			cfg.Search.Mode = *mode
		case "seed":
			cfg.Search.Seed = *seed
		case "select":
			cfg.Search.Select = *selectN
		case "persist":
			cfg.Search.Persist = *persist
		}
	})

	req, err := cfg.ToRequest()
	if err != nil {
		logger.Fatalf("build request: %v", err)
	}
	if err := req.Validate(); err != nil {
		logger.Fatalf("invalid configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.Storage, *drawsFile, req.Universe)
	if err != nil {
		logger.Fatalf("open stores: %v", err)
	}
	defer st.Close()

	reports := reporting.NewGenerator(st.runs, st.candidates, st.ranks)

	var report *reporting.Report
	if *reportRun != "" {
		report, err = reports.Generate(ctx, *reportRun, req.Universe)
		if err != nil {
			logger.Fatalf("report run %s: %v", *reportRun, err)
		}
	} else {
		reg := prometheus.NewRegistry()
		runner := engine.NewRunner(engine.Options{
			DrawStore:        st.draws,
			RankProfileStore: st.ranks,
			RunStore:         st.runs,
			CandidateStore:   st.candidates,
			Metrics:          observability.NewMetrics(observability.DefaultNamespace, reg),
			Verbose:          *verbose,
		})

		logger.Printf("run: %s mode=%s target=%d select=%d backend=%s",
			describe(req), req.Mode, req.Target, req.Select, st.backend)

		res, err := runner.Run(ctx, req)
		if res == nil {
			var cfgErr *domain.ConfigError
			if errors.As(err, &cfgErr) {
				logger.Fatalf("invalid configuration: %v", err)
			}
			logger.Fatalf("run failed: %v", err)
		}
		if err != nil {
			logger.Printf("warning: %v", err)
		}
		logDiagnostics(logger, res.Diagnostics)

		report = reports.FromResult(res, req.Universe)

		if *metricsFile != "" {
			if err := prometheus.WriteToTextfile(*metricsFile, reg); err != nil {
				logger.Printf("warning: write metrics: %v", err)
			}
		}
	}

	md := reporting.RenderMarkdown(report)
	if *output == "" {
		fmt.Print(md)
		return
	}
	if err := os.WriteFile(*output, []byte(md), 0644); err != nil {
		logger.Fatalf("write report: %v", err)
	}
	logger.Printf("report written to %s", *output)
}

func describe(req engine.Request) string {
	return fmt.Sprintf("%d/%d (space=%d)", req.Universe.K, req.Universe.N, generator.SearchSpace(req.Universe))
}

func logDiagnostics(logger *log.Logger, d engine.Diagnostics) {
	logger.Printf("run %s: mode=%s accepted=%d attempts=%d selected=%d duration=%s",
		d.RunID, d.Mode, d.Accepted, d.Attempts, d.Selected, d.Duration)
	if d.Shortfall != nil {
		logger.Printf("shortfall: accepted %d of %d after %d attempts",
			d.Shortfall.Accepted, d.Shortfall.Target, d.Shortfall.Attempts)
	}
	if d.Cancelled {
		logger.Printf("search cancelled; results are partial")
	}
	if d.HistoryUnavailable {
		logger.Printf("history unavailable: %v", d.HistoryErr)
	}
	if d.RankProfileDefaulted {
		logger.Printf("default rank profile used: %v", d.RankErr)
	}
}
