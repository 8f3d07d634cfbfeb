package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"surveycli/internal/config"
	"surveycli/internal/dataset"
	"surveycli/internal/files"
	"surveycli/internal/infrastructure"
	"surveycli/internal/qc"
)

func main() {
	dir := flag.String("dir", "", "directory containing release CSVs (defaults to data relative to executable)")
	release := flag.String("release", "", "release date YYYY-MM-DD (defaults to the newest release in -dir)")
	out := flag.String("out", "", "findings CSV path (defaults to reports/qc_findings_<release>.csv)")
	configPath := flag.String("config", "", "application config YAML file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if *dir == "" {
		*dir = paths.DataDir
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	setupLogger(*configPath, *verbose, paths.GetLogPath("qcreport.log"))
	ctx := infrastructure.EnsureRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	rel := *release
	if rel == "" {
		rel, err = files.NewDiscovery(*dir).LatestRelease()
		if err != nil {
			logger.Error("No complete release found",
				slog.String("dir", *dir),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Using newest release", slog.String("release", rel))
	}

	outPath := *out
	if outPath == "" {
		outPath = paths.GetReportPath(fmt.Sprintf("qc_findings_%s.csv", rel))
	}

	logger.Info("Starting QC run",
		slog.String("release", rel),
		slog.String("data_dir", *dir),
		slog.String("output", outPath))

	tables, err := dataset.NewLoader(*dir, logger).Load(ctx, rel)
	if err != nil {
		logger.Error("Failed to load release",
			slog.String("release", rel),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	report := qc.Run(*tables, logger)

	counts := report.TableCounts()
	for _, table := range []string{"daily", "demographics", "assessment"} {
		logger.Info("QC table summary",
			slog.String("table", table),
			slog.Int("findings", counts[table]))
	}

	if err := report.WriteCSV(outPath); err != nil {
		logger.Error("Failed to write findings",
			slog.String("output", outPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("QC run completed",
		slog.Int("findings", len(report.Findings)),
		slog.String("output", outPath))
	if len(report.Findings) == 0 {
		fmt.Printf("QC passed, findings written: %s\n", outPath)
	} else {
		fmt.Printf("QC found %d issue(s), findings written: %s\n", len(report.Findings), outPath)
	}
}

// setupLogger loads the application config and installs the global logger.
// An explicit -config that fails to load is fatal; an unusable implicit
// config falls back to defaults.
func setupLogger(configPath string, verbose bool, logFile string) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFromFile(configPath)
		if err != nil {
			slog.Error("Failed to load config file",
				"path", configPath, "error", err)
			os.Exit(1)
		}
	} else {
		cfg, err = config.Load()
		if err != nil {
			slog.Warn("Failed to load config, using defaults", "error", err)
			cfg = config.Default()
		}
	}

	// per-command log file unless the config names one
	if cfg.Logging.FilePath == config.Default().Logging.FilePath {
		cfg.Logging.FilePath = logFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
}
