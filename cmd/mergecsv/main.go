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
	"surveycli/internal/merge"
)

func main() {
	job := flag.String("job", "", "merge job YAML file (required)")
	dir := flag.String("dir", "", "directory containing release CSVs (defaults to data relative to executable)")
	release := flag.String("release", "", "release date YYYY-MM-DD (defaults to the job file, then the newest release in -dir)")
	out := flag.String("out", "", "output CSV path (defaults to the job file, then reports/merged_<release>.csv)")
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

	setupLogger(*configPath, *verbose, paths.GetLogPath("mergecsv.log"))
	ctx := infrastructure.EnsureRunID(context.Background())
	logger := infrastructure.LoggerWithContext(ctx)

	if *job == "" {
		logger.Error("Missing required -job flag")
		flag.Usage()
		os.Exit(1)
	}

	mj, err := config.LoadMergeJob(*job)
	if err != nil {
		logger.Error("Failed to load merge job",
			slog.String("path", *job),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	rel := *release
	if rel == "" {
		rel = mj.Release
	}
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
		outPath = mj.Output
	}
	if outPath == "" {
		outPath = paths.GetReportPath(fmt.Sprintf("merged_%s.csv", rel))
	}

	logger.Info("Starting merge",
		slog.String("job", *job),
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

	opts := merge.Options{
		Selection: merge.Selection{
			Daily:        mj.Columns.Daily,
			Demographics: mj.Columns.Demographics,
			Assessment:   mj.Columns.Assessment,
		},
		Bins: jobBins(mj.Bins),
	}

	merged, err := merge.New(logger).MergeToCSV(ctx, tables, opts, outPath)
	if err != nil {
		logger.Error("Merge failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Merge completed",
		slog.Int("rows", merged.Nrow()),
		slog.Int("columns", merged.Ncol()),
		slog.String("output", outPath))
	fmt.Printf("Merged table written: %s (%d rows)\n", outPath, merged.Nrow())
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

// jobBins converts validated job bins into merge options
func jobBins(bins []config.JobBin) []merge.TimeBin {
	out := make([]merge.TimeBin, 0, len(bins))
	for _, b := range bins {
		out = append(out, merge.TimeBin{Name: b.Name, Start: b.Start, End: b.End})
	}
	return out
}
