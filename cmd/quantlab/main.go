package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"QuantMarketLab/internal/analyzer"
	"QuantMarketLab/internal/collector"
	"QuantMarketLab/internal/config"
	"QuantMarketLab/internal/dashboard"
	"QuantMarketLab/internal/model"
	"QuantMarketLab/internal/pipeline"
	"QuantMarketLab/internal/recorder"
	"QuantMarketLab/internal/scheduler"
	"QuantMarketLab/internal/store"
)

const usage = `Usage: quantlab <command> [flags]

Commands:
  fetch    update the raw data files from Alpha Vantage
  clean    regenerate the processed files from the raw files
  analyze  run the daily direction analysis and write reports
  serve    run the scheduler and the web dashboard

Run "quantlab <command> -h" for command flags.`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	switch os.Args[1] {
	case "fetch":
		err = runFetch(cfg, os.Args[2:])
	case "clean":
		err = runClean(cfg, os.Args[2:])
	case "analyze":
		err = runAnalyze(cfg, os.Args[2:])
	case "serve":
		err = runServe(cfg)
	case "-h", "--help", "help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", os.Args[1], usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func newStore(cfg *config.Config) *store.Store {
	return &store.Store{
		RawDir:         cfg.Data.RawDir,
		ProcessedDir:   cfg.Data.ProcessedDir,
		ResultsDir:     cfg.Data.ResultsDir,
		BackupDir:      cfg.Data.BackupDir,
		BackupsEnabled: cfg.Backups.Enabled,
		MaxBackups:     cfg.Backups.MaxPerAsset,
	}
}

func newPipeline(cfg *config.Config, rec recorder.Recorder) *pipeline.Pipeline {
	st := newStore(cfg)
	fetcher := collector.NewAlphaVantageFetcher(cfg.API.BaseURL, cfg.API.Key, cfg.API.CallsPerMinute)
	return &pipeline.Pipeline{
		Store:     st,
		Collector: collector.NewCollector(fetcher, st),
		Recorder:  rec,
		Options: analyzer.Options{
			PointMultiplier: cfg.Analysis.PointMultiplier,
			PointDecimals:   cfg.Analysis.PointDecimals,
		},
	}
}

// newRecorder opens the sqlite recorder when a path is configured and falls
// back to the noop recorder when opening fails.
func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}

// selectAssets resolves the -asset flag: empty means all configured assets.
func selectAssets(cfg *config.Config, name string) ([]model.Asset, error) {
	if name == "" {
		return cfg.Assets, nil
	}
	a, ok := cfg.Asset(name)
	if !ok {
		return nil, fmt.Errorf("asset %q is not configured", name)
	}
	return []model.Asset{a}, nil
}

func runFetch(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	asset := fs.String("asset", "", "fetch a single asset instead of all")
	fs.Parse(args)

	if err := cfg.ValidateForFetch(); err != nil {
		return err
	}
	assets, err := selectAssets(cfg, *asset)
	if err != nil {
		return err
	}

	p := newPipeline(cfg, recorder.NewNoopRecorder())
	ctx := context.Background()
	for _, a := range assets {
		if err := p.Refresh(ctx, a); err != nil {
			return fmt.Errorf("refresh %s: %w", a.Name, err)
		}
	}
	return nil
}

func runClean(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	asset := fs.String("asset", "", "clean a single asset instead of all")
	fs.Parse(args)

	if err := cfg.Validate(); err != nil {
		return err
	}
	assets, err := selectAssets(cfg, *asset)
	if err != nil {
		return err
	}

	p := newPipeline(cfg, recorder.NewNoopRecorder())
	for _, a := range assets {
		if err := p.CleanAsset(a.Name); err != nil {
			return err
		}
	}
	return nil
}

func runAnalyze(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	asset := fs.String("asset", "", "analyze a single asset instead of all")
	startStr := fs.String("start", "", "period start date (YYYY-MM-DD, empty for open)")
	endStr := fs.String("end", "", "period end date (YYYY-MM-DD, empty for open)")
	fs.Parse(args)

	if err := cfg.Validate(); err != nil {
		return err
	}
	assets, err := selectAssets(cfg, *asset)
	if err != nil {
		return err
	}
	start, err := parseDate(*startStr)
	if err != nil {
		return err
	}
	end, err := parseDate(*endStr)
	if err != nil {
		return err
	}
	if !start.IsZero() && !end.IsZero() && start.After(end) {
		return fmt.Errorf("start date %s is after end date %s", *startStr, *endStr)
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	p := newPipeline(cfg, rec)

	for _, a := range assets {
		out, err := p.Analyze(a.Name, start, end)
		if err != nil {
			return fmt.Errorf("analyze %s: %w", a.Name, err)
		}
		if out.Result.Empty() {
			continue
		}
		for _, f := range out.Files {
			log.Printf("[INFO] wrote %s", f)
		}
	}
	return nil
}

func runServe(cfg *config.Config) error {
	if err := cfg.ValidateForFetch(); err != nil {
		return err
	}

	rec := newRecorder(cfg)
	defer rec.Close()
	p := newPipeline(cfg, rec)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, p, cfg.Assets)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, refreshing all assets now")
		go sched.RunRefreshNow()
	}

	srv := dashboard.NewServer(cfg.Dashboard.Listen, p, cfg.Assets)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx) }()

	log.Println("[INFO] QuantMarketLab is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
		<-errCh
	case err := <-errCh:
		if err != nil {
			return err
		}
	}
	log.Println("[INFO] QuantMarketLab stopped")
	return nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(model.DateFormat, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", v)
	}
	return t, nil
}
