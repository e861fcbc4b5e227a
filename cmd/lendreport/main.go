package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"loanlens/internal/analysis"
	"loanlens/internal/clean"
	"loanlens/internal/config"
	"loanlens/internal/dataset"
	"loanlens/internal/infrastructure"
	"loanlens/internal/report"
)

func main() {
	configFile := flag.String("config", "", "config file path (defaults to loanlens.yml)")
	acceptedDir := flag.String("accepted", "", "directory with accepted-loan CSV files")
	rejectedDir := flag.String("rejected", "", "directory with rejected-application CSV files")
	format := flag.String("format", "xlsx", "xlsx | csv | both")
	out := flag.String("out", "lending.xlsx", "workbook file name, relative to the reports directory")
	topN := flag.Int("top", 10, "entries per ranking sheet")
	flag.Parse()

	_ = godotenv.Load()

	var cfg *config.Config
	var err error
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	if *acceptedDir == "" {
		*acceptedDir = cfg.Paths.AcceptedDir
	}
	if *rejectedDir == "" {
		*rejectedDir = cfg.Paths.RejectedDir
	}
	if *format != "xlsx" && *format != "csv" && *format != "both" {
		slog.Error("Unknown format", "format", *format)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	if err := cfg.EnsureDirectories(); err != nil {
		logger.ErrorContext(ctx, "failed to create directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.InfoContext(ctx, "starting report generation",
		slog.String("accepted_dir", *acceptedDir),
		slog.String("rejected_dir", *rejectedDir),
		slog.String("format", *format))

	loader := dataset.NewLoader(logger)
	raw, err := loader.LoadAccepted(ctx, *acceptedDir)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load accepted loans", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rawRejections, err := loader.LoadRejected(ctx, *rejectedDir)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load rejections", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Status restriction applies only to the default-risk subset; the
	// population comparisons run over every accepted loan.
	opts := clean.DefaultOptions()
	opts.DropIncomplete = cfg.Cleaning.DropIncomplete
	opts.CoerceTypes = cfg.Cleaning.CoerceTypes
	opts.RestrictStatus = false

	cleaner := clean.NewCleaner(logger)
	ds, err := cleaner.Apply(ctx, raw, opts)
	if err != nil {
		logger.ErrorContext(ctx, "cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rs, err := cleaner.ApplyRejections(ctx, rawRejections, opts)
	if err != nil {
		logger.ErrorContext(ctx, "rejection cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	terminal := ds
	if cfg.Cleaning.RestrictStatus {
		terminal, err = cleaner.Apply(ctx, ds, clean.Options{RestrictStatus: true})
		if err != nil {
			logger.ErrorContext(ctx, "status restriction failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	analyzer := analysis.NewAnalyzer(logger)
	location := analyzer.Location(ctx, ds, rs, *topN)
	words := analyzer.TitleWords(ctx, ds, rs, *topN)
	breakdowns := []analysis.CategoryBreakdown{
		analyzer.TermBreakdown(ctx, terminal),
		analyzer.GradeBreakdown(ctx, terminal),
		analyzer.PurposeBreakdown(ctx, terminal),
		analyzer.StateBreakdown(ctx, terminal),
	}

	if *format == "xlsx" || *format == "both" {
		w := report.NewExcelWriter(logger)
		w.AddDistribution("Loan amounts", analyzer.LoanAmounts(ctx, ds, rs))
		w.AddDistribution("DTI", analyzer.DTI(ctx, ds, rs))
		w.AddRatios("Top states", location.TopStates)
		w.AddRatios("Bottom states", location.BottomStates)
		w.AddRatios("Top zips", location.TopZips)
		w.AddRatios("Bottom zips", location.BottomZips)
		w.AddEmployment(analyzer.Employment(ctx, ds, rs))
		w.AddWords("Accepted words", words.Accepted)
		w.AddWords("Rejected words", words.Rejected)
		w.AddSplit("Interest rate", analyzer.InterestRateByDefault(ctx, terminal))
		w.AddSplit("FICO low", analyzer.FicoByDefault(ctx, terminal, false))
		w.AddSplit("FICO high", analyzer.FicoByDefault(ctx, terminal, true))
		w.AddSplit("Inquiries", analyzer.InquiriesByDefault(ctx, terminal))
		w.AddSplit("Credit limit", analyzer.CreditLimitByDefault(ctx, terminal))
		for _, b := range breakdowns {
			w.AddBreakdown(b)
		}
		if err := w.Save(cfg.GetReportPath(*out)); err != nil {
			logger.ErrorContext(ctx, "failed to write workbook", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	if *format == "csv" || *format == "both" {
		w := report.NewCSVWriter(cfg.Paths.ReportsDir, logger)
		exports := map[string][]analysis.RatioEntry{
			"top_states.csv":    location.TopStates,
			"bottom_states.csv": location.BottomStates,
			"top_zips.csv":      location.TopZips,
			"bottom_zips.csv":   location.BottomZips,
		}
		for name, entries := range exports {
			if err := w.WriteRatios(name, entries); err != nil {
				logger.ErrorContext(ctx, "failed to write CSV report",
					slog.String("name", name), slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
		for _, b := range breakdowns {
			if err := w.WriteBreakdown("by_"+b.Column+".csv", b); err != nil {
				logger.ErrorContext(ctx, "failed to write CSV report",
					slog.String("name", b.Column), slog.String("error", err.Error()))
				os.Exit(1)
			}
		}
	}

	logger.InfoContext(ctx, "report generation completed",
		slog.Int("accepted_records", ds.Len()),
		slog.Int("terminal_records", terminal.Len()),
		slog.Int("rejected_records", rs.Len()))
}
