package main

import (
	"context"
	"flag"
	"io"
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
	outFile := flag.String("out", "", "write the report to a file instead of stdout")
	barWidth := flag.Int("bars", 0, "width of the count bar column (0 disables)")
	topN := flag.Int("top", 10, "entries per ranking table")
	flag.Parse()

	// .env is optional, real environment wins either way
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

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	logger.InfoContext(ctx, "starting analysis",
		slog.String("accepted_dir", *acceptedDir),
		slog.String("rejected_dir", *rejectedDir))

	ds, terminal, rs, err := loadAndClean(ctx, cfg, logger, *acceptedDir, *rejectedDir)
	if err != nil {
		logger.ErrorContext(ctx, "pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dest := io.Writer(os.Stdout)
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			logger.ErrorContext(ctx, "failed to create output file",
				slog.String("path", *outFile), slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		dest = f
	}

	analyzer := analysis.NewAnalyzer(logger)
	out := report.NewTextRenderer(dest)
	out.BarWidth = *barWidth

	// Accepted-vs-rejected comparisons run over every accepted loan
	out.Distribution("Loan amounts", analyzer.LoanAmounts(ctx, ds, rs))
	out.Distribution("Debt-to-income ratios", analyzer.DTI(ctx, ds, rs))
	out.Location(analyzer.Location(ctx, ds, rs, *topN))
	out.Employment(analyzer.Employment(ctx, ds, rs))
	out.TitleWords(analyzer.TitleWords(ctx, ds, rs, *topN))

	// Default-risk statistics use only terminal-status loans
	out.Split("Interest rates by outcome", analyzer.InterestRateByDefault(ctx, terminal))
	out.Split("Lower FICO range by outcome", analyzer.FicoByDefault(ctx, terminal, false))
	out.Split("Upper FICO range by outcome", analyzer.FicoByDefault(ctx, terminal, true))
	out.Split("Credit inquiries by outcome", analyzer.InquiriesByDefault(ctx, terminal))
	out.Split("Total credit limit by outcome", analyzer.CreditLimitByDefault(ctx, terminal))

	out.Breakdown(analyzer.TermBreakdown(ctx, terminal))
	out.Breakdown(analyzer.GradeBreakdown(ctx, terminal))
	out.Breakdown(analyzer.PurposeBreakdown(ctx, terminal))
	out.Breakdown(analyzer.StateBreakdown(ctx, terminal))

	logger.InfoContext(ctx, "analysis completed",
		slog.Int("accepted_records", ds.Len()),
		slog.Int("terminal_records", terminal.Len()),
		slog.Int("rejected_records", rs.Len()))
}

// loadAndClean returns the cleaned accepted dataset twice: the full set
// for population comparisons against rejections, and the
// terminal-status subset for default-rate statistics. Status
// restriction never applies to the full set.
func loadAndClean(ctx context.Context, cfg *config.Config, logger *slog.Logger, acceptedDir, rejectedDir string) (dataset.Dataset, dataset.Dataset, dataset.RejectionSet, error) {
	loader := dataset.NewLoader(logger)

	raw, err := loader.LoadAccepted(ctx, acceptedDir)
	if err != nil {
		return dataset.Dataset{}, dataset.Dataset{}, dataset.RejectionSet{}, err
	}
	rawRejections, err := loader.LoadRejected(ctx, rejectedDir)
	if err != nil {
		return dataset.Dataset{}, dataset.Dataset{}, dataset.RejectionSet{}, err
	}

	opts := clean.DefaultOptions()
	opts.DropIncomplete = cfg.Cleaning.DropIncomplete
	opts.CoerceTypes = cfg.Cleaning.CoerceTypes
	opts.RestrictStatus = false

	cleaner := clean.NewCleaner(logger)
	ds, err := cleaner.Apply(ctx, raw, opts)
	if err != nil {
		return dataset.Dataset{}, dataset.Dataset{}, dataset.RejectionSet{}, err
	}
	rs, err := cleaner.ApplyRejections(ctx, rawRejections, opts)
	if err != nil {
		return dataset.Dataset{}, dataset.Dataset{}, dataset.RejectionSet{}, err
	}

	terminal := ds
	if cfg.Cleaning.RestrictStatus {
		terminal, err = cleaner.Apply(ctx, ds, clean.Options{RestrictStatus: true})
		if err != nil {
			return dataset.Dataset{}, dataset.Dataset{}, dataset.RejectionSet{}, err
		}
	}

	return ds, terminal, rs, nil
}
