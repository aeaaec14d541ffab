package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/ppiankov/lineage/internal/cache"
	"github.com/ppiankov/lineage/internal/checkpoint"
	"github.com/ppiankov/lineage/internal/llm"
	"github.com/ppiankov/lineage/internal/logging"
	"github.com/ppiankov/lineage/internal/model"
	"github.com/ppiankov/lineage/internal/pipeline"
	"github.com/ppiankov/lineage/internal/report"
	"github.com/ppiankov/lineage/internal/util"
	"github.com/ppiankov/lineage/internal/worker"
	"github.com/spf13/cobra"
)

var (
	workers       int
	httpTimeout   time.Duration
	userAgent     string
	maxBytes      int64
	maxRetries    int
	noCache       bool
	noRobots      bool
	csvPath       string
	checkpointDir string
	llmProvider   string
	llmModel      string
	rps           float64
	burst         int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full extraction pipeline",
	Long: `Run executes the whole pipeline:
- Scrape the roster page into MP stubs (skipped when legislators.json exists)
- Fetch each MP's biography and extract family political relations with
  the configured LLM, skipping MPs already in legislator_relations.json
- Flush the checkpoint, write the CSV, and print the summary tables

Re-running after a failure is always safe: completed MPs are never
refetched or re-extracted.

Example:
  lineage run
  lineage run --workers 20 --csv relations.csv
  lineage run --llm-model gpt-4o-mini --no-robots`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVar(&workers, "workers", 12, "number of concurrent extraction workers")
	runCmd.Flags().DurationVar(&httpTimeout, "timeout", 30*time.Second, "per-request HTTP timeout")
	runCmd.Flags().StringVar(&userAgent, "ua", "Lineage/0.1 (+https://github.com/ppiankov/lineage)", "HTTP User-Agent")
	runCmd.Flags().Int64Var(&maxBytes, "max-bytes", 4_000_000, "max response bytes to read")
	runCmd.Flags().IntVar(&maxRetries, "max-retries", 2, "retries for transient fetch failures")
	runCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the page cache (force fresh fetches)")
	runCmd.Flags().BoolVar(&noRobots, "no-robots", false, "skip robots.txt checks")
	runCmd.Flags().StringVar(&csvPath, "csv", "legislator_relations.csv", "output CSV path")
	runCmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", ".", "directory for checkpoint files")
	runCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider")
	runCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o", "LLM model name")
	runCmd.Flags().Float64Var(&rps, "rps", 4, "max requests per second per domain")
	runCmd.Flags().IntVar(&burst, "burst", 4, "rate limit burst size")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := buildConfig()

	logger, err := logging.New(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	oracle, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}

	fetcher := pipeline.NewFetcher(cfg.HTTP)
	if cfg.Cache.Enabled {
		fetcher.UseCache(cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL))
	}
	if cfg.Robots.Enabled {
		fetcher.UseRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout))
	}

	pipe := pipeline.NewPipeline(fetcher, oracle)
	store := checkpoint.NewStore(cfg.Checkpoint)

	// Phase 1: roster, short-circuited by its checkpoint
	mps, found, err := store.LoadRoster()
	if err != nil {
		return err
	}
	if found {
		fmt.Fprintf(os.Stderr, "✓ Loaded %d MPs from %s\n", len(mps), store.RosterPath())
	} else {
		fmt.Fprintf(os.Stderr, "⚙️  Scraping roster page...\n")
		mps, err = pipe.FetchRoster(ctx, model.RosterURL)
		if err != nil {
			return fmt.Errorf("roster extraction: %w", err)
		}
		if err := store.SaveRoster(mps); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Scraped %d MPs\n", len(mps))
	}

	// Phase 2: relation extraction with per-item resume
	results, err := store.LoadResults()
	if err != nil {
		return err
	}
	if results.Len() > 0 {
		fmt.Fprintf(os.Stderr, "✓ Resuming: %d MPs already processed\n", results.Len())
	}

	fmt.Fprintf(os.Stderr, "⚙️  Extracting relations with %d workers...\n", cfg.Concurrency.Workers)

	pool := worker.NewPool(pipe, results, store, cfg.Concurrency.Workers, logger)
	pool.UseLimiter(worker.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))

	runErr := pool.Run(ctx, mps)

	done, total := pool.Progress()
	fmt.Fprintf(os.Stderr, "✓ Processed %d/%d MPs (%d records)\n", done, total, results.Len())

	// Outputs are rendered from whatever completed, even after failures
	records := results.Records()
	if len(records) > 0 {
		if err := report.WriteCSV(cfg.Output.CSVPath, records); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote CSV: %s\n\n", cfg.Output.CSVPath)

		report.RenderTables(os.Stdout, report.Build(records))
	}

	if runErr != nil {
		return fmt.Errorf("run finished with errors (re-run to resume): %w", runErr)
	}
	return nil
}

// buildConfig applies the run flags over the defaults
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.HTTP.Timeout = httpTimeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.MaxRetries = maxRetries
	cfg.Concurrency.Workers = workers
	cfg.RateLimit.RequestsPerSecond = rps
	cfg.RateLimit.Burst = burst
	cfg.Cache.Enabled = !noCache
	cfg.Robots.Enabled = !noRobots
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	cfg.Checkpoint.Dir = checkpointDir
	cfg.Output.CSVPath = csvPath
	cfg.Output.Verbose = verbose
	return cfg
}
