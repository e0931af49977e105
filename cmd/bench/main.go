package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/anthanhphan/gosdk/logger"

	"github.com/anthanhphan/phago-distributed/internal/coordinator/bench"
)

const usage = `Usage: bench <command> [options]

Commands:
  quick     3 shards, 50 documents, 10 ticks
  full      3 shards, 100 documents, 20 ticks
  compare   1, 3 and 5 shards on the same workload
  scale     1, 2, 4 and 8 shards, printed as CSV
  custom    use the options below

Options:
`

func main() {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var (
		shards  = fs.Int("shards", 3, "Number of shards")
		docs    = fs.Int("docs", 100, "Number of documents to ingest")
		ticks   = fs.Int("ticks", 20, "Number of ticks to run")
		queries = fs.Int("queries", 50, "Rounds over the sample queries")
		resolve = fs.Bool("resolve", false, "Resolve cross-shard edges after every tick")
		workers = fs.Int("workers", 8, "Runner fan-out workers")
		asCSV   = fs.Bool("csv", false, "Print results as CSV instead of a summary")
	)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}

	if len(os.Args) < 2 {
		fs.Usage()
		os.Exit(2)
	}
	cmd := os.Args[1]
	if err := fs.Parse(os.Args[2:]); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	undo := logger.InitLogger(&logger.Config{
		LogLevel:    logger.LevelWarn,
		LogEncoding: logger.EncodingConsole,
	})
	defer undo()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := bench.DefaultConfig()
	cfg.ResolveGhosts = *resolve
	cfg.Workers = *workers

	var (
		results []bench.Results
		err     error
	)
	switch cmd {
	case "quick":
		cfg.Documents, cfg.Ticks, cfg.Queries = 50, 10, 10
		results, err = runOne(ctx, cfg)
	case "full":
		cfg.Queries = 20
		results, err = runOne(ctx, cfg)
	case "compare":
		cfg.Queries = 20
		results, err = bench.Scaling(ctx, cfg, []int{1, 3, 5})
	case "scale":
		cfg.Queries = 20
		results, err = bench.Scaling(ctx, cfg, []int{1, 2, 4, 8})
		*asCSV = true
	case "custom":
		cfg.Shards, cfg.Documents, cfg.Ticks, cfg.Queries = *shards, *docs, *ticks, *queries
		results, err = runOne(ctx, cfg)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}

	if *asCSV {
		if err := bench.WriteCSV(os.Stdout, results...); err != nil {
			log.Fatalf("Failed to write CSV: %v", err)
		}
		return
	}
	for _, r := range results {
		if err := r.WriteSummary(os.Stdout); err != nil {
			log.Fatalf("Failed to write summary: %v", err)
		}
		fmt.Println()
	}
}

func runOne(ctx context.Context, cfg bench.Config) ([]bench.Results, error) {
	r, err := bench.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return []bench.Results{r}, nil
}
