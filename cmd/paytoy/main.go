package main

import (
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vladcebo/paytoy/internal/adapter/csvio"
	"github.com/vladcebo/paytoy/internal/gen"
	"github.com/vladcebo/paytoy/internal/infrastructure/config"
	"github.com/vladcebo/paytoy/internal/infrastructure/logger"
	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
	"github.com/vladcebo/paytoy/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		parsers   int
		shards    int
		blockSize int
	)

	cmd := &cobra.Command{
		Use:          "paytoy <transactions.csv>",
		Short:        "Process a payment transaction stream and report final account balances",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			// Flags override the environment.
			if cmd.Flags().Changed("parsers") {
				cfg.ParserWorkers = parsers
			}
			if cmd.Flags().Changed("shards") {
				cfg.Shards = shards
			}
			if cmd.Flags().Changed("block-size") {
				cfg.BlockSize = blockSize
			}

			log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
				With().Str("run_id", ulid.Make().String()).Logger()

			return run(args[0], cfg, log)
		},
	}

	cmd.Flags().IntVar(&parsers, "parsers", 0, "parser workers (default one per CPU)")
	cmd.Flags().IntVar(&shards, "shards", 0, "account shards (default one per CPU)")
	cmd.Flags().IntVar(&blockSize, "block-size", 0, "read block size in bytes")

	cmd.AddCommand(newGenCmd())
	return cmd
}

func run(path string, cfg *config.Config, log zerolog.Logger) error {
	input, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("cannot open input")
		return err
	}
	defer input.Close()

	log.Info().Str("path", path).Msg("processing transactions")

	m := metrics.New()
	start := time.Now()
	result, runErr := pipeline.Run(input, pipeline.Config{
		BlockSize:    cfg.BlockSize,
		Parsers:      cfg.ParserWorkers,
		Shards:       cfg.Shards,
		ChannelDepth: cfg.ChannelDepth,
	}, log, m)

	elapsed := time.Since(start)
	summary := log.Info().
		Uint64("records", result.Records).
		Int("accounts", len(result.Accounts)).
		Dur("elapsed", elapsed)
	if elapsed > 0 {
		summary = summary.Float64("records_per_second", float64(result.Records)/elapsed.Seconds())
	}
	summary.Msg("pipeline drained")
	m.LogSummary(log)

	// Report whatever was processed even when the run failed partway.
	if err := csvio.WriteReport(os.Stdout, result.Accounts); err != nil {
		log.Error().Err(err).Msg("cannot write report")
		return err
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("processing failed")
		return runErr
	}
	return nil
}

func newGenCmd() *cobra.Command {
	var (
		records    int
		allClients bool
	)

	cmd := &cobra.Command{
		Use:   "gen <path>",
		Short: "Generate a synthetic transaction file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return gen.WriteFile(args[0], records, allClients)
		},
	}

	cmd.Flags().IntVar(&records, "records", 1000000, "number of records to generate")
	cmd.Flags().BoolVar(&allClients, "all-clients", false, "spread records across the full client id range")
	return cmd
}
