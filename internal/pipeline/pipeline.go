// Package pipeline composes the staged transaction processor: a block
// reader feeding a parallel parser pool, a reorderer that restores input
// order, a dispatcher sharding by client id, and per-shard account
// workers. Data flows one way over bounded channels; back-pressure
// propagates from the shards all the way to the reader.
package pipeline

import (
	"io"
	"runtime"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vladcebo/paytoy/internal/adapter/csvio"
	"github.com/vladcebo/paytoy/internal/domain"
	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
)

// DefaultChannelDepth bounds each inter-stage channel.
const DefaultChannelDepth = 64

// Config sizes the pipeline stages. Zero values pick the defaults: a
// 64 KiB block size and one parser and one shard per CPU.
type Config struct {
	BlockSize    int
	Parsers      int
	Shards       int
	ChannelDepth int
}

func (c Config) withDefaults() Config {
	if c.Parsers <= 0 {
		c.Parsers = runtime.NumCPU()
	}
	if c.Shards <= 0 {
		c.Shards = runtime.NumCPU()
	}
	if c.ChannelDepth <= 0 {
		c.ChannelDepth = DefaultChannelDepth
	}
	return c
}

// Result is the drained pipeline's final state.
type Result struct {
	// Accounts holds every account touched by the run, in no particular
	// order; the report writer sorts them.
	Accounts []*domain.Account
	// Records is the number of well-formed records processed.
	Records uint64
}

// Run executes the pipeline over the input stream until it is exhausted
// and every stage has drained. Mid-run cancellation is deliberately not
// supported: a fatal read error closes the reader's output channel, the
// closure cascades through the stages, and the accounts touched so far
// are still returned alongside the error so the caller can report them.
func Run(input io.Reader, cfg Config, log zerolog.Logger, m *metrics.Metrics) (*Result, error) {
	cfg = cfg.withDefaults()

	blocks := make(chan csvio.RawBlock, cfg.ChannelDepth)
	batches := make(chan csvio.ParsedBatch, cfg.ChannelDepth)
	ordered := make(chan domain.Record, cfg.ChannelDepth)
	shardChans := make([]chan domain.Record, cfg.Shards)
	for i := range shardChans {
		shardChans[i] = make(chan domain.Record, cfg.ChannelDepth)
	}

	var g errgroup.Group

	reader := csvio.NewBlockReader(input, cfg.BlockSize, log, m)
	g.Go(func() error {
		return reader.Run(blocks)
	})

	parser := csvio.NewParser(log, m)
	var parsers sync.WaitGroup
	parsers.Add(cfg.Parsers)
	for i := 0; i < cfg.Parsers; i++ {
		g.Go(func() error {
			defer parsers.Done()
			for block := range blocks {
				batches <- parser.ParseBlock(block)
			}
			return nil
		})
	}
	g.Go(func() error {
		parsers.Wait()
		close(batches)
		return nil
	})

	reorderer := NewReorderer(log)
	g.Go(func() error {
		reorderer.Run(batches, ordered)
		return nil
	})

	dispatcher := NewDispatcher(log)
	g.Go(func() error {
		dispatcher.Run(ordered, shardChans)
		return nil
	})

	shards := make([]*Shard, cfg.Shards)
	for i := range shards {
		shard := NewShard(i, log, m)
		shards[i] = shard
		in := shardChans[i]
		g.Go(func() error {
			shard.Run(in)
			return nil
		})
	}

	err := g.Wait()

	result := &Result{Records: reorderer.Emitted()}
	for _, shard := range shards {
		result.Accounts = append(result.Accounts, shard.Accounts()...)
	}
	return result, err
}
