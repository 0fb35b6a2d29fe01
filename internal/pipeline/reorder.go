package pipeline

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/vladcebo/paytoy/internal/adapter/csvio"
	"github.com/vladcebo/paytoy/internal/domain"
)

// Reorderer restores global input order across the parser pool's outputs.
// Batches arrive tagged with their block index in whatever order the
// workers finish; they are buffered until the next expected index shows up
// and released strictly in index order. In steady state the buffer holds
// at most one batch per parser worker.
//
// The reorderer is also where each surviving record gets its dense global
// sequence number: it is the single stage that sees all records in input
// order. Rows dropped during parsing never consume a sequence number.
type Reorderer struct {
	log     zerolog.Logger
	emitted uint64
}

func NewReorderer(log zerolog.Logger) *Reorderer {
	return &Reorderer{log: log.With().Str("stage", "reorder").Logger()}
}

// Run consumes parsed batches until in closes, then flushes whatever is
// still buffered in index order and closes out.
func (ro *Reorderer) Run(in <-chan csvio.ParsedBatch, out chan<- domain.Record) {
	defer close(out)

	pending := make(map[int]csvio.ParsedBatch)
	next := 0

	for batch := range in {
		if batch.Index != next {
			pending[batch.Index] = batch
			continue
		}

		ro.emit(batch, out)
		next++
		for {
			buffered, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			ro.emit(buffered, out)
			next++
		}
	}

	// Only reachable if upstream skipped indices, which the block reader
	// never does; flush in index order regardless.
	if len(pending) > 0 {
		indices := make([]int, 0, len(pending))
		for i := range pending {
			indices = append(indices, i)
		}
		sort.Ints(indices)
		ro.log.Warn().Ints("indices", indices).Msg("flushing out-of-order remainder")
		for _, i := range indices {
			ro.emit(pending[i], out)
		}
	}

	ro.log.Debug().Uint64("records", ro.emitted).Msg("input order restored")
}

func (ro *Reorderer) emit(batch csvio.ParsedBatch, out chan<- domain.Record) {
	for _, rec := range batch.Records {
		rec.Seq = ro.emitted
		ro.emitted++
		out <- rec
	}
}

// Emitted returns the number of records released, which is also the next
// sequence number. Only valid after Run has returned.
func (ro *Reorderer) Emitted() uint64 {
	return ro.emitted
}
