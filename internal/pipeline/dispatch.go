package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/vladcebo/paytoy/internal/domain"
)

// Dispatcher routes the ordered record stream to account shards. The same
// client always maps to the same shard (client mod M), and because the
// dispatcher is single-threaded each shard receives its clients' records
// in global order.
type Dispatcher struct {
	log zerolog.Logger
}

func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{log: log.With().Str("stage", "dispatch").Logger()}
}

// Run forwards records until in closes, then closes every shard channel.
func (d *Dispatcher) Run(in <-chan domain.Record, shards []chan domain.Record) {
	for rec := range in {
		shards[int(rec.Client)%len(shards)] <- rec
	}
	for _, ch := range shards {
		close(ch)
	}
	d.log.Debug().Int("shards", len(shards)).Msg("dispatch complete")
}
