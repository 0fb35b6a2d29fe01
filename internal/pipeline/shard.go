package pipeline

import (
	"github.com/rs/zerolog"

	"github.com/vladcebo/paytoy/internal/domain"
	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
)

// Shard owns the accounts for a disjoint subset of clients and applies
// their records strictly in arrival order. Accounts are created lazily on
// first reference and live until the final report is written; no other
// goroutine ever touches them.
type Shard struct {
	id       int
	accounts map[uint16]*domain.Account
	log      zerolog.Logger
	metrics  *metrics.Metrics
}

func NewShard(id int, log zerolog.Logger, m *metrics.Metrics) *Shard {
	return &Shard{
		id:       id,
		accounts: make(map[uint16]*domain.Account),
		log:      log.With().Str("stage", "shard").Int("shard", id).Logger(),
		metrics:  m,
	}
}

// Run applies records until in closes. Rejected records are the soft error
// stratum: counted, logged at debug and otherwise without effect.
func (s *Shard) Run(in <-chan domain.Record) {
	for rec := range in {
		acct, ok := s.accounts[rec.Client]
		if !ok {
			acct = domain.NewAccount(rec.Client)
			s.accounts[rec.Client] = acct
			if s.metrics != nil {
				s.metrics.AccountsCreated.Inc()
			}
		}

		if err := acct.Apply(rec); err != nil {
			if s.metrics != nil {
				s.metrics.RecordsRejected.WithLabelValues(err.Error()).Inc()
			}
			s.log.Debug().
				Err(err).
				Uint64("seq", rec.Seq).
				Uint16("client", rec.Client).
				Uint32("tx", rec.Tx).
				Str("kind", rec.Kind.String()).
				Msg("record ignored")
			continue
		}

		if s.metrics != nil {
			s.metrics.RecordsApplied.WithLabelValues(rec.Kind.String()).Inc()
			if rec.Kind == domain.KindChargeback {
				s.metrics.AccountsLocked.Inc()
			}
		}
	}

	s.log.Debug().Int("accounts", len(s.accounts)).Msg("shard drained")
}

// Accounts returns the shard's final account states. Only valid after Run
// has returned.
func (s *Shard) Accounts() []*domain.Account {
	accounts := make([]*domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accounts = append(accounts, a)
	}
	return accounts
}
