package csvio

import (
	"bytes"
	"errors"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/vladcebo/paytoy/internal/domain"
	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
)

// ParsedBatch is the typed form of one raw block. Records keep their
// intra-block order; global sequence numbers are assigned downstream by
// the reorderer.
type ParsedBatch struct {
	Index   int
	Records []domain.Record
}

var (
	errColumns       = errors.New("wrong number of columns")
	errKind          = errors.New("unknown transaction type")
	errClientID      = errors.New("client id out of range")
	errTxID          = errors.New("transaction id out of range")
	errAmountMissing = errors.New("missing amount")
	errAmountPresent = errors.New("unexpected amount")
	errAmount        = errors.New("malformed amount")
)

// Parser converts raw blocks into record batches, dropping malformed rows.
// A single Parser is shared by the whole worker pool; it holds no per-call
// state.
type Parser struct {
	log     zerolog.Logger
	metrics *metrics.Metrics
}

func NewParser(log zerolog.Logger, m *metrics.Metrics) *Parser {
	return &Parser{
		log:     log.With().Str("stage", "parser").Logger(),
		metrics: m,
	}
}

// ParseBlock parses every line of a block. Malformed rows are counted,
// logged at debug and skipped; they never abort the run.
func (p *Parser) ParseBlock(b RawBlock) ParsedBatch {
	records := make([]domain.Record, 0, bytes.Count(b.Data, []byte{'\n'})+1)

	data := b.Data
	for len(data) > 0 {
		var line []byte
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			line, data = data, nil
		}

		line = bytes.TrimRight(line, "\r")
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		rec, err := ParseLine(line)
		if err != nil {
			if p.metrics != nil {
				p.metrics.RowsDropped.Inc()
			}
			p.log.Debug().Err(err).Bytes("row", line).Msg("dropping malformed row")
			continue
		}
		records = append(records, rec)
	}

	if p.metrics != nil {
		p.metrics.RecordsParsed.Add(float64(len(records)))
	}
	return ParsedBatch{Index: b.Index, Records: records}
}

// ParseLine parses a single CSV row of the form "type,client,tx,amount".
// Whitespace around fields is tolerated; the amount column may be omitted
// entirely for dispute, resolve and chargeback rows.
func ParseLine(line []byte) (domain.Record, error) {
	fields := strings.Split(string(line), ",")
	if len(fields) < 3 || len(fields) > 4 {
		return domain.Record{}, errColumns
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	kind, err := parseKind(fields[0])
	if err != nil {
		return domain.Record{}, err
	}

	client, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		return domain.Record{}, errClientID
	}

	tx, err := strconv.ParseUint(fields[2], 10, 32)
	if err != nil {
		return domain.Record{}, errTxID
	}

	rec := domain.Record{
		Kind:   kind,
		Client: uint16(client),
		Tx:     uint32(tx),
	}

	amountField := ""
	if len(fields) == 4 {
		amountField = fields[3]
	}

	if !kind.HasAmount() {
		if amountField != "" {
			return domain.Record{}, errAmountPresent
		}
		return rec, nil
	}

	if amountField == "" {
		return domain.Record{}, errAmountMissing
	}
	rec.Amount, err = parseAmount(amountField)
	if err != nil {
		return domain.Record{}, err
	}
	return rec, nil
}

// parseKind matches the transaction type column. Types are lowercase and
// case-sensitive.
func parseKind(s string) (domain.Kind, error) {
	switch s {
	case "deposit":
		return domain.KindDeposit, nil
	case "withdrawal":
		return domain.KindWithdrawal, nil
	case "dispute":
		return domain.KindDispute, nil
	case "resolve":
		return domain.KindResolve, nil
	case "chargeback":
		return domain.KindChargeback, nil
	}
	return 0, errKind
}

// parseAmount accepts non-negative decimals with at most 4 fractional
// digits. Anything more precise is rejected rather than rounded.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errAmount
	}
	if d.IsNegative() || d.Exponent() < -4 {
		return decimal.Zero, errAmount
	}
	return d, nil
}
