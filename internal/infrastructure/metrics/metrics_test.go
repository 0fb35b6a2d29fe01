package metrics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/vladcebo/paytoy/internal/infrastructure/metrics"
)

func TestCountersRegisterAndIncrement(t *testing.T) {
	m := metrics.New()

	m.BlocksRead.Inc()
	m.RecordsParsed.Add(42)
	m.RecordsApplied.WithLabelValues("deposit").Add(3)
	m.RecordsRejected.WithLabelValues("insufficient available funds").Inc()

	if got := testutil.ToFloat64(m.BlocksRead); got != 1 {
		t.Errorf("expected 1 block read, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsParsed); got != 42 {
		t.Errorf("expected 42 records parsed, got %v", got)
	}
	if got := testutil.ToFloat64(m.RecordsApplied.WithLabelValues("deposit")); got != 3 {
		t.Errorf("expected 3 deposits applied, got %v", got)
	}
}

// Each run owns a private registry, so parallel pipelines never trip over
// duplicate registration.
func TestIndependentRegistries(t *testing.T) {
	a := metrics.New()
	b := metrics.New()

	a.BlocksRead.Inc()

	if got := testutil.ToFloat64(b.BlocksRead); got != 0 {
		t.Errorf("expected second registry untouched, got %v", got)
	}
}

func TestLogSummary(t *testing.T) {
	m := metrics.New()
	m.RowsDropped.Add(7)

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	m.LogSummary(log)

	out := buf.String()
	if !strings.Contains(out, "paytoy_rows_dropped_total") {
		t.Errorf("expected summary to mention dropped rows, got %q", out)
	}
	if strings.Contains(out, "paytoy_blocks_read_total") {
		t.Errorf("zero counters must be omitted, got %q", out)
	}
}
