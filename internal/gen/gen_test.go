package gen_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladcebo/paytoy/internal/adapter/csvio"
	"github.com/vladcebo/paytoy/internal/domain"
	"github.com/vladcebo/paytoy/internal/gen"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gen.Write(&buf, 10, false))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 11, "header plus 10 records")
	assert.Equal(t, "type,  client,  tx,  amount", lines[0])

	// Every generated row must survive the parser.
	for _, line := range lines[1:] {
		rec, err := csvio.ParseLine([]byte(line))
		require.NoError(t, err, "row %q", line)
		assert.Equal(t, uint16(1), rec.Client)
	}

	first, err := csvio.ParseLine([]byte(lines[1]))
	require.NoError(t, err)
	assert.Equal(t, domain.KindDeposit, first.Kind)
	assert.Equal(t, uint32(1), first.Tx)
}

func TestWrite_AllClients(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gen.Write(&buf, 100, true))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	clients := make(map[uint16]bool)
	for _, line := range lines[1:] {
		rec, err := csvio.ParseLine([]byte(line))
		require.NoError(t, err)
		clients[rec.Client] = true
	}
	assert.Greater(t, len(clients), 1, "records must spread across clients")
}
