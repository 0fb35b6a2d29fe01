package csvio_test

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladcebo/paytoy/internal/adapter/csvio"
	"github.com/vladcebo/paytoy/internal/domain"
)

func TestWriteReport(t *testing.T) {
	accounts := []*domain.Account{
		{ID: 7, Available: decimal.RequireFromString("1.5"), Held: decimal.Zero, Total: decimal.RequireFromString("1.5")},
		{ID: 1, Available: decimal.RequireFromString("-8"), Held: decimal.RequireFromString("10"), Total: decimal.RequireFromString("2")},
		{ID: 3, Available: decimal.Zero, Held: decimal.Zero, Total: decimal.Zero, Locked: true},
	}

	var buf bytes.Buffer
	require.NoError(t, csvio.WriteReport(&buf, accounts))

	assert.Equal(t,
		"client,available,held,total,locked\n"+
			"1,-8.0000,10.0000,2.0000,false\n"+
			"3,0.0000,0.0000,0.0000,true\n"+
			"7,1.5000,0.0000,1.5000,false\n",
		buf.String())
}

func TestWriteReport_NoAccounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, csvio.WriteReport(&buf, nil))

	assert.Equal(t, "client,available,held,total,locked\n", buf.String())
}
