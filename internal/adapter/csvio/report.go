package csvio

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/vladcebo/paytoy/internal/domain"
)

// WriteReport emits the final account states as CSV: one row per client,
// ascending by client id, amounts with exactly 4 fractional digits. The
// caller owns the writer; for the CLI this is stdout.
func WriteReport(w io.Writer, accounts []*domain.Account) error {
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("client,available,held,total,locked\n"); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, a := range accounts {
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%t\n",
			a.ID,
			a.Available.StringFixed(4),
			a.Held.StringFixed(4),
			a.Total.StringFixed(4),
			a.Locked,
		)
		if err != nil {
			return fmt.Errorf("write report row for client %d: %w", a.ID, err)
		}
	}
	return bw.Flush()
}
