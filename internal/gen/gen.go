// Package gen produces synthetic transaction files for benchmarks and
// manual testing.
package gen

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Write emits a header plus exactly records rows: alternating
// deposit/withdrawal pairs with a fixed amount, ending on a lone deposit
// when records is odd. With allClients the records are spread across the full
// client id range, otherwise everything lands on client 1. Fields are
// padded with spaces, which the parser is required to tolerate.
func Write(w io.Writer, records int, allClients bool) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("type,  client,  tx,  amount\n"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for tx := 1; tx <= records; tx += 2 {
		client := uint16(1)
		if allClients {
			client = uint16(tx % 65536)
		}

		if _, err := fmt.Fprintf(bw, "deposit,  %d,  %d,  243.2312\n", client, tx); err != nil {
			return fmt.Errorf("write record %d: %w", tx, err)
		}
		if tx+1 > records {
			break
		}
		if _, err := fmt.Fprintf(bw, "withdrawal,  %d,  %d,  243.2312\n", client, tx+1); err != nil {
			return fmt.Errorf("write record %d: %w", tx+1, err)
		}
	}

	return bw.Flush()
}

// WriteFile generates a transaction file at path, creating or truncating
// it.
func WriteFile(path string, records int, allClients bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := Write(f, records, allClients); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
