package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"finboard/internal/core"
)

// WriteCSV writes a header line followed by one line per transaction.
func WriteCSV(w io.Writer, txs []core.Transaction) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, tx := range txs {
		if err := writer.Write(FromTransaction(tx).Strings()); err != nil {
			return fmt.Errorf("write csv row %s: %w", tx.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ReadCSV parses rows written by WriteCSV. The header is required and its
// columns may appear in any order.
func ReadCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Row{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range Header {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", name)
		}
	}

	rows := make([]Row, 0)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rows = append(rows, Row{
			Date:        rec[idx["date"]],
			Description: rec[idx["description"]],
			Category:    rec[idx["category"]],
			Type:        rec[idx["type"]],
			Amount:      rec[idx["amount"]],
		})
	}
	return rows, nil
}
