package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

var csvHeader = []string{
	"Timestamp",
	"Block Number",
	"Path",
	"Hops",
	"Search Method",
	"Optimal Input (MNT)",
	"Final Output (MNT)",
	"Gross Profit (MNT)",
	"Net Profit (MNT)",
	"Profit (%)",
}

// CSVWriter appends opportunity rows to a CSV file. The header is written
// once when the file is created; appending to an existing file preserves it.
type CSVWriter struct {
	path string
}

func NewCSVWriter(path string) (*CSVWriter, error) {
	w := &CSVWriter{path: path}
	if err := w.ensureHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *CSVWriter) ensureHeader() error {
	if info, err := os.Stat(w.path); err == nil && info.Size() > 0 {
		return nil
	}
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("create csv %s: %w", w.path, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// Append writes one opportunity row.
func (w *CSVWriter) Append(blockNumber uint64, opp *market.ArbitrageOpportunity) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open csv %s: %w", w.path, err)
	}
	defer f.Close()

	path := "WMNT -> MOE -> JOE -> WMNT"
	hops := 3
	if opp.Path != nil {
		path = opp.Path.Description()
		hops = opp.Path.HopCount()
	}

	writer := csv.NewWriter(f)
	if err := writer.Write([]string{
		time.Now().UTC().Format(time.RFC3339),
		strconv.FormatUint(blockNumber, 10),
		path,
		strconv.Itoa(hops),
		opp.SearchMethod,
		strconv.FormatFloat(opp.OptimalInput, 'f', 6, 64),
		strconv.FormatFloat(opp.FinalOutput, 'f', 6, 64),
		strconv.FormatFloat(opp.GrossProfit, 'f', 6, 64),
		strconv.FormatFloat(opp.NetProfit, 'f', 6, 64),
		strconv.FormatFloat(opp.ProfitPercentage, 'f', 4, 64),
	}); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}
