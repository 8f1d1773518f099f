package report

import (
	"fmt"
	"log"
	"os"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// Reporter receives analysis results as they happen. The console reporter is
// the default; a file reporter mirrors the same lines into a log file.
type Reporter interface {
	ReportScanStart(blockNumber uint64)
	ReportOpportunity(opp *market.ArbitrageOpportunity)
	ReportResult(result *market.MultiPathResult)
	ReportNoOpportunity()
}

// NewReporter builds a reporter by config name. Unknown names fall back to
// the console.
func NewReporter(kind, filePath string) (Reporter, error) {
	switch kind {
	case "file":
		f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("open report file: %w", err)
		}
		return &fileReporter{logger: log.New(f, "", log.LstdFlags)}, nil
	default:
		return &ConsoleReporter{}, nil
	}
}

type fileReporter struct {
	logger *log.Logger
}

func (r *fileReporter) ReportScanStart(blockNumber uint64) {
	r.logger.Printf("scan block=%d", blockNumber)
}

func (r *fileReporter) ReportOpportunity(opp *market.ArbitrageOpportunity) {
	path := "WMNT -> MOE -> JOE -> WMNT"
	if opp.Path != nil {
		path = opp.Path.Description()
	}
	r.logger.Printf("opportunity path=%q input=%.6f net=%.6f pct=%.4f method=%s",
		path, opp.OptimalInput, opp.NetProfit, opp.ProfitPercentage, opp.SearchMethod)
}

func (r *fileReporter) ReportResult(result *market.MultiPathResult) {
	r.logger.Printf("analysis done paths=%d profitable=%d elapsed=%s",
		len(result.Opportunities), result.ProfitableCount(), result.AnalysisTime)
}

func (r *fileReporter) ReportNoOpportunity() {
	r.logger.Printf("no profitable opportunity")
}
