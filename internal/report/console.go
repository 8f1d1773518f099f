package report

import (
	"fmt"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// ConsoleReporter prints human-facing monitor output.
type ConsoleReporter struct{}

func (r *ConsoleReporter) ReportScanStart(blockNumber uint64) {
	fmt.Printf("\n📊 Block %d\n", blockNumber)
}

func (r *ConsoleReporter) ReportOpportunity(opp *market.ArbitrageOpportunity) {
	path := "WMNT -> MOE -> JOE -> WMNT"
	if opp.Path != nil {
		path = opp.Path.Description()
	}
	fmt.Printf("🎯 ARBITRAGE OPPORTUNITY FOUND!\n")
	fmt.Printf("   Path: %s\n", path)
	fmt.Printf("   💰 Optimal input: %.6f MNT\n", opp.OptimalInput)
	fmt.Printf("   📈 Final output: %.6f MNT\n", opp.FinalOutput)
	fmt.Printf("   💵 Gross profit: %.6f MNT\n", opp.GrossProfit)
	fmt.Printf("   ⛽ Net profit: %.6f MNT (%.4f%%)\n", opp.NetProfit, opp.ProfitPercentage)
	fmt.Printf("   🔍 Method: %s\n", opp.SearchMethod)
}

func (r *ConsoleReporter) ReportResult(result *market.MultiPathResult) {
	fmt.Printf("🔄 Analyzed %d paths in %s, %d profitable\n",
		len(result.Opportunities), result.AnalysisTime, result.ProfitableCount())
}

func (r *ConsoleReporter) ReportNoOpportunity() {
	fmt.Println("😴 No profitable opportunity this block")
}

// PrintPoolReserves dumps one pool snapshot in token units.
func PrintPoolReserves(name string, reserves *market.PoolReserves) {
	fmt.Printf("   🏊 %s: %.4f %s / %.4f %s (block %d)\n",
		name,
		graph.WeiToTokens(reserves.ReserveA), reserves.TokenA.Symbol,
		graph.WeiToTokens(reserves.ReserveB), reserves.TokenB.Symbol,
		reserves.BlockNumber)
}

// PrintBanner prints the startup banner shared by both monitors.
func PrintBanner(title string) {
	fmt.Println("============================================================")
	fmt.Printf("🚀 %s\n", title)
	fmt.Println("============================================================")
}
