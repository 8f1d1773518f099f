package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/arbitrage"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/eth"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/fetcher"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/report"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/storage"
)

// multipath runs the graph-based monitor: SPFA negative-cycle detection over
// every tracked pool, parallel evaluation, strategy-based selection.
func main() {
	report.PrintBanner("Mantle Multi-Path Arbitrage Monitor")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.PrintSummary()

	strategy := arbitrage.ParseStrategy(cfg.Strategy)
	fmt.Printf("🎛️  Selection strategy: %s\n", strategy)

	client, err := eth.NewClient(cfg.RPCURL)
	if err != nil {
		log.Fatalf("rpc: %v", err)
	}
	defer client.Close()

	batch, err := fetcher.NewBatchFetcher(client, cfg.MaxRetries)
	if err != nil {
		log.Fatalf("fetcher: %v", err)
	}

	csvWriter, err := report.NewCSVWriter(cfg.CSVFilePath)
	if err != nil {
		log.Fatalf("csv: %v", err)
	}

	history, err := storage.NewHistoryDB(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("history: %v", err)
	}
	defer history.Close()

	reporter, err := report.NewReporter(cfg.Reporter, cfg.ReportFilePath)
	if err != nil {
		log.Fatalf("reporter: %v", err)
	}

	analyzer := arbitrage.NewAnalyzer(dex.WMNT(), cfg)
	protocol := dex.NewMoeProtocol()

	// a pool selection file widens the universe beyond the three known pools
	if _, err := os.Stat(cfg.PoolsCSVPath); err == nil {
		loaded, err := analyzer.LoadPoolsFromCSV(cfg.PoolsCSVPath)
		if err != nil {
			log.Fatalf("load pools: %v", err)
		}
		fmt.Printf("📂 Loaded %d pools from %s\n", loaded, cfg.PoolsCSVPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache := market.NewReservesCache()
	ticker := time.NewTicker(cfg.BlockTime)
	defer ticker.Stop()

	for {
		analyzeOnce(ctx, cfg, analyzer, protocol, batch, cache, strategy, reporter, csvWriter, history)

		select {
		case <-ctx.Done():
			log.Println("shutting down")
			return
		case <-ticker.C:
		}
	}
}

func analyzeOnce(
	ctx context.Context,
	cfg *config.Config,
	analyzer *arbitrage.Analyzer,
	protocol *dex.MoeProtocol,
	batch *fetcher.BatchFetcher,
	cache *market.ReservesCache,
	strategy arbitrage.Strategy,
	reporter report.Reporter,
	csvWriter *report.CSVWriter,
	history *storage.HistoryDB,
) {
	snapshots, blockNumber, err := batch.FetchAll(ctx, protocol.PoolAddresses())
	if err != nil {
		log.Printf("fetch: %v", err)
		return
	}
	if len(snapshots) == 0 {
		log.Printf("no pools answered at block %d", blockNumber)
		return
	}

	if !cache.HasChanged(blockNumber) {
		return
	}
	if !cache.ReservesChanged(snapshots) {
		cache.UpdateBlockNumber(blockNumber)
		return
	}

	reporter.ReportScanStart(blockNumber)

	ranked := fetcher.AnalyzeLiquidity(snapshots)
	deep := fetcher.FilterByMinLiquidity(ranked, cfg.MinPoolDepth)
	for _, pool := range deep {
		fmt.Printf("   💧 %s depth %.2f\n", pool.Pair, pool.Score)
	}
	if len(deep) < len(ranked) {
		fmt.Printf("   🚱 %d pool(s) below depth %.2f excluded\n", len(ranked)-len(deep), cfg.MinPoolDepth)
		kept := make(map[common.Address]*market.PoolReserves, len(deep))
		for _, pool := range deep {
			kept[pool.Pool] = snapshots[pool.Pool]
		}
		snapshots = kept
	}

	// mutation phase: graph updates happen before any analysis reads
	for addr, snapshot := range snapshots {
		if _, seen := cache.Get(addr); seen {
			continue
		}
		analyzer.AddPool(snapshot)
	}
	analyzer.UpdatePoolReserves(snapshots)
	for addr, snapshot := range snapshots {
		cache.Update(addr, snapshot)
	}
	cache.UpdateBlockNumber(blockNumber)

	nodes, edges := analyzer.GraphStats()
	fmt.Printf("🕸️  Graph: %d tokens, %d directed edges\n", nodes, edges)

	result := analyzer.FindAllOpportunities()
	reporter.ReportResult(result)

	if err := history.RecordBatch(blockNumber, result.Opportunities); err != nil {
		log.Printf("history: %v", err)
	}

	best := arbitrage.SelectBest(result.Opportunities, strategy)
	if best == nil {
		reporter.ReportNoOpportunity()
		return
	}

	reporter.ReportOpportunity(best)
	if err := csvWriter.Append(blockNumber, best); err != nil {
		log.Printf("csv: %v", err)
	}
}
