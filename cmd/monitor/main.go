package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/arbitrage"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/eth"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/fetcher"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/report"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/storage"
)

// monitor polls the three Merchant Moe pools every block and runs the ternary
// search over the fixed WMNT -> MOE -> JOE -> WMNT route.

type monitor struct {
	cfg       *config.Config
	protocol  *dex.MoeProtocol
	batch     *fetcher.BatchFetcher
	cache     *market.ReservesCache
	reporter  report.Reporter
	csvWriter *report.CSVWriter
	history   *storage.HistoryDB
}

func main() {
	report.PrintBanner("Mantle Triangular Arbitrage Monitor")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.PrintSummary()

	protocol := dex.NewMoeProtocol()
	if err := protocol.ValidateTriangularSetup(); err != nil {
		log.Fatalf("protocol setup: %v", err)
	}

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

	m := &monitor{
		cfg:       cfg,
		protocol:  protocol,
		batch:     batch,
		cache:     market.NewReservesCache(),
		reporter:  reporter,
		csvWriter: csvWriter,
		history:   history,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.BlockTime)
	defer ticker.Stop()

	for {
		m.scanOnce(ctx)

		select {
		case <-ctx.Done():
			log.Println("shutting down")
			return
		case <-ticker.C:
		}
	}
}

func (m *monitor) scanOnce(ctx context.Context) {
	snapshots, blockNumber, err := m.batch.FetchAll(ctx, m.protocol.PoolAddresses())
	if err != nil {
		log.Printf("fetch: %v", err)
		return
	}

	moeWmntAddr, joeMoeAddr, joeWmntAddr := m.protocol.MainTriangularPools()
	moeWmnt, ok1 := snapshots[moeWmntAddr]
	joeMoe, ok2 := snapshots[joeMoeAddr]
	joeWmnt, ok3 := snapshots[joeWmntAddr]
	if !ok1 || !ok2 || !ok3 {
		log.Printf("incomplete snapshot at block %d, skipping", blockNumber)
		return
	}

	if !m.cache.HasChanged(blockNumber) {
		return
	}
	if !m.cache.ReservesChanged(snapshots) {
		m.cache.UpdateBlockNumber(blockNumber)
		return
	}
	m.reporter.ReportScanStart(blockNumber)

	report.PrintPoolReserves("MOE-WMNT", moeWmnt)
	report.PrintPoolReserves("JOE-MOE", joeMoe)
	report.PrintPoolReserves("JOE-WMNT", joeWmnt)

	for addr, snapshot := range snapshots {
		m.cache.Update(addr, snapshot)
	}
	m.cache.UpdateBlockNumber(blockNumber)

	opp, ok := arbitrage.FindOptimalTriangular(
		moeWmnt, joeMoe, joeWmnt,
		dex.WMNT(), dex.MOE(), dex.JOE(),
		m.cfg,
	)
	if !ok {
		log.Printf("pool orientation mismatch at block %d", blockNumber)
		return
	}

	if err := m.history.Record(blockNumber, opp); err != nil {
		log.Printf("history: %v", err)
	}

	if !opp.IsProfitable() {
		m.reporter.ReportNoOpportunity()
		return
	}

	m.reporter.ReportOpportunity(opp)

	// integer cross-check at the float optimum before trusting the number
	inputWei := graph.TokensToWei(opp.OptimalInput)
	outWei := arbitrage.SimulateTriangularWei(inputWei, moeWmnt, joeMoe, joeWmnt, dex.WMNT(), dex.MOE(), dex.JOE())
	fmt.Printf("   🧮 Integer quote: %s wei in -> %s wei out\n", inputWei.Dec(), outWei.Dec())

	if err := m.csvWriter.Append(blockNumber, opp); err != nil {
		log.Printf("csv: %v", err)
	}
}
