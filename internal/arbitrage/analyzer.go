package arbitrage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

const multiPathSearchMethod = "multi_path_ternary"

// Analyzer owns the token graph and runs the full pipeline: negative-cycle
// detection, per-cycle input optimization, gas-adjusted profit scoring.
//
// Graph mutation (AddPool, UpdatePoolReserves) and analysis
// (FindAllOpportunities) must not overlap; the monitor loop alternates the
// two phases, so the analyzer itself carries no lock.
type Analyzer struct {
	graph      *graph.TokenGraph
	base       market.Token
	dexFee     float64
	iterations int
	workers    int
	maxHops    int
	gas        config.GasSchedule
}

func NewAnalyzer(base market.Token, cfg *config.Config) *Analyzer {
	return &Analyzer{
		graph:      graph.NewTokenGraph(base),
		base:       base,
		dexFee:     cfg.DexFee,
		iterations: cfg.TernarySearchIterations,
		workers:    cfg.Workers,
		maxHops:    cfg.MaxHops,
		gas:        cfg.Gas,
	}
}

func (a *Analyzer) Graph() *graph.TokenGraph {
	return a.graph
}

// AddPool registers a pool snapshot in the graph.
func (a *Analyzer) AddPool(reserves *market.PoolReserves) {
	a.graph.AddPool(reserves, a.dexFee)
}

// UpdatePoolReserves refreshes edge weights from fresh snapshots. Pools whose
// tokens the graph has never seen are ignored here and picked up by the next
// AddPool.
func (a *Analyzer) UpdatePoolReserves(snapshots map[common.Address]*market.PoolReserves) {
	for _, snapshot := range snapshots {
		a.graph.UpdatePool(snapshot)
	}
}

// LoadPoolsFromCSV seeds the graph from a pool selection file with rows of
// the form
//
//	Protocol,Pair Name,Pair Address,TokenA Reserves,TokenB Reserves
//
// where reserves are in whole token units and the pair name is
// "SYMBOLA-SYMBOLB". Rows naming unknown tokens or carrying unparseable
// reserves are skipped, not fatal. Returns the number of pools loaded.
func (a *Analyzer) LoadPoolsFromCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pools csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read pools csv: %w", err)
	}

	loaded := 0
	for i, record := range records {
		if i == 0 {
			continue // header
		}
		if len(record) < 5 {
			continue
		}

		symbols := strings.SplitN(record[1], "-", 2)
		if len(symbols) != 2 {
			continue
		}
		tokenA, okA := dex.TokenBySymbol(strings.TrimSpace(symbols[0]))
		tokenB, okB := dex.TokenBySymbol(strings.TrimSpace(symbols[1]))
		if !okA || !okB {
			continue
		}

		reserveA, errA := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		reserveB, errB := strconv.ParseFloat(strings.TrimSpace(record[4]), 64)
		if errA != nil || errB != nil || reserveA <= 0 || reserveB <= 0 {
			continue
		}

		pool := market.NewPoolReserves(
			tokenA, graph.TokensToWei(reserveA),
			tokenB, graph.TokensToWei(reserveB),
			0, common.HexToAddress(strings.TrimSpace(record[2])),
		)
		a.AddPool(pool)
		loaded++
	}
	return loaded, nil
}

// FindAllOpportunities runs one analysis pass: detect every negative cycle
// reachable from the base token, then evaluate the candidates on a worker
// pool. Result order follows evaluation completion, not detection order.
func (a *Analyzer) FindAllOpportunities() *market.MultiPathResult {
	start := time.Now()

	cycles := a.graph.FindArbitrageCycles(a.maxHops)
	if len(cycles) == 0 {
		return market.NewMultiPathResult(nil, time.Since(start))
	}

	jobs := make(chan *market.ArbitragePath)
	results := make(chan market.ArbitrageOpportunity, len(cycles))

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if opp, ok := a.AnalyzeCycle(path); ok {
					results <- opp
				}
			}
		}()
	}

	for _, cycle := range cycles {
		jobs <- cycle
	}
	close(jobs)
	wg.Wait()
	close(results)

	opportunities := make([]market.ArbitrageOpportunity, 0, len(cycles))
	for opp := range results {
		opportunities = append(opportunities, opp)
	}
	return market.NewMultiPathResult(opportunities, time.Since(start))
}

// AnalyzeCycle optimizes the input amount for one candidate path and prices
// in gas. Returns false when the path can't be mapped onto live pools, which
// happens when a pool drained between detection and evaluation.
func (a *Analyzer) AnalyzeCycle(path *market.ArbitragePath) (market.ArbitrageOpportunity, bool) {
	hops, ok := a.cycleToHops(path)
	if !ok {
		return market.ArbitrageOpportunity{}, false
	}

	optimalInput, grossProfit := FindBestInput(hops, a.dexFee, a.iterations)

	gasCost := a.gas.CostFor(len(hops))
	netProfit := grossProfit - gasCost

	profitPct := 0.0
	if optimalInput > 0 {
		profitPct = netProfit / optimalInput * 100.0
	}

	return market.ArbitrageOpportunity{
		OptimalInput:     optimalInput,
		FinalOutput:      optimalInput + grossProfit,
		GrossProfit:      grossProfit,
		NetProfit:        netProfit,
		ProfitPercentage: profitPct,
		SearchMethod:     multiPathSearchMethod,
		Path:             path,
	}, true
}

// cycleToHops orients every hop's pool reserves in trade direction. A path
// that stops short of the base token gets a closing hop appended when a
// direct pool exists.
func (a *Analyzer) cycleToHops(path *market.ArbitragePath) ([]Hop, bool) {
	if len(path.Tokens) < 3 {
		return nil, false
	}

	hops := make([]Hop, 0, len(path.Tokens))
	for i := 0; i < len(path.Tokens)-1; i++ {
		hop, ok := a.hopFor(path.Tokens[i], path.Tokens[i+1])
		if !ok {
			return nil, false
		}
		hops = append(hops, hop)
	}

	last := path.Tokens[len(path.Tokens)-1]
	if !last.Equal(a.base) {
		hop, ok := a.hopFor(last, a.base)
		if !ok {
			return nil, false
		}
		hops = append(hops, hop)
	}
	return hops, true
}

func (a *Analyzer) hopFor(from, to market.Token) (Hop, bool) {
	pool, ok := a.graph.GetPoolInfo(from, to)
	if !ok {
		return Hop{}, false
	}
	if pool.TokenA.Equal(from) {
		return Hop{ReserveIn: pool.ReservesA, ReserveOut: pool.ReservesB}, true
	}
	return Hop{ReserveIn: pool.ReservesB, ReserveOut: pool.ReservesA}, true
}

// GraphStats reports the current graph size for the monitor banner.
func (a *Analyzer) GraphStats() (nodes, edges int) {
	return a.graph.NodeCount(), a.graph.EdgeCount()
}

// AllPaths exposes the raw detected cycles, mainly for diagnostics.
func (a *Analyzer) AllPaths() []*market.ArbitragePath {
	return a.graph.FindArbitrageCycles(a.maxHops)
}
