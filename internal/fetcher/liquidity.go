package fetcher

import (
	"fmt"
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// LiquiditySnapshot summarizes one pool's depth in token units. Score is the
// geometric mean of the two reserves, which compares pools without picking a
// quote side.
type LiquiditySnapshot struct {
	Pool     common.Address
	Pair     string
	ReserveA float64
	ReserveB float64
	Score    float64
}

// AnalyzeLiquidity ranks pool snapshots by depth, deepest first.
func AnalyzeLiquidity(snapshots map[common.Address]*market.PoolReserves) []LiquiditySnapshot {
	out := make([]LiquiditySnapshot, 0, len(snapshots))
	for pool, snapshot := range snapshots {
		reserveA := graph.WeiToTokens(snapshot.ReserveA)
		reserveB := graph.WeiToTokens(snapshot.ReserveB)
		out = append(out, LiquiditySnapshot{
			Pool:     pool,
			Pair:     fmt.Sprintf("%s-%s", snapshot.TokenA.Symbol, snapshot.TokenB.Symbol),
			ReserveA: reserveA,
			ReserveB: reserveB,
			Score:    math.Sqrt(reserveA * reserveB),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// FilterByMinLiquidity drops pools too shallow to route through. Thin pools
// produce cycles whose optimum is dominated by slippage and gas.
func FilterByMinLiquidity(snapshots []LiquiditySnapshot, minScore float64) []LiquiditySnapshot {
	out := make([]LiquiditySnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Score >= minScore {
			out = append(out, s)
		}
	}
	return out
}
