package arbitrage

import (
	"github.com/holiman/uint256"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

const ternarySearchMethod = "ternary_search"

// PreparePoolsForSearch orients the three pools of the fixed
// WMNT -> MOE -> JOE -> WMNT route into hop order, converting wei reserves to
// token units. False when any pool doesn't actually trade its expected pair.
func PreparePoolsForSearch(moeWmnt, joeMoe, joeWmnt *market.PoolReserves, wmnt, moe, joe market.Token) ([]Hop, bool) {
	legs := []struct {
		pool *market.PoolReserves
		in   market.Token
		out  market.Token
	}{
		{moeWmnt, wmnt, moe},
		{joeMoe, moe, joe},
		{joeWmnt, joe, wmnt},
	}

	hops := make([]Hop, 0, len(legs))
	for _, leg := range legs {
		reserveIn, reserveOut, ok := leg.pool.ReservesForPair(leg.in, leg.out)
		if !ok {
			return nil, false
		}
		hops = append(hops, Hop{
			ReserveIn:  graph.WeiToTokens(reserveIn),
			ReserveOut: graph.WeiToTokens(reserveOut),
		})
	}
	return hops, true
}

// FindOptimalTriangular runs the ternary search over the fixed triangular
// route and prices in 3-hop gas. This is the original single-route detector;
// the graph analyzer supersedes it but the monitor still runs it as a
// cross-check. The returned opportunity carries no Path.
func FindOptimalTriangular(moeWmnt, joeMoe, joeWmnt *market.PoolReserves, wmnt, moe, joe market.Token, cfg *config.Config) (*market.ArbitrageOpportunity, bool) {
	hops, ok := PreparePoolsForSearch(moeWmnt, joeMoe, joeWmnt, wmnt, moe, joe)
	if !ok {
		return nil, false
	}

	optimalInput, grossProfit := FindBestInput(hops, cfg.DexFee, cfg.TernarySearchIterations)

	gasCost := cfg.Gas.CostFor(len(hops))
	netProfit := grossProfit - gasCost

	profitPct := 0.0
	if optimalInput > 0 {
		profitPct = netProfit / optimalInput * 100.0
	}

	return &market.ArbitrageOpportunity{
		OptimalInput:     optimalInput,
		FinalOutput:      optimalInput + grossProfit,
		GrossProfit:      grossProfit,
		NetProfit:        netProfit,
		ProfitPercentage: profitPct,
		SearchMethod:     ternarySearchMethod,
	}, true
}

// SimulateTriangularWei replays the route with exact integer math at a given
// input, the quote an on-chain router would produce. Zero means some leg is
// untradeable.
func SimulateTriangularWei(inputWei *uint256.Int, moeWmnt, joeMoe, joeWmnt *market.PoolReserves, wmnt, moe, joe market.Token) *uint256.Int {
	legs := []struct {
		pool *market.PoolReserves
		in   market.Token
		out  market.Token
	}{
		{moeWmnt, wmnt, moe},
		{joeMoe, moe, joe},
		{joeWmnt, joe, wmnt},
	}

	amount := inputWei
	for _, leg := range legs {
		reserveIn, reserveOut, ok := leg.pool.ReservesForPair(leg.in, leg.out)
		if !ok {
			return uint256.NewInt(0)
		}
		amount = GetAmountOut(amount, reserveIn, reserveOut)
		if amount.IsZero() {
			return uint256.NewInt(0)
		}
	}
	return amount
}
