package fetcher

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

func liquiditySnapshots() map[common.Address]*market.PoolReserves {
	return map[common.Address]*market.PoolReserves{
		dex.MoeWmntPool: market.NewPoolReserves(
			dex.MOE(), graph.TokensToWei(900),
			dex.WMNT(), graph.TokensToWei(1000),
			1, dex.MoeWmntPool,
		),
		dex.JoeMoePool: market.NewPoolReserves(
			dex.JOE(), graph.TokensToWei(10),
			dex.MOE(), graph.TokensToWei(12),
			1, dex.JoeMoePool,
		),
	}
}

func TestAnalyzeLiquidityRanksByDepth(t *testing.T) {
	ranked := AnalyzeLiquidity(liquiditySnapshots())
	require.Len(t, ranked, 2)

	assert.Equal(t, dex.MoeWmntPool, ranked[0].Pool)
	assert.Equal(t, "MOE-WMNT", ranked[0].Pair)
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
	assert.InDelta(t, 948.68, ranked[0].Score, 0.01)
}

func TestFilterByMinLiquidity(t *testing.T) {
	ranked := AnalyzeLiquidity(liquiditySnapshots())

	deep := FilterByMinLiquidity(ranked, 100)
	require.Len(t, deep, 1)
	assert.Equal(t, dex.MoeWmntPool, deep[0].Pool)

	assert.Empty(t, FilterByMinLiquidity(ranked, 1e9))
	assert.Len(t, FilterByMinLiquidity(ranked, 0), 2)
}
