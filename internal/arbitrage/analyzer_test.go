package arbitrage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/dex"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/graph"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

func testConfig() *config.Config {
	return &config.Config{
		DexFee:                  0.003,
		TernarySearchIterations: 100,
		MaxHops:                 4,
		Workers:                 4,
		GasPriceGwei:            0.02,
		Gas:                     config.NewGasSchedule(0.02),
	}
}

func moeWmntSnapshot(wmntReserve, moeReserve float64) *market.PoolReserves {
	return market.NewPoolReserves(
		dex.WMNT(), graph.TokensToWei(wmntReserve),
		dex.MOE(), graph.TokensToWei(moeReserve),
		1, dex.MoeWmntPool,
	)
}

func seedTriangle(a *Analyzer) {
	a.AddPool(moeWmntSnapshot(1000, 900))
	a.AddPool(market.NewPoolReserves(
		dex.MOE(), graph.TokensToWei(1000),
		dex.JOE(), graph.TokensToWei(1100),
		1, dex.JoeMoePool,
	))
	a.AddPool(market.NewPoolReserves(
		dex.JOE(), graph.TokensToWei(1000),
		dex.WMNT(), graph.TokensToWei(1200),
		1, dex.JoeWmntPool,
	))
}

func TestAnalyzerEndToEnd(t *testing.T) {
	a := NewAnalyzer(dex.WMNT(), testConfig())
	seedTriangle(a)

	nodes, edges := a.GraphStats()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 6, edges)

	result := a.FindAllOpportunities()
	require.NotEmpty(t, result.Opportunities)

	for i := range result.Opportunities {
		opp := &result.Opportunities[i]
		assert.Equal(t, "multi_path_ternary", opp.SearchMethod)
		require.NotNil(t, opp.Path)
		assert.True(t, opp.Path.Tokens[0].Equal(dex.WMNT()))
		assert.True(t, opp.Path.Tokens[len(opp.Path.Tokens)-1].Equal(dex.WMNT()))
		assert.GreaterOrEqual(t, opp.OptimalInput, 0.0)
		assert.LessOrEqual(t, opp.OptimalInput, 999.0)
		assert.InDelta(t, opp.OptimalInput+opp.GrossProfit, opp.FinalOutput, 1e-9)
	}
	assert.Greater(t, result.AnalysisTime.Nanoseconds(), int64(0))
}

func TestAnalyzerGasCostReducesNetProfit(t *testing.T) {
	a := NewAnalyzer(dex.WMNT(), testConfig())
	seedTriangle(a)

	result := a.FindAllOpportunities()
	require.NotEmpty(t, result.Opportunities)

	opp := result.Opportunities[0]
	gasCost := testConfig().Gas.CostFor(opp.Path.HopCount())
	assert.InDelta(t, opp.GrossProfit-gasCost, opp.NetProfit, 1e-12)
}

func TestAnalyzerUpdateRefreshesGraph(t *testing.T) {
	a := NewAnalyzer(dex.WMNT(), testConfig())
	seedTriangle(a)

	a.UpdatePoolReserves(map[common.Address]*market.PoolReserves{
		dex.MoeWmntPool: moeWmntSnapshot(2000, 1800),
	})

	pool, ok := a.Graph().GetPoolInfo(dex.WMNT(), dex.MOE())
	require.True(t, ok)
	assert.InDelta(t, 2000, pool.ReservesA, 1e-6)
}

func TestLoadPoolsFromCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "selected.csv")
	content := "Protocol,Pair Name,Pair Address,TokenA Reserves,TokenB Reserves\n" +
		"MOE,WMNT-MOE,0x763868612858358f62b05691dB82Ad35a9b3E110,1000,900\n" +
		"MOE,MOE-JOE,0xb670D2B452D0Ecc468cccFD532482d45dDdDe2a1,1000,1100\n" +
		"MOE,JOE-WMNT,0xEFC38C1B0d60725B824EBeE8D431aBFBF12BC953,1000,1200\n" +
		"MOE,FOO-BAR,0x0000000000000000000000000000000000000001,1000,1000\n" +
		"MOE,WMNT-MOE,0x0000000000000000000000000000000000000002,bogus,1000\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0644))

	a := NewAnalyzer(dex.WMNT(), testConfig())
	loaded, err := a.LoadPoolsFromCSV(csvPath)
	require.NoError(t, err)

	// unknown tokens and bad numbers are skipped
	assert.Equal(t, 3, loaded)

	nodes, edges := a.GraphStats()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 6, edges)
}

func TestLoadPoolsFromCSVMissingFile(t *testing.T) {
	a := NewAnalyzer(dex.WMNT(), testConfig())
	_, err := a.LoadPoolsFromCSV(filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}
