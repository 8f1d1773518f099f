package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

func oppWithHops(netProfit float64, hops int) market.ArbitrageOpportunity {
	tokens := make([]market.Token, hops+1)
	return market.ArbitrageOpportunity{
		NetProfit:        netProfit,
		ProfitPercentage: netProfit, // keep percent ordering aligned unless overridden
		Path:             market.NewArbitragePath(tokens, nil),
	}
}

func TestParseStrategy(t *testing.T) {
	assert.Equal(t, MaxProfitPercent, ParseStrategy("max_percent"))
	assert.Equal(t, MinRisk, ParseStrategy("min_risk"))
	assert.Equal(t, BalancedRiskReturn, ParseStrategy("balanced"))
	assert.Equal(t, MaxProfit, ParseStrategy("max_profit"))
	assert.Equal(t, MaxProfit, ParseStrategy("nonsense"))
}

func TestSelectBestMaxProfit(t *testing.T) {
	opps := []market.ArbitrageOpportunity{
		oppWithHops(4.0, 3),
		oppWithHops(8.0, 3),
	}
	best := SelectBest(opps, MaxProfit)
	require.NotNil(t, best)
	assert.Equal(t, 8.0, best.NetProfit)
}

func TestSelectBestNothingProfitable(t *testing.T) {
	opps := []market.ArbitrageOpportunity{
		oppWithHops(-1.0, 3),
		oppWithHops(0.0, 3),
	}
	assert.Nil(t, SelectBest(opps, MaxProfit))
	assert.Nil(t, SelectBest(nil, MaxProfit))
}

func TestSelectBestMinRisk(t *testing.T) {
	opps := []market.ArbitrageOpportunity{
		oppWithHops(10.0, 4),
		oppWithHops(1.0, 3),
	}
	best := SelectBest(opps, MinRisk)
	require.NotNil(t, best)
	assert.Equal(t, 3, best.HopCount())
}

func TestSelectBestBalancedFavorsFewerHopsAtEqualProfit(t *testing.T) {
	opps := []market.ArbitrageOpportunity{
		oppWithHops(5.0, 4),
		oppWithHops(5.0, 3),
	}
	best := SelectBest(opps, BalancedRiskReturn)
	require.NotNil(t, best)
	assert.Equal(t, 3, best.HopCount())
}

func TestSelectBestMaxPercent(t *testing.T) {
	big := oppWithHops(8.0, 3)
	big.ProfitPercentage = 0.5
	small := oppWithHops(2.0, 3)
	small.ProfitPercentage = 4.0

	best := SelectBest([]market.ArbitrageOpportunity{big, small}, MaxProfitPercent)
	require.NotNil(t, best)
	assert.Equal(t, 2.0, best.NetProfit)
}
