package arbitrage

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profitableHops() []Hop {
	return []Hop{
		{ReserveIn: 1000, ReserveOut: 900},
		{ReserveIn: 1000, ReserveOut: 1100},
		{ReserveIn: 1000, ReserveOut: 1200},
	}
}

func TestSwapFeeErosion(t *testing.T) {
	// equal reserves: output strictly below input for any positive fee
	out := Swap(1000, 1000, 100, 0.003)
	assert.Greater(t, out, 0.0)
	assert.Less(t, out, 100.0)
}

func TestSwapDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Swap(1000, 1000, 0, 0.003))
	assert.Equal(t, 0.0, Swap(0, 1000, 100, 0.003))
	assert.Equal(t, 0.0, Swap(1000, 0, 100, 0.003))
}

func TestPathProfitBalancedCycleIsLossy(t *testing.T) {
	hops := []Hop{
		{ReserveIn: 1000, ReserveOut: 1000},
		{ReserveIn: 1000, ReserveOut: 1000},
		{ReserveIn: 1000, ReserveOut: 1000},
	}
	profit := PathProfit(10, hops, 0.003)
	assert.Less(t, profit, 0.0)
}

func TestPathProfitEmptyHops(t *testing.T) {
	assert.Equal(t, -1.0, PathProfit(10, nil, 0.003))
}

func TestFindBestInputProfitableScenario(t *testing.T) {
	input, profit := FindBestInput(profitableHops(), 0.003, 100)

	assert.Greater(t, profit, 0.0)
	assert.Greater(t, input, 0.0)
	assert.LessOrEqual(t, input, 999.0)
}

func TestFindBestInputDeterministic(t *testing.T) {
	input1, profit1 := FindBestInput(profitableHops(), 0.003, 100)
	input2, profit2 := FindBestInput(profitableHops(), 0.003, 100)

	assert.Equal(t, input1, input2)
	assert.Equal(t, profit1, profit2)
}

func TestFindBestInputEmptyHops(t *testing.T) {
	input, profit := FindBestInput(nil, 0.003, 100)
	assert.Equal(t, 0.0, input)
	assert.Equal(t, -1.0, profit)
}

func TestFindBestInputFourHops(t *testing.T) {
	hops := append(profitableHops(), Hop{ReserveIn: 1000, ReserveOut: 1050})
	input, profit := FindBestInput(hops, 0.003, 100)

	// the fourth skewed pool keeps the route profitable
	assert.Greater(t, profit, 0.0)
	assert.Greater(t, input, 0.0)
}

func TestGetAmountOut(t *testing.T) {
	out := GetAmountOut(
		uint256.NewInt(1000),
		uint256.NewInt(1_000_000),
		uint256.NewInt(1_000_000),
	)
	require.NotNil(t, out)
	// 1000 * 997 * 1e6 / (1e6 * 1000 + 1000*997) = 996.00...
	assert.Equal(t, uint64(996), out.Uint64())
}

func TestGetAmountOutZeroInputs(t *testing.T) {
	assert.True(t, GetAmountOut(nil, uint256.NewInt(1), uint256.NewInt(1)).IsZero())
	assert.True(t, GetAmountOut(uint256.NewInt(0), uint256.NewInt(1), uint256.NewInt(1)).IsZero())
	assert.True(t, GetAmountOut(uint256.NewInt(1), uint256.NewInt(0), uint256.NewInt(1)).IsZero())
}
