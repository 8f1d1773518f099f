package market

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func token(symbol string, last byte) Token {
	var addr common.Address
	addr[19] = last
	return Token{Address: addr, Symbol: symbol}
}

func TestTokenEqualByAddress(t *testing.T) {
	a := token("WMNT", 1)
	sameAddr := token("RENAMED", 1)
	other := token("WMNT", 2)

	assert.True(t, a.Equal(sameAddr))
	assert.False(t, a.Equal(other))
	assert.Equal(t, "WMNT", a.String())
}

func TestReservesForPair(t *testing.T) {
	wmnt := token("WMNT", 1)
	moe := token("MOE", 2)
	joe := token("JOE", 3)

	pool := NewPoolReserves(wmnt, uint256.NewInt(1000), moe, uint256.NewInt(900), 7, common.Address{})

	in, out, ok := pool.ReservesForPair(wmnt, moe)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), in.Uint64())
	assert.Equal(t, uint64(900), out.Uint64())

	in, out, ok = pool.ReservesForPair(moe, wmnt)
	require.True(t, ok)
	assert.Equal(t, uint64(900), in.Uint64())
	assert.Equal(t, uint64(1000), out.Uint64())

	_, _, ok = pool.ReservesForPair(wmnt, joe)
	assert.False(t, ok)
}

func TestArbitragePathDescription(t *testing.T) {
	path := NewArbitragePath(
		[]Token{token("WMNT", 1), token("MOE", 2), token("JOE", 3), token("WMNT", 1)},
		[]common.Address{{}, {}, {}},
	)

	assert.Equal(t, 3, path.HopCount())
	assert.Equal(t, "WMNT -> MOE -> JOE -> WMNT", path.Description())

	empty := NewArbitragePath(nil, nil)
	assert.Equal(t, 0, empty.HopCount())
}

func TestArbitrageOpportunityProfitability(t *testing.T) {
	profitable := ArbitrageOpportunity{NetProfit: 0.5}
	breakEven := ArbitrageOpportunity{NetProfit: 0}

	assert.True(t, profitable.IsProfitable())
	assert.False(t, breakEven.IsProfitable())
	assert.Equal(t, 0, profitable.HopCount())
}

func TestMultiPathResultFiltering(t *testing.T) {
	result := NewMultiPathResult([]ArbitrageOpportunity{
		{NetProfit: 1.0},
		{NetProfit: -2.0},
		{NetProfit: 0.25},
	}, 5*time.Millisecond)

	assert.Equal(t, 2, result.ProfitableCount())
	assert.True(t, result.HasProfitable())
	assert.Len(t, result.Profitable(), 2)

	empty := NewMultiPathResult(nil, 0)
	assert.False(t, empty.HasProfitable())
}
