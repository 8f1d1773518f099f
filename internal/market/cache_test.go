package market

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cacheSnapshot(block uint64, reserveA, reserveB uint64) *PoolReserves {
	return NewPoolReserves(
		token("WMNT", 1), uint256.NewInt(reserveA),
		token("MOE", 2), uint256.NewInt(reserveB),
		block, common.HexToAddress("0x01"),
	)
}

func TestCacheUpdateAndGet(t *testing.T) {
	cache := NewReservesCache()
	addr := common.HexToAddress("0x01")

	_, ok := cache.Get(addr)
	assert.False(t, ok)

	cache.Update(addr, cacheSnapshot(10, 1000, 900))

	got, ok := cache.Get(addr)
	require.True(t, ok)
	assert.Equal(t, uint64(10), got.BlockNumber)
	assert.Equal(t, uint64(10), cache.LastBlock())
}

func TestCacheHasChangedWatermark(t *testing.T) {
	cache := NewReservesCache()
	cache.Update(common.HexToAddress("0x01"), cacheSnapshot(10, 1000, 900))

	assert.False(t, cache.HasChanged(10))
	assert.False(t, cache.HasChanged(9))
	assert.True(t, cache.HasChanged(11))

	cache.UpdateBlockNumber(12)
	assert.False(t, cache.HasChanged(12))
}

func TestCacheReservesChanged(t *testing.T) {
	cache := NewReservesCache()
	addr := common.HexToAddress("0x01")
	cache.Update(addr, cacheSnapshot(10, 1000, 900))

	same := map[common.Address]*PoolReserves{addr: cacheSnapshot(11, 1000, 900)}
	assert.False(t, cache.ReservesChanged(same))

	moved := map[common.Address]*PoolReserves{addr: cacheSnapshot(11, 1001, 900)}
	assert.True(t, cache.ReservesChanged(moved))

	extra := map[common.Address]*PoolReserves{
		addr:                        cacheSnapshot(11, 1000, 900),
		common.HexToAddress("0x02"): cacheSnapshot(11, 5, 5),
	}
	assert.True(t, cache.ReservesChanged(extra))
}

func TestCacheClear(t *testing.T) {
	cache := NewReservesCache()
	cache.Update(common.HexToAddress("0x01"), cacheSnapshot(10, 1000, 900))

	cache.Clear()
	assert.Empty(t, cache.All())
	assert.Equal(t, uint64(0), cache.LastBlock())
}
