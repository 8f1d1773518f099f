package market

import (
	"github.com/ethereum/go-ethereum/common"
)

// ReservesCache keeps the last seen reserves per pool so the monitor only
// reruns analysis when something actually moved.
type ReservesCache struct {
	data      map[common.Address]*PoolReserves
	lastBlock uint64
}

func NewReservesCache() *ReservesCache {
	return &ReservesCache{data: make(map[common.Address]*PoolReserves)}
}

func (c *ReservesCache) Get(address common.Address) (*PoolReserves, bool) {
	r, ok := c.data[address]
	return r, ok
}

// Update stores fresh reserves and advances the last-block watermark.
func (c *ReservesCache) Update(address common.Address, reserves *PoolReserves) {
	c.lastBlock = reserves.BlockNumber
	c.data[address] = reserves
}

// HasChanged reports whether the chain advanced past the cached block.
func (c *ReservesCache) HasChanged(blockNumber uint64) bool {
	return blockNumber > c.lastBlock
}

// ReservesChanged compares a fresh snapshot set against the cache.
func (c *ReservesCache) ReservesChanged(fresh map[common.Address]*PoolReserves) bool {
	if len(c.data) != len(fresh) {
		return true
	}
	for addr, next := range fresh {
		cached, ok := c.data[addr]
		if !ok {
			return true
		}
		if !cached.ReserveA.Eq(next.ReserveA) || !cached.ReserveB.Eq(next.ReserveB) {
			return true
		}
	}
	return false
}

// UpdateBlockNumber advances the watermark when the block moved but reserves
// did not.
func (c *ReservesCache) UpdateBlockNumber(blockNumber uint64) {
	c.lastBlock = blockNumber
}

func (c *ReservesCache) LastBlock() uint64 {
	return c.lastBlock
}

func (c *ReservesCache) Clear() {
	c.data = make(map[common.Address]*PoolReserves)
	c.lastBlock = 0
}

func (c *ReservesCache) All() map[common.Address]*PoolReserves {
	return c.data
}
