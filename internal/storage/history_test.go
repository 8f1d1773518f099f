package storage

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()
	db, err := NewHistoryDB(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func multiPathOpportunity(netProfit float64) *market.ArbitrageOpportunity {
	var a, b common.Address
	a[19] = 1
	b[19] = 2
	return &market.ArbitrageOpportunity{
		OptimalInput:     42.5,
		FinalOutput:      42.5 + netProfit,
		GrossProfit:      netProfit + 0.01,
		NetProfit:        netProfit,
		ProfitPercentage: netProfit / 42.5 * 100,
		SearchMethod:     "multi_path_ternary",
		Path: market.NewArbitragePath(
			[]market.Token{
				{Address: a, Symbol: "WMNT"},
				{Address: b, Symbol: "MOE"},
				{Address: a, Symbol: "WMNT"},
			},
			[]common.Address{a, b},
		),
	}
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Record(100, multiPathOpportunity(1.5)))
	require.NoError(t, db.Record(101, multiPathOpportunity(-0.2)))

	recent, err := db.Recent(10)
	require.NoError(t, err)
	require.Len(t, recent, 2)

	// newest first
	assert.Equal(t, uint64(101), recent[0].BlockNumber)
	assert.Equal(t, "WMNT -> MOE -> WMNT", recent[0].Path)
	assert.Equal(t, 2, recent[0].HopCount)
	assert.InDelta(t, -0.2, recent[0].NetProfit, 1e-9)
}

func TestRecordLegacyOpportunity(t *testing.T) {
	db := openTestDB(t)

	opp := multiPathOpportunity(0.5)
	opp.Path = nil
	opp.SearchMethod = "ternary_search"
	require.NoError(t, db.Record(7, opp))

	recent, err := db.Recent(1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "WMNT -> MOE -> JOE -> WMNT", recent[0].Path)
	assert.Equal(t, 3, recent[0].HopCount)
}

func TestRecordBatchAndStats(t *testing.T) {
	db := openTestDB(t)

	batch := []market.ArbitrageOpportunity{
		*multiPathOpportunity(1.0),
		*multiPathOpportunity(-1.0),
		*multiPathOpportunity(2.0),
	}
	require.NoError(t, db.RecordBatch(200, batch))

	all, err := db.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats["total"])
	assert.Equal(t, int64(2), stats["profitable"])
}
