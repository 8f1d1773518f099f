package dex

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTriangularSetup(t *testing.T) {
	p := NewMoeProtocol()
	assert.NoError(t, p.ValidateTriangularSetup())
}

func TestTokenLookups(t *testing.T) {
	wmnt, ok := TokenBySymbol("WMNT")
	require.True(t, ok)
	assert.Equal(t, WMNTAddress, wmnt.Address)

	_, ok = TokenBySymbol("DOGE")
	assert.False(t, ok)

	moe, ok := TokenByAddress(MOEAddress)
	require.True(t, ok)
	assert.Equal(t, "MOE", moe.Symbol)

	_, ok = TokenByAddress(common.HexToAddress("0xdead"))
	assert.False(t, ok)
}

func TestPoolRegistry(t *testing.T) {
	p := NewMoeProtocol()

	assert.Len(t, p.PoolAddresses(), 3)
	assert.True(t, p.IsPool(MoeWmntPool))
	assert.False(t, p.IsPool(common.HexToAddress("0xbeef")))

	info, ok := p.PoolInfoByAddress(JoeWmntPool)
	require.True(t, ok)
	assert.Equal(t, "JOE-WMNT", info.Name)
	assert.True(t, info.TokenA.Equal(JOE()))

	assert.Equal(t, "MOE", p.Name())
	assert.Equal(t, 0.003, p.DefaultFee())
}

func TestTriangularPath(t *testing.T) {
	p := NewMoeProtocol()
	path := p.TriangularPath()

	require.Len(t, path, 4)
	assert.True(t, path[0].Equal(WMNT()))
	assert.True(t, path[3].Equal(WMNT()))

	a, b, c := p.MainTriangularPools()
	assert.Equal(t, MoeWmntPool, a)
	assert.Equal(t, JoeMoePool, b)
	assert.Equal(t, JoeWmntPool, c)
}
