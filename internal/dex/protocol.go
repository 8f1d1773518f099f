package dex

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/config"
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// Token addresses — Mantle mainnet
var (
	WMNTAddress = common.HexToAddress("0x78c1b0c915c4faa5fffa6cabf0219da63d7f4cb8")
	MOEAddress  = common.HexToAddress("0x4515a45337f461a11ff0fe8abf3c606ae5dc00c9")
	JOEAddress  = common.HexToAddress("0x371c7ec6d8039ff7933a2aa28eb827ffe1f52f07")
)

// Merchant Moe pool addresses — Mantle mainnet
var (
	MoeWmntPool = common.HexToAddress("0x763868612858358f62b05691dB82Ad35a9b3E110")
	JoeMoePool  = common.HexToAddress("0xb670D2B452D0Ecc468cccFD532482d45dDdDe2a1")
	JoeWmntPool = common.HexToAddress("0xEFC38C1B0d60725B824EBeE8D431aBFBF12BC953")
)

func WMNT() market.Token { return market.Token{Address: WMNTAddress, Symbol: "WMNT"} }
func MOE() market.Token  { return market.Token{Address: MOEAddress, Symbol: "MOE"} }
func JOE() market.Token  { return market.Token{Address: JOEAddress, Symbol: "JOE"} }

var knownTokens = map[common.Address]string{
	WMNTAddress: "WMNT",
	MOEAddress:  "MOE",
	JOEAddress:  "JOE",
}

// TokenByAddress resolves a chain address to a known token. Pools trading
// unknown tokens are skipped by the fetcher.
func TokenByAddress(addr common.Address) (market.Token, bool) {
	symbol, ok := knownTokens[addr]
	if !ok {
		return market.Token{}, false
	}
	return market.Token{Address: addr, Symbol: symbol}, true
}

// TokenBySymbol resolves a CSV symbol to a known token.
func TokenBySymbol(symbol string) (market.Token, bool) {
	switch symbol {
	case "WMNT":
		return WMNT(), true
	case "MOE":
		return MOE(), true
	case "JOE":
		return JOE(), true
	default:
		return market.Token{}, false
	}
}

// PoolInfo is one known pool and its trading pair.
type PoolInfo struct {
	Address common.Address
	Name    string
	TokenA  market.Token
	TokenB  market.Token
}

// MoeProtocol is the Merchant Moe DEX registry: the pool universe the
// triangular monitor tracks.
type MoeProtocol struct {
	name       string
	defaultFee float64
	knownPools []PoolInfo
}

func NewMoeProtocol() *MoeProtocol {
	return &MoeProtocol{
		name:       "MOE",
		defaultFee: config.DefaultDexFee,
		knownPools: []PoolInfo{
			{Address: MoeWmntPool, Name: "MOE-WMNT", TokenA: MOE(), TokenB: WMNT()},
			{Address: JoeMoePool, Name: "JOE-MOE", TokenA: JOE(), TokenB: MOE()},
			{Address: JoeWmntPool, Name: "JOE-WMNT", TokenA: JOE(), TokenB: WMNT()},
		},
	}
}

func (p *MoeProtocol) Name() string {
	return p.name
}

func (p *MoeProtocol) DefaultFee() float64 {
	return p.defaultFee
}

func (p *MoeProtocol) KnownPools() []PoolInfo {
	out := make([]PoolInfo, len(p.knownPools))
	copy(out, p.knownPools)
	return out
}

func (p *MoeProtocol) PoolAddresses() []common.Address {
	out := make([]common.Address, len(p.knownPools))
	for i, pool := range p.knownPools {
		out[i] = pool.Address
	}
	return out
}

func (p *MoeProtocol) PoolInfoByAddress(address common.Address) (PoolInfo, bool) {
	for _, pool := range p.knownPools {
		if pool.Address == address {
			return pool, true
		}
	}
	return PoolInfo{}, false
}

func (p *MoeProtocol) IsPool(address common.Address) bool {
	_, ok := p.PoolInfoByAddress(address)
	return ok
}

// MainTriangularPools returns the three pool addresses of the
// WMNT -> MOE -> JOE -> WMNT route, in hop order.
func (p *MoeProtocol) MainTriangularPools() (moeWmnt, joeMoe, joeWmnt common.Address) {
	return MoeWmntPool, JoeMoePool, JoeWmntPool
}

// TriangularPath is the canonical closed route anchored at WMNT.
func (p *MoeProtocol) TriangularPath() []market.Token {
	return []market.Token{WMNT(), MOE(), JOE(), WMNT()}
}

// ValidateTriangularSetup checks the registry actually forms a triangle over
// three distinct tokens before the monitor starts trusting it.
func (p *MoeProtocol) ValidateTriangularSetup() error {
	if len(p.knownPools) < 3 {
		return fmt.Errorf("need 3 pools for triangular arbitrage, have %d", len(p.knownPools))
	}

	seen := make(map[common.Address]struct{})
	for _, pool := range p.knownPools {
		seen[pool.TokenA.Address] = struct{}{}
		seen[pool.TokenB.Address] = struct{}{}
	}
	if len(seen) != 3 {
		return fmt.Errorf("triangular setup needs exactly 3 tokens, registry has %d", len(seen))
	}

	for _, addr := range []common.Address{MoeWmntPool, JoeMoePool, JoeWmntPool} {
		if !p.IsPool(addr) {
			return fmt.Errorf("pool %s missing from registry", addr.Hex())
		}
	}
	return nil
}
