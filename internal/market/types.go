package market

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token identifies one ERC-20 token traded on the DEX. Identity is the
// on-chain address; the symbol is carried along for display only.
type Token struct {
	Address common.Address
	Symbol  string
}

// Equal compares tokens by address. Two Token values with different symbols
// but the same address are the same token.
func (t Token) Equal(other Token) bool {
	return t.Address == other.Address
}

func (t Token) String() string {
	return t.Symbol
}

// PoolReserves is a snapshot of one AMM pool at a specific block. Reserves
// are raw wei values as returned by getReserves.
type PoolReserves struct {
	TokenA      Token
	ReserveA    *uint256.Int
	TokenB      Token
	ReserveB    *uint256.Int
	BlockNumber uint64
	Timestamp   time.Time
	PoolAddress common.Address
}

func NewPoolReserves(tokenA Token, reserveA *uint256.Int, tokenB Token, reserveB *uint256.Int, blockNumber uint64, poolAddress common.Address) *PoolReserves {
	return &PoolReserves{
		TokenA:      tokenA,
		ReserveA:    reserveA,
		TokenB:      tokenB,
		ReserveB:    reserveB,
		BlockNumber: blockNumber,
		Timestamp:   time.Now().UTC(),
		PoolAddress: poolAddress,
	}
}

// ReservesForPair returns (reserveIn, reserveOut) oriented for a tokenIn ->
// tokenOut swap, or false if the pool doesn't trade this pair.
func (r *PoolReserves) ReservesForPair(tokenIn, tokenOut Token) (*uint256.Int, *uint256.Int, bool) {
	switch {
	case r.TokenA.Equal(tokenIn) && r.TokenB.Equal(tokenOut):
		return r.ReserveA, r.ReserveB, true
	case r.TokenA.Equal(tokenOut) && r.TokenB.Equal(tokenIn):
		return r.ReserveB, r.ReserveA, true
	default:
		return nil, nil, false
	}
}

// ArbitragePath is a closed token cycle anchored at the base token, plus the
// pool used for each hop. Immutable once built by the cycle finder.
type ArbitragePath struct {
	Tokens []Token
	Pools  []common.Address
}

func NewArbitragePath(tokens []Token, pools []common.Address) *ArbitragePath {
	return &ArbitragePath{Tokens: tokens, Pools: pools}
}

// HopCount is the number of swaps; a path of N hops visits N+1 tokens.
func (p *ArbitragePath) HopCount() int {
	if len(p.Tokens) == 0 {
		return 0
	}
	return len(p.Tokens) - 1
}

// Description renders the route as "WMNT -> MOE -> JOE -> WMNT".
func (p *ArbitragePath) Description() string {
	symbols := make([]string, len(p.Tokens))
	for i, t := range p.Tokens {
		symbols[i] = t.Symbol
	}
	return strings.Join(symbols, " -> ")
}

// ArbitrageOpportunity is the evaluated result of one path: the ternary
// search optimum plus the cost-adjusted profit figures. Amounts are in base
// token units.
type ArbitrageOpportunity struct {
	OptimalInput     float64
	FinalOutput      float64
	GrossProfit      float64
	NetProfit        float64
	ProfitPercentage float64
	SearchMethod     string
	Path             *ArbitragePath
}

func (o *ArbitrageOpportunity) IsProfitable() bool {
	return o.NetProfit > 0
}

// HopCount returns 0 for legacy opportunities that carry no path.
func (o *ArbitrageOpportunity) HopCount() int {
	if o.Path == nil {
		return 0
	}
	return o.Path.HopCount()
}

// MultiPathResult is one full analysis pass over the graph.
type MultiPathResult struct {
	Opportunities []ArbitrageOpportunity
	AnalysisTime  time.Duration
}

func NewMultiPathResult(opportunities []ArbitrageOpportunity, analysisTime time.Duration) *MultiPathResult {
	return &MultiPathResult{Opportunities: opportunities, AnalysisTime: analysisTime}
}

func (m *MultiPathResult) ProfitableCount() int {
	count := 0
	for i := range m.Opportunities {
		if m.Opportunities[i].IsProfitable() {
			count++
		}
	}
	return count
}

func (m *MultiPathResult) HasProfitable() bool {
	return m.ProfitableCount() > 0
}

// Profitable returns the profitable subset in pass order.
func (m *MultiPathResult) Profitable() []ArbitrageOpportunity {
	out := make([]ArbitrageOpportunity, 0, len(m.Opportunities))
	for i := range m.Opportunities {
		if m.Opportunities[i].IsProfitable() {
			out = append(out, m.Opportunities[i])
		}
	}
	return out
}
