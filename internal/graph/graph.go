package graph

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

const weiPerToken = 1e18

// directedEdge is one traversable direction of a pool. Each direction keeps
// its own PoolEdge copy so the two weights stay independently current, the
// way update_pool refreshes them one at a time.
type directedEdge struct {
	poolAddress common.Address
	from        int
	to          int
	fromToken   market.Token
	toToken     market.Token
	weight      float64
	pool        *PoolEdge
}

type edgeKey struct {
	from int
	to   int
}

// TokenGraph is an arena of token nodes addressed by small int handles, with
// at most one directed edge per ordered pair (one pool per pair). Nodes and
// edges are created lazily and never pruned; drained pools stay behind as
// infinite-weight edges.
type TokenGraph struct {
	nodes []market.Token
	index map[common.Address]int
	edges map[edgeKey]*directedEdge
	out   [][]*directedEdge
	base  market.Token
}

func NewTokenGraph(base market.Token) *TokenGraph {
	return &TokenGraph{
		index: make(map[common.Address]int),
		edges: make(map[edgeKey]*directedEdge),
		base:  base,
	}
}

// AddToken is idempotent: a token already present returns its existing
// handle.
func (g *TokenGraph) AddToken(token market.Token) int {
	if handle, ok := g.index[token.Address]; ok {
		return handle
	}
	handle := len(g.nodes)
	g.nodes = append(g.nodes, token)
	g.out = append(g.out, nil)
	g.index[token.Address] = handle
	return handle
}

// AddPool ensures both tokens exist and inserts directed edges in both
// directions with independently computed weights.
func (g *TokenGraph) AddPool(reserves *market.PoolReserves, fee float64) {
	aHandle := g.AddToken(reserves.TokenA)
	bHandle := g.AddToken(reserves.TokenB)

	reservesA := WeiToTokens(reserves.ReserveA)
	reservesB := WeiToTokens(reserves.ReserveB)

	pool := NewPoolEdge(reserves.PoolAddress, reserves.TokenA, reserves.TokenB, reservesA, reservesB, fee)

	g.putEdge(&directedEdge{
		poolAddress: pool.PoolAddress,
		from:        aHandle,
		to:          bHandle,
		fromToken:   reserves.TokenA,
		toToken:     reserves.TokenB,
		weight:      pool.WeightAToB,
		pool:        pool.clone(),
	})
	g.putEdge(&directedEdge{
		poolAddress: pool.PoolAddress,
		from:        bHandle,
		to:          aHandle,
		fromToken:   reserves.TokenB,
		toToken:     reserves.TokenA,
		weight:      pool.WeightBToA,
		pool:        pool.clone(),
	})
}

func (g *TokenGraph) putEdge(e *directedEdge) {
	key := edgeKey{from: e.from, to: e.to}
	if existing, ok := g.edges[key]; ok {
		// one pool per ordered pair: a re-add replaces the payload in place
		existing.poolAddress = e.poolAddress
		existing.weight = e.weight
		existing.pool = e.pool
		return
	}
	g.edges[key] = e
	g.out[e.from] = append(g.out[e.from], e)
}

// UpdatePool refreshes both directed edges for a pool's token pair. Unknown
// tokens make this a silent no-op; the next AddPool will pick the pool up.
func (g *TokenGraph) UpdatePool(reserves *market.PoolReserves) {
	aHandle, ok := g.index[reserves.TokenA.Address]
	if !ok {
		return
	}
	bHandle, ok := g.index[reserves.TokenB.Address]
	if !ok {
		return
	}

	reservesA := WeiToTokens(reserves.ReserveA)
	reservesB := WeiToTokens(reserves.ReserveB)

	if edge, ok := g.edges[edgeKey{from: aHandle, to: bHandle}]; ok {
		edge.pool.UpdateReserves(reservesA, reservesB)
		edge.weight = edge.pool.WeightAToB
	}
	if edge, ok := g.edges[edgeKey{from: bHandle, to: aHandle}]; ok {
		edge.pool.UpdateReserves(reservesA, reservesB)
		edge.weight = edge.pool.WeightBToA
	}
}

func (g *TokenGraph) NodeCount() int {
	return len(g.nodes)
}

func (g *TokenGraph) EdgeCount() int {
	return len(g.edges)
}

func (g *TokenGraph) BaseToken() market.Token {
	return g.base
}

// Tokens returns every token seen so far, in insertion order.
func (g *TokenGraph) Tokens() []market.Token {
	out := make([]market.Token, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// GetPoolInfo is a read-only lookup of the pool backing the tokenA -> tokenB
// edge, for callers that need raw reserves.
func (g *TokenGraph) GetPoolInfo(tokenA, tokenB market.Token) (*PoolEdge, bool) {
	aHandle, ok := g.index[tokenA.Address]
	if !ok {
		return nil, false
	}
	bHandle, ok := g.index[tokenB.Address]
	if !ok {
		return nil, false
	}
	edge, ok := g.edges[edgeKey{from: aHandle, to: bHandle}]
	if !ok {
		return nil, false
	}
	return edge.pool, true
}

// CalculatePathProfit replays the swap formula across every hop of a path
// and returns output minus input. False means some hop's edge is missing or
// degenerate, in which case the candidate should be dropped.
func (g *TokenGraph) CalculatePathProfit(path *market.ArbitragePath, inputAmount float64) (float64, bool) {
	if len(path.Tokens) < 3 {
		return 0, false
	}

	current := inputAmount
	for i := 0; i < len(path.Tokens)-1; i++ {
		edge, ok := g.findEdge(path.Tokens[i], path.Tokens[i+1])
		if !ok {
			return 0, false
		}
		current, ok = edge.pool.CalculateOutput(current, path.Tokens[i])
		if !ok {
			return 0, false
		}
	}

	// close the loop back to the base token if the path stops short of it
	last := path.Tokens[len(path.Tokens)-1]
	if !last.Equal(g.base) {
		edge, ok := g.findEdge(last, g.base)
		if !ok {
			return 0, false
		}
		current, ok = edge.pool.CalculateOutput(current, last)
		if !ok {
			return 0, false
		}
	}

	return current - inputAmount, true
}

func (g *TokenGraph) findEdge(from, to market.Token) (*directedEdge, bool) {
	fromHandle, ok := g.index[from.Address]
	if !ok {
		return nil, false
	}
	toHandle, ok := g.index[to.Address]
	if !ok {
		return nil, false
	}
	edge, ok := g.edges[edgeKey{from: fromHandle, to: toHandle}]
	return edge, ok
}

// WeiToTokens converts a raw wei reserve into float token units. Precision
// loss past 2^53 is accepted; the search works on marginal rates, not
// settlement amounts.
func WeiToTokens(value *uint256.Int) float64 {
	if value == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(value.ToBig()).Float64()
	return f / weiPerToken
}

// TokensToWei converts float token units back to wei.
func TokensToWei(value float64) *uint256.Int {
	wei, _ := new(big.Float).Mul(big.NewFloat(value), big.NewFloat(weiPerToken)).Int(nil)
	out, overflow := uint256.FromBig(wei)
	if overflow || wei.Sign() < 0 {
		return uint256.NewInt(0)
	}
	return out
}
