package graph

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// reserveEpsilon marks a pool as drained. Below this, both directed weights
// become +Inf and the pool drops out of shortest-path consideration.
const reserveEpsilon = 1e-10

// PoolEdge models one constant-product pool between two tokens. Reserves are
// in token units (wei already scaled down). Weights are the negative natural
// log of the fee-adjusted marginal rate, so a negative-sum cycle means a
// rate product above 1.
type PoolEdge struct {
	PoolAddress common.Address
	TokenA      market.Token
	TokenB      market.Token
	ReservesA   float64
	ReservesB   float64
	Fee         float64
	WeightAToB  float64
	WeightBToA  float64
}

func NewPoolEdge(poolAddress common.Address, tokenA, tokenB market.Token, reservesA, reservesB, fee float64) *PoolEdge {
	e := &PoolEdge{
		PoolAddress: poolAddress,
		TokenA:      tokenA,
		TokenB:      tokenB,
		ReservesA:   reservesA,
		ReservesB:   reservesB,
		Fee:         fee,
	}
	e.WeightAToB, e.WeightBToA = logWeights(reservesA, reservesB, fee)
	return e
}

// logWeights computes both directed weights from scratch. Weights are never
// patched incrementally; any reserve change recomputes the pair.
func logWeights(reservesA, reservesB, fee float64) (aToB, bToA float64) {
	if reservesA <= reserveEpsilon || reservesB <= reserveEpsilon {
		return math.Inf(1), math.Inf(1)
	}

	effective := 1.0 - fee
	rateAToB := (reservesB * effective) / reservesA
	rateBToA := (reservesA * effective) / reservesB

	aToB = math.Inf(1)
	if rateAToB > reserveEpsilon {
		aToB = -math.Log(rateAToB)
	}
	bToA = math.Inf(1)
	if rateBToA > reserveEpsilon {
		bToA = -math.Log(rateBToA)
	}
	return aToB, bToA
}

// UpdateReserves replaces both reserves and recomputes both weights in place.
func (e *PoolEdge) UpdateReserves(reservesA, reservesB float64) {
	e.ReservesA = reservesA
	e.ReservesB = reservesB
	e.WeightAToB, e.WeightBToA = logWeights(reservesA, reservesB, e.Fee)
}

// RateAToB is the marginal exchange rate ignoring fees.
func (e *PoolEdge) RateAToB() float64 {
	if e.ReservesA > 0 {
		return e.ReservesB / e.ReservesA
	}
	return 0
}

func (e *PoolEdge) RateBToA() float64 {
	if e.ReservesB > 0 {
		return e.ReservesA / e.ReservesB
	}
	return 0
}

// CalculateOutput runs one constant-product swap with the fee taken from the
// input. Returns false if tokenIn is not a side of this pool or any quantity
// is non-positive.
func (e *PoolEdge) CalculateOutput(inputAmount float64, tokenIn market.Token) (float64, bool) {
	var reserveIn, reserveOut float64
	switch {
	case tokenIn.Equal(e.TokenA):
		reserveIn, reserveOut = e.ReservesA, e.ReservesB
	case tokenIn.Equal(e.TokenB):
		reserveIn, reserveOut = e.ReservesB, e.ReservesA
	default:
		return 0, false
	}

	if reserveIn <= 0 || reserveOut <= 0 || inputAmount <= 0 {
		return 0, false
	}

	inputWithFee := inputAmount * (1.0 - e.Fee)
	return (inputWithFee * reserveOut) / (reserveIn + inputWithFee), true
}

func (e *PoolEdge) clone() *PoolEdge {
	cp := *e
	return &cp
}
