package arbitrage

import (
	"math/big"

	"github.com/holiman/uint256"
)

// upper search bound stays just below the first pool's input reserve: the
// formula tolerates draining a pool, the math near zero reserve does not
const inputReserveCap = 0.999

// Hop is one swap's reserves oriented in trade direction, in token units.
type Hop struct {
	ReserveIn  float64
	ReserveOut float64
}

// Swap computes the constant-product output with the fee taken from the
// input before the invariant division.
func Swap(reserveIn, reserveOut, inputAmount, fee float64) float64 {
	if inputAmount <= 0 || reserveIn <= 0 || reserveOut <= 0 {
		return 0
	}
	inputWithFee := inputAmount * (1.0 - fee)
	return (reserveOut * inputWithFee) / (reserveIn + inputWithFee)
}

// PathProfit chains the swap formula across every hop of a path and returns
// final output minus input. Works for any hop count >= 1.
func PathProfit(inputAmount float64, hops []Hop, fee float64) float64 {
	if len(hops) == 0 {
		return -1
	}
	amount := inputAmount
	for _, hop := range hops {
		amount = Swap(hop.ReserveIn, hop.ReserveOut, amount, fee)
	}
	return amount - inputAmount
}

// FindBestInput ternary-searches the input amount that maximizes PathProfit
// over [0, first_reserve*0.999]. A fixed iteration count bounds the cost per
// candidate deterministically instead of chasing a convergence epsilon.
func FindBestInput(hops []Hop, fee float64, iterations int) (bestInput, bestProfit float64) {
	if len(hops) == 0 {
		return 0, -1
	}

	left := 0.0
	right := hops[0].ReserveIn * inputReserveCap

	for i := 0; i < iterations; i++ {
		m1 := left + (right-left)/3.0
		m2 := right - (right-left)/3.0
		p1 := PathProfit(m1, hops, fee)
		p2 := PathProfit(m2, hops, fee)

		if p1 < p2 {
			left = m1
		} else {
			right = m2
		}
	}

	bestInput = (left + right) / 2.0
	bestProfit = PathProfit(bestInput, hops, fee)
	return bestInput, bestProfit
}

// GetAmountOut is the integer Uniswap V2 quote with the canonical 0.3% fee,
// kept for the legacy wei-exact check.
func GetAmountOut(amountIn, reserveIn, reserveOut *uint256.Int) *uint256.Int {
	if amountIn == nil || reserveIn == nil || reserveOut == nil {
		return uint256.NewInt(0)
	}
	if amountIn.IsZero() || reserveIn.IsZero() || reserveOut.IsZero() {
		return uint256.NewInt(0)
	}

	in := amountIn.ToBig()
	rIn := reserveIn.ToBig()
	rOut := reserveOut.ToBig()

	amountInWithFee := new(big.Int).Mul(in, big.NewInt(997))
	numerator := new(big.Int).Mul(amountInWithFee, rOut)
	denominator := new(big.Int).Mul(rIn, big.NewInt(1000))
	denominator.Add(denominator, amountInWithFee)

	out, overflow := uint256.FromBig(new(big.Int).Div(numerator, denominator))
	if overflow {
		return uint256.NewInt(0)
	}
	return out
}
