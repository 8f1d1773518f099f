package arbitrage

import (
	"github.com/Whisker17/triangular-arbitrage-demo/internal/market"
)

// Strategy picks the winner among profitable opportunities.
type Strategy int

const (
	// MaxProfit selects the largest absolute net profit.
	MaxProfit Strategy = iota
	// MaxProfitPercent selects the largest return on input.
	MaxProfitPercent
	// MinRisk selects the fewest hops (lowest execution risk).
	MinRisk
	// BalancedRiskReturn scores net profit / hop_count^2.
	BalancedRiskReturn
)

// ParseStrategy maps a config string to a Strategy, defaulting to MaxProfit.
func ParseStrategy(name string) Strategy {
	switch name {
	case "max_percent":
		return MaxProfitPercent
	case "min_risk":
		return MinRisk
	case "balanced":
		return BalancedRiskReturn
	default:
		return MaxProfit
	}
}

func (s Strategy) String() string {
	switch s {
	case MaxProfitPercent:
		return "MaxProfitPercent"
	case MinRisk:
		return "MinRisk"
	case BalancedRiskReturn:
		return "BalancedRiskReturn"
	default:
		return "MaxProfit"
	}
}

// SelectBest filters to profitable opportunities and returns the winner
// under the strategy, or nil if nothing is profitable. Exact float ties go
// to whichever came first in the scan.
func SelectBest(opportunities []market.ArbitrageOpportunity, strategy Strategy) *market.ArbitrageOpportunity {
	var best *market.ArbitrageOpportunity
	for i := range opportunities {
		opp := &opportunities[i]
		if !opp.IsProfitable() {
			continue
		}
		if best == nil {
			best = opp
			continue
		}
		switch strategy {
		case MaxProfitPercent:
			if opp.ProfitPercentage > best.ProfitPercentage {
				best = opp
			}
		case MinRisk:
			if opp.HopCount() < best.HopCount() {
				best = opp
			}
		case BalancedRiskReturn:
			if balancedScore(opp) > balancedScore(best) {
				best = opp
			}
		default:
			if opp.NetProfit > best.NetProfit {
				best = opp
			}
		}
	}
	return best
}

func balancedScore(opp *market.ArbitrageOpportunity) float64 {
	hops := float64(opp.HopCount())
	return opp.NetProfit / (hops * hops)
}
