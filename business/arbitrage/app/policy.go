package app

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	intelDomain "github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
)

// PolicyConfig holds decision policy thresholds.
type PolicyConfig struct {
	MinProfitRatio      decimal.Decimal
	RiskReduction       decimal.Decimal // size factor under a risk flag
	MinSizeFactor       decimal.Decimal // floor for sentiment-derived sizing
	LowConfidenceFactor decimal.Decimal // multiplier for low-tier signals
}

// DefaultPolicyConfig returns the standard thresholds.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinProfitRatio:      decimal.RequireFromString("0.003"),
		RiskReduction:       decimal.RequireFromString("0.4"),
		MinSizeFactor:       decimal.RequireFromString("0.2"),
		LowConfidenceFactor: decimal.RequireFromString("0.5"),
	}
}

// DecisionPolicy turns a costed candidate plus the current market signal
// into a verdict. Rules apply in order, first match wins:
//
//  1. net ratio at or below the profit floor: SKIP. The floor is the only
//     hard gate; nothing downstream can override it.
//  2. any risk flag raised: EXECUTE_REDUCED at the risk size factor, no
//     matter how strong profit or confidence look.
//  3. non-negative sentiment and medium-or-better confidence: EXECUTE.
//  4. otherwise: EXECUTE_REDUCED, sized down by sentiment (1+s, floored)
//     and halved again when confidence is low.
type DecisionPolicy struct {
	config PolicyConfig
}

// NewDecisionPolicy creates a new DecisionPolicy.
func NewDecisionPolicy(cfg PolicyConfig) *DecisionPolicy {
	return &DecisionPolicy{config: cfg}
}

// Decide applies the rule table to one candidate.
func (p *DecisionPolicy) Decide(opp *domain.Opportunity, signal intelDomain.Signal) domain.Decision {
	if !opp.IsProfitable(p.config.MinProfitRatio) {
		return domain.NewDecision(opp, domain.ActionSkip, decimal.Zero,
			fmt.Sprintf("net ratio %s at or below floor %s",
				opp.NetRatio.String(), p.config.MinProfitRatio.String()),
			signal)
	}

	if len(signal.RiskFlags) > 0 {
		return domain.NewDecision(opp, domain.ActionExecuteReduced, p.config.RiskReduction,
			fmt.Sprintf("risk flag %s active", signal.RiskFlags[0]),
			signal)
	}

	goodConfidence := signal.Confidence == intelDomain.ConfidenceMedium ||
		signal.Confidence == intelDomain.ConfidenceHigh
	if !signal.IsNegative() && goodConfidence {
		return domain.NewDecision(opp, domain.ActionExecute, decimal.NewFromInt(1),
			"profit clears floor with supportive signal", signal)
	}

	factor := decimal.NewFromInt(1)
	reason := "reduced size"
	if signal.IsNegative() {
		factor = decimal.NewFromInt(1).Add(signal.Sentiment)
		if factor.LessThan(p.config.MinSizeFactor) {
			factor = p.config.MinSizeFactor
		}
		reason = fmt.Sprintf("negative sentiment %s", signal.Sentiment.String())
	}
	if signal.Confidence == intelDomain.ConfidenceLow {
		factor = factor.Mul(p.config.LowConfidenceFactor)
		if factor.LessThan(p.config.MinSizeFactor) {
			factor = p.config.MinSizeFactor
		}
		reason += ", low confidence"
	}

	return domain.NewDecision(opp, domain.ActionExecuteReduced, factor, reason, signal)
}

// DecideAll applies the policy to every candidate against one signal.
func (p *DecisionPolicy) DecideAll(opps []*domain.Opportunity, signal intelDomain.Signal) []domain.Decision {
	out := make([]domain.Decision, 0, len(opps))
	for _, opp := range opps {
		out = append(out, p.Decide(opp, signal))
	}
	return out
}
