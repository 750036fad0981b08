package domain

import (
	"time"

	"github.com/shopspring/decimal"

	intelDomain "github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
)

// Action is the verdict on a candidate.
type Action string

const (
	ActionExecute        Action = "EXECUTE"
	ActionExecuteReduced Action = "EXECUTE_REDUCED"
	ActionSkip           Action = "SKIP"
)

// Decision pairs a candidate with its verdict and sizing. SizeFactor scales
// the notional: 1 for a full EXECUTE, a fraction for EXECUTE_REDUCED, zero
// for SKIP.
type Decision struct {
	Opportunity *Opportunity
	Action      Action
	SizeFactor  decimal.Decimal
	Reason      string
	Signal      intelDomain.Signal
	DecidedAt   time.Time
}

// NewDecision creates a decision for a candidate.
func NewDecision(opp *Opportunity, action Action, sizeFactor decimal.Decimal, reason string, signal intelDomain.Signal) Decision {
	return Decision{
		Opportunity: opp,
		Action:      action,
		SizeFactor:  sizeFactor,
		Reason:      reason,
		Signal:      signal,
		DecidedAt:   time.Now(),
	}
}

// IsActionable reports whether the decision calls for execution.
func (d Decision) IsActionable() bool {
	return d.Action == ActionExecute || d.Action == ActionExecuteReduced
}

// TradeSize returns the scaled notional to execute.
func (d Decision) TradeSize() decimal.Decimal {
	if d.Opportunity == nil {
		return decimal.Zero
	}
	return d.Opportunity.Notional.Mul(d.SizeFactor)
}
