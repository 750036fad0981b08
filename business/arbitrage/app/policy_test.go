package app

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/business/arbitrage/domain"
	intelDomain "github.com/shogunprotocol/shogun-core-ai/business/intelligence/domain"
)

func oppWithNet(net string) *domain.Opportunity {
	return &domain.Opportunity{
		Fingerprint: "g1:test",
		Generation:  1,
		Notional:    decimal.NewFromInt(10),
		NetRatio:    decimal.RequireFromString(net),
	}
}

func signalOf(sentiment string, tier intelDomain.ConfidenceTier, flags ...intelDomain.RiskFlag) intelDomain.Signal {
	return intelDomain.NewSignal(decimal.RequireFromString(sentiment), tier, flags, []string{"test"})
}

func TestDecisionPolicy_RuleTable(t *testing.T) {
	policy := NewDecisionPolicy(DefaultPolicyConfig())

	tests := []struct {
		name       string
		net        string
		signal     intelDomain.Signal
		wantAction domain.Action
		wantFactor string
	}{
		{
			name:       "below floor is skipped",
			net:        "0.001",
			signal:     signalOf("0.8", intelDomain.ConfidenceHigh),
			wantAction: domain.ActionSkip,
			wantFactor: "0",
		},
		{
			name:       "exactly at floor is skipped",
			net:        "0.003",
			signal:     signalOf("0.8", intelDomain.ConfidenceHigh),
			wantAction: domain.ActionSkip,
			wantFactor: "0",
		},
		{
			name:       "risk flag overrides strong signal",
			net:        "0.05",
			signal:     signalOf("0.9", intelDomain.ConfidenceHigh, intelDomain.RiskRegulatory),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.4",
		},
		{
			name:       "clean profit with supportive signal executes",
			net:        "0.01",
			signal:     signalOf("0.2", intelDomain.ConfidenceMedium),
			wantAction: domain.ActionExecute,
			wantFactor: "1",
		},
		{
			name:       "neutral sentiment high confidence executes",
			net:        "0.01",
			signal:     signalOf("0", intelDomain.ConfidenceHigh),
			wantAction: domain.ActionExecute,
			wantFactor: "1",
		},
		{
			name:       "mild negative sentiment reduces by 1+s",
			net:        "0.01",
			signal:     signalOf("-0.3", intelDomain.ConfidenceHigh),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.7",
		},
		{
			name:       "deep negative sentiment floors at minimum",
			net:        "0.01",
			signal:     signalOf("-0.95", intelDomain.ConfidenceHigh),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.2",
		},
		{
			name:       "low confidence halves size",
			net:        "0.01",
			signal:     signalOf("0.5", intelDomain.ConfidenceLow),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.5",
		},
		{
			name:       "negative sentiment and low confidence stack",
			net:        "0.01",
			signal:     signalOf("-0.3", intelDomain.ConfidenceLow),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.35",
		},
		{
			name:       "stacked reduction floors at minimum",
			net:        "0.01",
			signal:     signalOf("-0.9", intelDomain.ConfidenceLow),
			wantAction: domain.ActionExecuteReduced,
			wantFactor: "0.2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.Decide(oppWithNet(tt.net), tt.signal)
			if d.Action != tt.wantAction {
				t.Errorf("action = %s, want %s (reason: %s)", d.Action, tt.wantAction, d.Reason)
			}
			if d.SizeFactor.String() != tt.wantFactor {
				t.Errorf("size factor = %s, want %s", d.SizeFactor.String(), tt.wantFactor)
			}
		})
	}
}

func TestDecisionPolicy_NeverExecutesBelowFloor(t *testing.T) {
	policy := NewDecisionPolicy(DefaultPolicyConfig())

	// even the friendliest signal cannot rescue a candidate at the floor
	signals := []intelDomain.Signal{
		signalOf("1", intelDomain.ConfidenceHigh),
		signalOf("0", intelDomain.ConfidenceMedium),
		signalOf("1", intelDomain.ConfidenceHigh, intelDomain.RiskRegulatory),
	}
	for _, sig := range signals {
		d := policy.Decide(oppWithNet("0.003"), sig)
		if d.Action != domain.ActionSkip {
			t.Errorf("candidate at floor must skip, got %s", d.Action)
		}
	}
}

func TestDecisionPolicy_ConservativeFallbackSignal(t *testing.T) {
	policy := NewDecisionPolicy(DefaultPolicyConfig())

	// with no feed data the conservative signal still yields a decision:
	// low confidence means reduced execution, never a stall
	d := policy.Decide(oppWithNet("0.01"), intelDomain.Conservative())
	if d.Action != domain.ActionExecuteReduced {
		t.Errorf("expected reduced execution under conservative signal, got %s", d.Action)
	}
	if d.SizeFactor.String() != "0.5" {
		t.Errorf("size factor = %s, want 0.5", d.SizeFactor.String())
	}
}

func TestDecision_TradeSize(t *testing.T) {
	d := domain.NewDecision(oppWithNet("0.01"), domain.ActionExecuteReduced,
		decimal.RequireFromString("0.4"), "test", intelDomain.Conservative())

	if d.TradeSize().String() != "4" {
		t.Errorf("trade size = %s, want 4", d.TradeSize().String())
	}
}
