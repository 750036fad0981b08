package rss

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Keyword weights for headline scoring. Scores accumulate per headline and
// the batch average is clamped to [-1, 1].
var bullishKeywords = map[string]decimal.Decimal{
	"surge":       decimal.RequireFromString("0.3"),
	"rally":       decimal.RequireFromString("0.3"),
	"bullish":     decimal.RequireFromString("0.4"),
	"adoption":    decimal.RequireFromString("0.2"),
	"breakout":    decimal.RequireFromString("0.3"),
	"all-time":    decimal.RequireFromString("0.2"),
	"upgrade":     decimal.RequireFromString("0.2"),
	"partnership": decimal.RequireFromString("0.2"),
	"approval":    decimal.RequireFromString("0.3"),
	"growth":      decimal.RequireFromString("0.2"),
}

var bearishKeywords = map[string]decimal.Decimal{
	"crash":       decimal.RequireFromString("-0.4"),
	"plunge":      decimal.RequireFromString("-0.3"),
	"bearish":     decimal.RequireFromString("-0.4"),
	"hack":        decimal.RequireFromString("-0.4"),
	"exploit":     decimal.RequireFromString("-0.4"),
	"ban":         decimal.RequireFromString("-0.3"),
	"lawsuit":     decimal.RequireFromString("-0.3"),
	"selloff":     decimal.RequireFromString("-0.3"),
	"liquidation": decimal.RequireFromString("-0.2"),
	"fraud":       decimal.RequireFromString("-0.4"),
}

// ScoreHeadline scores a single headline by keyword matches.
func ScoreHeadline(title string) decimal.Decimal {
	lower := strings.ToLower(title)
	score := decimal.Zero
	for kw, w := range bullishKeywords {
		if strings.Contains(lower, kw) {
			score = score.Add(w)
		}
	}
	for kw, w := range bearishKeywords {
		if strings.Contains(lower, kw) {
			score = score.Add(w)
		}
	}
	return score
}

// CountRegulatory counts headlines touching regulation.
func CountRegulatory(titles []string) int {
	n := 0
	for _, t := range titles {
		if strings.Contains(strings.ToLower(t), "regulat") {
			n++
		}
	}
	return n
}

// ScoreHeadlines averages the per-headline scores and clamps to [-1, 1].
// An empty batch is neutral.
func ScoreHeadlines(titles []string) decimal.Decimal {
	if len(titles) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, t := range titles {
		total = total.Add(ScoreHeadline(t))
	}
	avg := total.Div(decimal.NewFromInt(int64(len(titles))))

	one := decimal.NewFromInt(1)
	if avg.GreaterThan(one) {
		return one
	}
	if avg.LessThan(one.Neg()) {
		return one.Neg()
	}
	return avg
}
