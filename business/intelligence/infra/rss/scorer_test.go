package rss

import (
	"testing"
)

func TestScoreHeadline(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"bullish single", "CORE price surge continues", "0.3"},
		{"bearish single", "Exchange hack drains funds", "-0.4"},
		{"mixed cancels", "Rally fades as lawsuit looms", "0"},
		{"neutral", "Core chain publishes roadmap", "0"},
		{"case insensitive", "BULLISH momentum builds", "0.4"},
		{"stacked bearish", "Crash deepens after exploit report", "-0.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreHeadline(tt.title)
			if got.String() != tt.want {
				t.Errorf("ScoreHeadline(%q) = %s, want %s", tt.title, got.String(), tt.want)
			}
		})
	}
}

func TestCountRegulatory(t *testing.T) {
	titles := []string{
		"Regulators weigh new exchange rules",
		"SEC regulation draft leaks",
		"CORE price surge continues",
		"Exchange faces regulatory scrutiny in EU",
	}

	if got := CountRegulatory(titles); got != 3 {
		t.Errorf("CountRegulatory = %d, want 3", got)
	}
	if got := CountRegulatory(nil); got != 0 {
		t.Errorf("CountRegulatory(nil) = %d, want 0", got)
	}
}

func TestScoreHeadlines(t *testing.T) {
	tests := []struct {
		name   string
		titles []string
		want   string
	}{
		{"empty batch is neutral", nil, "0"},
		{
			"averages across batch",
			[]string{
				"CORE price surge continues",       // 0.3
				"Exchange hack drains funds",       // -0.4
				"Core chain publishes roadmap",     // 0
				"Regulator approval boosts market", // 0.3
			},
			"0.05",
		},
		{
			"clamped to minus one",
			[]string{"crash hack exploit fraud bearish ban lawsuit selloff plunge"},
			"-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScoreHeadlines(tt.titles)
			if got.String() != tt.want {
				t.Errorf("ScoreHeadlines(%v) = %s, want %s", tt.titles, got.String(), tt.want)
			}
		})
	}
}
