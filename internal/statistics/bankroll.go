package statistics

import "github.com/swarm-blackjack/trainer/internal/money"

// RoundResult is one completed round's outcome, the slice of which
// BankrollStats aggregates over — grounded on
// original_source/core/statistics/bankroll.py's BankrollManager.
type RoundResult struct {
	Wagered money.Amount `json:"wagered"`
	Net     money.Amount `json:"net"`
}

// BankrollStats aggregates session performance over completed rounds.
type BankrollStats struct {
	RoundsPlayed  int
	TotalWagered  money.Amount
	TotalNet      money.Amount
	BiggestWin    money.Amount
	BiggestLoss   money.Amount
	CurrentStreak int // positive: winning streak, negative: losing streak
}

// Aggregate computes BankrollStats over rounds in chronological order.
func Aggregate(rounds []RoundResult) BankrollStats {
	stats := BankrollStats{
		TotalWagered: money.Zero,
		TotalNet:     money.Zero,
		BiggestWin:   money.Zero,
		BiggestLoss:  money.Zero,
	}
	streak := 0
	for _, r := range rounds {
		stats.RoundsPlayed++
		stats.TotalWagered = stats.TotalWagered.Add(r.Wagered)
		stats.TotalNet = stats.TotalNet.Add(r.Net)

		if r.Net.GreaterThan(stats.BiggestWin) {
			stats.BiggestWin = r.Net
		}
		if r.Net.LessThan(stats.BiggestLoss) {
			stats.BiggestLoss = r.Net
		}

		switch {
		case r.Net.IsZero():
			streak = 0
		case r.Net.IsNegative():
			if streak > 0 {
				streak = 0
			}
			streak--
		default:
			if streak < 0 {
				streak = 0
			}
			streak++
		}
	}
	stats.CurrentStreak = streak
	return stats
}

// WinRate returns wins divided by RoundsPlayed, or 0 if no rounds were
// played. The caller supplies the win count; BankrollStats does not track it.
func (s BankrollStats) WinRate(wins int) float64 {
	if s.RoundsPlayed == 0 {
		return 0
	}
	return float64(wins) / float64(s.RoundsPlayed)
}
