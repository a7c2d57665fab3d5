package domain

import "math"

// Tier is the severity of a weekly compliance result.
type Tier string

const (
	TierCompleted    Tier = "completed"
	TierNearComplete Tier = "near-complete"
	TierOnTrack      Tier = "on-track"
	TierBehind       Tier = "behind"
	TierNeutral      Tier = "neutral"
)

// Color tokens shared by compliance and completion results.
const (
	ColorGreen  = "#10B981"
	ColorBlue   = "#3B82F6"
	ColorYellow = "#F59E0B"
	ColorRed    = "#EF4444"
	ColorGray   = "#6B7280"
)

// StatusNoTarget is reported for habits without a weekly target.
const StatusNoTarget = "no target"

// Compliance is how far this week's minutes are along the weekly target.
type Compliance struct {
	Percentage float64 `json:"percentage"`
	Status     string  `json:"status"`
	Tier       Tier    `json:"tier"`
	Color      string  `json:"color"`
}

// WeeklyCompliance rates minutes against target. The percentage is rounded
// to one decimal and the 100/75/50 thresholds are inclusive. A target of
// zero or less yields the neutral "no target" result instead of dividing.
func WeeklyCompliance(minutesThisWeek float64, target int) Compliance {
	if target <= 0 {
		return Compliance{Percentage: 0, Status: StatusNoTarget, Tier: TierNeutral, Color: ColorGray}
	}

	pct := minutesThisWeek / float64(target) * 100
	c := Compliance{Percentage: roundTo(pct, 1)}
	switch {
	case pct >= 100:
		c.Status, c.Tier, c.Color = "Completed", TierCompleted, ColorGreen
	case pct >= 75:
		c.Status, c.Tier, c.Color = "Almost there", TierNearComplete, ColorBlue
	case pct >= 50:
		c.Status, c.Tier, c.Color = "On track", TierOnTrack, ColorYellow
	default:
		c.Status, c.Tier, c.Color = "Behind", TierBehind, ColorRed
	}
	return c
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
