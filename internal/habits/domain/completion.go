package domain

// CompletionTier bands lifetime progress toward the hours goal.
type CompletionTier string

const (
	CompletionCompleted    CompletionTier = "completed"
	CompletionExcellent    CompletionTier = "excellent"
	CompletionGoodPace     CompletionTier = "good-pace"
	CompletionInProgress   CompletionTier = "in-progress"
	CompletionJustStarting CompletionTier = "just-starting"
)

type CompletionCategory struct {
	Status  string         `json:"status"`
	Tier    CompletionTier `json:"tier"`
	Color   string         `json:"color"`
	Message string         `json:"message"`
}

// CategorizeCompletion maps a completion percentage to one of five bands,
// each inclusive at its lower bound. Any float is accepted; negatives and
// NaN fall into the lowest band.
func CategorizeCompletion(pct float64) CompletionCategory {
	switch {
	case pct >= 100:
		return CompletionCategory{"Completed", CompletionCompleted, ColorGreen, "Goal reached!"}
	case pct >= 75:
		return CompletionCategory{"Excellent", CompletionExcellent, ColorBlue, "Almost at the goal"}
	case pct >= 50:
		return CompletionCategory{"Good pace", CompletionGoodPace, ColorYellow, "You're on the right path"}
	case pct >= 25:
		return CompletionCategory{"In progress", CompletionInProgress, ColorRed, "Keep it up"}
	default:
		return CompletionCategory{"Just starting", CompletionJustStarting, ColorGray, "Start your journey!"}
	}
}

// CompletionPercentage is minutes over the goal in minutes, clamped to
// [0, 100]. A goal of zero or less gives 0.
func CompletionPercentage(minutes float64, goalHours int) float64 {
	if goalHours <= 0 {
		return 0
	}
	pct := minutes / float64(goalHours*60) * 100
	switch {
	case pct > 100:
		return 100
	case pct < 0 || pct != pct:
		return 0
	}
	return pct
}
