package game

import "math"

const (
	// scoreWindow is the reference window in seconds over which step scores
	// decay, independent of the game's own time limit.
	scoreWindow = 300

	MaxStepScore = 100.0
	MinStepScore = 50.0
)

// StepScore returns the points for a correct answer given with timeRemaining
// seconds left: 100 - (300 - timeRemaining)/3, kept within [50, 100].
func StepScore(timeRemaining int) float64 {
	s := MaxStepScore - float64(scoreWindow-timeRemaining)/3
	return math.Max(MinStepScore, math.Min(MaxStepScore, s))
}

// FinalScorePercent expresses score as a rounded percentage of the maximum
// reachable for steps steps. Returns 0 when steps is not positive.
func FinalScorePercent(score float64, steps int) int {
	if steps <= 0 {
		return 0
	}
	return int(math.Round(score / (float64(steps) * MaxStepScore) * 100))
}
