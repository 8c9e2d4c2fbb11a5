package badges

// BaseStreakThreshold is the first streak length that awards a badge.
const BaseStreakThreshold = 3

// NextStreakThreshold returns the next streak milestone above the current streak length.
func NextStreakThreshold(current int) int {
	thresholds := []int{3, 5, 10}
	for _, t := range thresholds {
		if t > current {
			return t
		}
	}
	// Beyond 10, award every 5.
	return ((current / 5) + 1) * 5
}
