package play

// timerFiredMsg delivers a relay timer back into Update once its delay has
// elapsed.
type timerFiredMsg struct {
	ID uint64
}
