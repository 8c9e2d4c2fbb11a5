package game

// Phase is the lifecycle phase of a session.
type Phase int

const (
	PhasePlaying   Phase = iota // Timer running, answers accepted
	PhaseCompleted              // Last step answered correctly
	PhaseFailed                 // Time ran out
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseCompleted:
		return "completed"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// FeedbackKind classifies transient answer feedback.
type FeedbackKind int

const (
	FeedbackSuccess FeedbackKind = iota
	FeedbackError
)

// Feedback is shown after an answer until its delay elapses.
type Feedback struct {
	Kind    FeedbackKind
	Message string
}

// State is a snapshot of a session. Values returned by Engine.Snapshot are
// copies and safe to keep.
type State struct {
	Phase Phase

	// CurrentStepIndex is 0-based. It equals the step count once completed.
	CurrentStepIndex int

	Score         float64
	TimeRemaining int // seconds
	Streak        int
	MaxStreak     int

	// Selections is the ordered ingredient choice for the current sequence step.
	Selections []string

	Feedback *Feedback

	// FinalScorePercent is set once on entering PhaseCompleted.
	FinalScorePercent int

	CorrectAnswers   int
	IncorrectAnswers int

	// Exited is set by Engine.Exit.
	Exited bool
}

func (s State) clone() State {
	if s.Selections != nil {
		s.Selections = append([]string(nil), s.Selections...)
	}
	if s.Feedback != nil {
		fb := *s.Feedback
		s.Feedback = &fb
	}
	return s
}

func initialState(def Definition) State {
	return State{
		Phase:         PhasePlaying,
		TimeRemaining: def.Limit(),
	}
}

// Result is passed to the completion callback.
type Result struct {
	GameID            string
	Steps             int
	Score             float64
	FinalScorePercent int
	TimeRemaining     int
	TimeLimit         int
	CorrectAnswers    int
	IncorrectAnswers  int
	MaxStreak         int
}

// Answer describes one graded answer, passed to the answer callback.
type Answer struct {
	StepIndex     int
	Kind          Kind
	Value         string // option ID, or comma-separated ingredient IDs
	Correct       bool
	Points        float64
	TimeRemaining int
	Streak        int
}
