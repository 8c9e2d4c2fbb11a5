package game

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cookiz/internal/loop"
)

func selection(prompt, correctID string, ids ...string) SelectionStep {
	s := SelectionStep{Prompt: prompt}
	for _, id := range ids {
		s.Options = append(s.Options, Option{ID: id, Label: id, Correct: id == correctID})
	}
	return s
}

func twoSelectionGame() Definition {
	return Definition{
		ID:    "knife-skills",
		Title: "Knife Skills",
		Steps: []Step{
			selection("Which knife dices an onion?", "chef", "chef", "bread", "paring"),
			selection("Which cut is smallest?", "brunoise", "brunoise", "batonnet", "chiffonade"),
		},
	}
}

func sauceGame() Definition {
	return Definition{
		ID:    "roux",
		Title: "Make a Roux",
		Steps: []Step{
			SequenceStep{
				Prompt: "Order the steps for a roux",
				Ingredients: []Ingredient{
					{ID: "butter", Name: "Melt butter"},
					{ID: "flour", Name: "Whisk in flour"},
					{ID: "milk", Name: "Add milk"},
				},
				CorrectOrder: []string{"butter", "flour", "milk"},
			},
			TemperatureStep{
				Scenario: "Searing a steak",
				Options: []Option{
					{ID: "low", Label: "120°C"},
					{ID: "high", Label: "230°C", Correct: true},
				},
			},
		},
	}
}

type harness struct {
	clock   *loop.Virtual
	engine  *Engine
	results []Result
	fails   []State
	exits   []State
	answers []Answer
}

func newHarness(t *testing.T, def Definition) *harness {
	t.Helper()
	h := &harness{clock: loop.NewVirtual(time.Unix(0, 0))}
	e, err := New(def, Options{
		Scheduler:  h.clock,
		OnComplete: func(r Result) { h.results = append(h.results, r) },
		OnFail:     func(s State) { h.fails = append(h.fails, s) },
		OnExit:     func(s State) { h.exits = append(h.exits, s) },
		OnAnswer:   func(a Answer) { h.answers = append(h.answers, a) },
	})
	require.NoError(t, err)
	h.engine = e
	return h
}

func (h *harness) advance(d time.Duration) { h.clock.Advance(d) }

func TestNew_InitialState(t *testing.T) {
	h := newHarness(t, twoSelectionGame())
	s := h.engine.Snapshot()

	assert.Equal(t, PhasePlaying, s.Phase)
	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.Zero(t, s.Score)
	assert.Equal(t, DefaultTimeLimit, s.TimeRemaining)
	assert.Zero(t, s.Streak)
	assert.Nil(t, s.Feedback)
	assert.Equal(t, 1, h.clock.Pending(), "only the ticker is armed")
}

func TestNew_RejectsDegenerateDefinitions(t *testing.T) {
	clock := loop.NewVirtual(time.Unix(0, 0))
	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{"no steps", Definition{ID: "g", Title: "G"}, ErrNoSteps},
		{"missing id", Definition{Title: "G", Steps: twoSelectionGame().Steps}, ErrInvalidDefinition},
		{"negative limit", Definition{ID: "g", Title: "G", TimeLimit: -1, Steps: twoSelectionGame().Steps}, ErrInvalidDefinition},
		{"no correct option", Definition{ID: "g", Title: "G", Steps: []Step{
			SelectionStep{Prompt: "p", Options: []Option{{ID: "a"}, {ID: "b"}}},
		}}, ErrInvalidDefinition},
		{"order not a permutation", Definition{ID: "g", Title: "G", Steps: []Step{
			SequenceStep{
				Prompt:       "p",
				Ingredients:  []Ingredient{{ID: "a"}, {ID: "b"}},
				CorrectOrder: []string{"a", "a"},
			},
		}}, ErrInvalidDefinition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.def, Options{Scheduler: clock})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Zero(t, clock.Pending())
}

func TestScenario_TwoSelectionSteps(t *testing.T) {
	h := newHarness(t, twoSelectionGame())

	h.advance(20 * time.Second)
	require.Equal(t, 280, h.engine.Snapshot().TimeRemaining)
	require.NoError(t, h.engine.SubmitSelection("chef"))

	s := h.engine.Snapshot()
	assert.InDelta(t, 93.33, s.Score, 0.01)
	require.NotNil(t, s.Feedback)
	assert.Equal(t, FeedbackSuccess, s.Feedback.Kind)
	assert.Equal(t, 0, s.CurrentStepIndex, "advance waits for the success delay")

	h.advance(30 * time.Second)
	s = h.engine.Snapshot()
	require.Equal(t, 250, s.TimeRemaining)
	assert.Equal(t, 1, s.CurrentStepIndex)
	assert.Nil(t, s.Feedback)

	require.NoError(t, h.engine.SubmitSelection("brunoise"))
	h.advance(DefaultSuccessDelay)

	s = h.engine.Snapshot()
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.Equal(t, 88, s.FinalScorePercent)
	assert.Equal(t, 2, s.CurrentStepIndex)
	assert.Equal(t, 2, s.Streak)

	require.Len(t, h.results, 1)
	assert.Equal(t, 88, h.results[0].FinalScorePercent)
	assert.Equal(t, "knife-skills", h.results[0].GameID)
	assert.Zero(t, h.clock.Pending(), "no timers survive completion")

	// Time keeps passing without effect.
	h.advance(time.Minute)
	assert.Equal(t, s, h.engine.Snapshot())
	assert.Len(t, h.results, 1)
}

func TestIncorrectAnswer_ResetsStreakAndClearsFeedback(t *testing.T) {
	h := newHarness(t, Definition{
		ID: "g", Title: "G",
		Steps: []Step{
			selection("one", "a", "a", "b"),
			selection("two", "a", "a", "b"),
			selection("three", "a", "a", "b"),
		},
	})

	require.NoError(t, h.engine.SubmitSelection("a"))
	h.advance(DefaultSuccessDelay)
	require.NoError(t, h.engine.SubmitSelection("a"))
	h.advance(DefaultSuccessDelay)
	require.Equal(t, 2, h.engine.Snapshot().Streak)

	before := h.engine.Snapshot()
	require.NoError(t, h.engine.SubmitSelection("b"))
	s := h.engine.Snapshot()
	assert.Zero(t, s.Streak)
	assert.Equal(t, 2, s.MaxStreak)
	assert.Equal(t, before.Score, s.Score)
	assert.Equal(t, before.CurrentStepIndex, s.CurrentStepIndex)
	require.NotNil(t, s.Feedback)
	assert.Equal(t, FeedbackError, s.Feedback.Kind)

	h.advance(DefaultErrorDelay)
	s = h.engine.Snapshot()
	assert.Nil(t, s.Feedback)
	assert.Equal(t, 2, s.CurrentStepIndex)
	assert.Equal(t, PhasePlaying, s.Phase)
}

func TestAnswerDuringErrorFeedback_ReplacesIt(t *testing.T) {
	h := newHarness(t, twoSelectionGame())

	require.NoError(t, h.engine.SubmitSelection("bread"))
	h.advance(DefaultErrorDelay / 2)
	require.NoError(t, h.engine.SubmitSelection("chef"))

	// The first error-clear would have fired here; it must not wipe the success feedback.
	h.advance(DefaultErrorDelay / 2)
	s := h.engine.Snapshot()
	require.NotNil(t, s.Feedback)
	assert.Equal(t, FeedbackSuccess, s.Feedback.Kind)

	h.advance(DefaultSuccessDelay)
	assert.Equal(t, 1, h.engine.Snapshot().CurrentStepIndex)
}

func TestAnswerDuringSuccessDelay_Rejected(t *testing.T) {
	h := newHarness(t, twoSelectionGame())
	require.NoError(t, h.engine.SubmitSelection("chef"))

	err := h.engine.SubmitSelection("chef")
	assert.ErrorIs(t, err, ErrAdvancePending)
	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Index)
	assert.Len(t, h.answers, 1)
}

func TestStepScoreBounds(t *testing.T) {
	for remaining := 0; remaining <= 900; remaining++ {
		s := StepScore(remaining)
		if s < MinStepScore || s > MaxStepScore {
			t.Fatalf("StepScore(%d) = %v, outside [%v, %v]", remaining, s, MinStepScore, MaxStepScore)
		}
	}
	assert.Equal(t, 100.0, StepScore(300))
	assert.Equal(t, 50.0, StepScore(150))
	assert.Equal(t, 50.0, StepScore(0))
	assert.Equal(t, 100.0, StepScore(600), "long limits are capped")
	assert.InDelta(t, 83.33, StepScore(250), 0.01)
}

func TestFinalScorePercent(t *testing.T) {
	assert.Equal(t, 0, FinalScorePercent(0, 0))
	assert.Equal(t, 100, FinalScorePercent(300, 3))
	assert.Equal(t, 50, FinalScorePercent(100, 2))
	assert.Equal(t, 88, FinalScorePercent(93.333333+83.333333, 2))
}

func TestSequence_OrderSensitive(t *testing.T) {
	h := newHarness(t, sauceGame())

	for _, id := range []string{"butter", "milk", "flour"} {
		require.NoError(t, h.engine.ToggleIngredient(id))
	}
	require.NoError(t, h.engine.SubmitSequence())

	s := h.engine.Snapshot()
	require.NotNil(t, s.Feedback)
	assert.Equal(t, FeedbackError, s.Feedback.Kind, "same set, wrong order")
	assert.Empty(t, s.Selections)
	assert.Zero(t, s.Score)

	h.advance(DefaultErrorDelay)
	for _, id := range []string{"butter", "flour", "milk"} {
		require.NoError(t, h.engine.ToggleIngredient(id))
	}
	require.NoError(t, h.engine.SubmitSequence())
	s = h.engine.Snapshot()
	assert.Equal(t, FeedbackSuccess, s.Feedback.Kind)
	assert.Empty(t, s.Selections)

	require.Len(t, h.answers, 2)
	assert.Equal(t, "butter,milk,flour", h.answers[0].Value)
	assert.False(t, h.answers[0].Correct)
	assert.True(t, h.answers[1].Correct)
}

func TestToggleIngredient_PreservesOrder(t *testing.T) {
	h := newHarness(t, sauceGame())

	require.NoError(t, h.engine.ToggleIngredient("milk"))
	require.NoError(t, h.engine.ToggleIngredient("butter"))
	require.NoError(t, h.engine.ToggleIngredient("flour"))
	require.NoError(t, h.engine.ToggleIngredient("milk"))
	assert.Equal(t, []string{"butter", "flour"}, h.engine.Snapshot().Selections)

	require.NoError(t, h.engine.ToggleIngredient("milk"))
	assert.Equal(t, []string{"butter", "flour", "milk"}, h.engine.Snapshot().Selections)

	err := h.engine.ToggleIngredient("salt")
	assert.ErrorIs(t, err, ErrUnknownIngredient)
}

func TestSubmitSequence_Incomplete(t *testing.T) {
	h := newHarness(t, sauceGame())
	require.NoError(t, h.engine.ToggleIngredient("butter"))

	err := h.engine.SubmitSequence()
	assert.ErrorIs(t, err, ErrIncompleteSequence)
	assert.Equal(t, []string{"butter"}, h.engine.Snapshot().Selections, "rejected submit keeps selection")
	assert.Empty(t, h.answers)
}

func TestWrongStepKind(t *testing.T) {
	h := newHarness(t, sauceGame())

	tests := []struct {
		name string
		call func() error
	}{
		{"selection", func() error { return h.engine.SubmitSelection("high") }},
		{"temperature", func() error { return h.engine.SubmitTemperature("high") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.ErrorIs(t, err, ErrWrongStepKind)
			var se *StepError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, KindSequence, se.Kind)
		})
	}

	// Move to the temperature step.
	for _, id := range []string{"butter", "flour", "milk"} {
		require.NoError(t, h.engine.ToggleIngredient(id))
	}
	require.NoError(t, h.engine.SubmitSequence())
	h.advance(DefaultSuccessDelay)

	assert.ErrorIs(t, h.engine.ToggleIngredient("butter"), ErrWrongStepKind)
	assert.ErrorIs(t, h.engine.SubmitSequence(), ErrWrongStepKind)
	assert.ErrorIs(t, h.engine.SubmitTemperature("nope"), ErrUnknownOption)
	require.NoError(t, h.engine.SubmitTemperature("high"))
	h.advance(DefaultSuccessDelay)
	assert.Equal(t, PhaseCompleted, h.engine.Snapshot().Phase)
}

func TestTimerExpiry_Fails(t *testing.T) {
	h := newHarness(t, twoSelectionGame())

	h.advance(299 * time.Second)
	s := h.engine.Snapshot()
	assert.Equal(t, 1, s.TimeRemaining)
	assert.Equal(t, PhasePlaying, s.Phase)

	h.advance(time.Second)
	s = h.engine.Snapshot()
	assert.Equal(t, 0, s.TimeRemaining)
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Zero(t, s.Score)
	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.Len(t, h.fails, 1)
	assert.Zero(t, h.clock.Pending())

	assert.ErrorIs(t, h.engine.SubmitSelection("chef"), ErrNotPlaying)

	h.advance(time.Hour)
	assert.Equal(t, 0, h.engine.Snapshot().TimeRemaining)
	assert.Len(t, h.fails, 1)
}

func TestTimerExpiry_DeferredBehindErrorFeedback(t *testing.T) {
	def := twoSelectionGame()
	def.TimeLimit = 3
	h := newHarness(t, def)

	h.advance(2500 * time.Millisecond)
	require.NoError(t, h.engine.SubmitSelection("bread"))

	h.advance(500 * time.Millisecond) // countdown hits zero at t=3s
	s := h.engine.Snapshot()
	assert.Equal(t, 0, s.TimeRemaining)
	assert.Equal(t, PhasePlaying, s.Phase, "expiry waits for the feedback delay")
	require.NotNil(t, s.Feedback)
	assert.ErrorIs(t, h.engine.SubmitSelection("chef"), ErrTimeExpired)

	h.advance(500 * time.Millisecond) // error clear at t=3.5s
	s = h.engine.Snapshot()
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Nil(t, s.Feedback)
	assert.Len(t, h.fails, 1)
}

func TestTimerExpiry_DeferredBehindSuccessAdvance(t *testing.T) {
	def := twoSelectionGame()
	def.TimeLimit = 3
	h := newHarness(t, def)

	h.advance(2500 * time.Millisecond)
	require.NoError(t, h.engine.SubmitSelection("chef"))
	h.advance(time.Second) // t=3.5s, expiry deferred
	assert.Equal(t, PhasePlaying, h.engine.Snapshot().Phase)

	h.advance(time.Second) // advance at t=4s, then fail
	s := h.engine.Snapshot()
	assert.Equal(t, PhaseFailed, s.Phase)
	assert.Equal(t, 1, s.CurrentStepIndex, "advance applied before expiry")
	assert.InDelta(t, StepScore(1), s.Score, 0.001)
	assert.Empty(t, h.results)
}

func TestTimerExpiry_LastStepStillCompletes(t *testing.T) {
	def := Definition{ID: "g", Title: "G", TimeLimit: 2, Steps: []Step{selection("p", "a", "a", "b")}}
	h := newHarness(t, def)

	h.advance(1900 * time.Millisecond)
	require.NoError(t, h.engine.SubmitSelection("a"))
	h.advance(5 * time.Second)

	s := h.engine.Snapshot()
	assert.Equal(t, PhaseCompleted, s.Phase)
	assert.Equal(t, 0, s.TimeRemaining)
	assert.Equal(t, 50, s.FinalScorePercent)
	assert.Len(t, h.results, 1)
	assert.Empty(t, h.fails)
}

func TestRestart_ReturnsToInitialState(t *testing.T) {
	h := newHarness(t, sauceGame())
	initial := h.engine.Snapshot()

	drive := map[string]func(){
		"mid selection": func() {
			_ = h.engine.ToggleIngredient("milk")
		},
		"after error": func() {
			for _, id := range []string{"milk", "flour", "butter"} {
				_ = h.engine.ToggleIngredient(id)
			}
			_ = h.engine.SubmitSequence()
			h.advance(10 * time.Second)
		},
		"completed": func() {
			for _, id := range []string{"butter", "flour", "milk"} {
				_ = h.engine.ToggleIngredient(id)
			}
			_ = h.engine.SubmitSequence()
			h.advance(DefaultSuccessDelay)
			_ = h.engine.SubmitTemperature("high")
			h.advance(DefaultSuccessDelay)
		},
		"failed": func() {
			h.advance(10 * time.Minute)
		},
	}
	for name, f := range drive {
		t.Run(name, func(t *testing.T) {
			f()
			require.NoError(t, h.engine.Restart())
			if diff := cmp.Diff(initial, h.engine.Snapshot()); diff != "" {
				t.Errorf("state after restart mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, 1, h.clock.Pending(), "only a fresh ticker remains")

			h.advance(time.Second)
			assert.Equal(t, DefaultTimeLimit-1, h.engine.Snapshot().TimeRemaining)
			require.NoError(t, h.engine.Restart())
		})
	}
}

func TestRestart_DropsStaleCallbacks(t *testing.T) {
	h := newHarness(t, twoSelectionGame())
	require.NoError(t, h.engine.SubmitSelection("chef"))
	h.advance(500 * time.Millisecond)
	require.NoError(t, h.engine.Restart())

	h.advance(2 * time.Second)
	s := h.engine.Snapshot()
	assert.Equal(t, 0, s.CurrentStepIndex)
	assert.Nil(t, s.Feedback)
	assert.Equal(t, DefaultTimeLimit-2, s.TimeRemaining)
}

func TestExit_CancelsTimersAndFiresOnce(t *testing.T) {
	h := newHarness(t, twoSelectionGame())
	require.NoError(t, h.engine.SubmitSelection("bread"))

	require.NoError(t, h.engine.Exit())
	assert.Zero(t, h.clock.Pending())
	require.Len(t, h.exits, 1)
	assert.True(t, h.exits[0].Exited)

	frozen := h.engine.Snapshot()
	h.advance(time.Hour)
	assert.Equal(t, frozen, h.engine.Snapshot())

	assert.ErrorIs(t, h.engine.Exit(), ErrClosed)
	assert.ErrorIs(t, h.engine.Restart(), ErrClosed)
	assert.ErrorIs(t, h.engine.SubmitSelection("chef"), ErrClosed)
	assert.Len(t, h.exits, 1)
}

func TestExit_FromCompleted(t *testing.T) {
	def := Definition{ID: "g", Title: "G", Steps: []Step{selection("p", "a", "a", "b")}}
	h := newHarness(t, def)
	require.NoError(t, h.engine.SubmitSelection("a"))
	h.advance(DefaultSuccessDelay)
	require.Equal(t, PhaseCompleted, h.engine.Snapshot().Phase)

	require.NoError(t, h.engine.Exit())
	require.Len(t, h.exits, 1)
	assert.Equal(t, PhaseCompleted, h.exits[0].Phase)
}

func TestClose_Silent(t *testing.T) {
	h := newHarness(t, twoSelectionGame())
	require.NoError(t, h.engine.SubmitSelection("chef"))

	h.engine.Close()
	h.engine.Close()
	assert.True(t, h.engine.Closed())
	assert.Zero(t, h.clock.Pending())
	assert.Empty(t, h.exits)

	h.advance(time.Hour)
	assert.Empty(t, h.results)
	assert.Empty(t, h.fails)
}

func TestSnapshot_IsACopy(t *testing.T) {
	h := newHarness(t, sauceGame())
	require.NoError(t, h.engine.ToggleIngredient("butter"))

	s := h.engine.Snapshot()
	s.Selections[0] = "milk"
	assert.Equal(t, []string{"butter"}, h.engine.Snapshot().Selections)
}

func TestIndexNeverExceedsStepCount(t *testing.T) {
	def := Definition{ID: "g", Title: "G", Steps: []Step{
		selection("1", "a", "a", "b"),
		selection("2", "b", "a", "b"),
		selection("3", "a", "a", "b"),
	}}
	h := newHarness(t, def)
	answers := []string{"b", "a", "a", "b", "b", "a"}
	for _, a := range answers {
		_ = h.engine.SubmitSelection(a)
		h.advance(DefaultSuccessDelay)
		s := h.engine.Snapshot()
		if s.CurrentStepIndex > len(def.Steps) {
			t.Fatalf("CurrentStepIndex = %d, exceeds %d", s.CurrentStepIndex, len(def.Steps))
		}
	}
	assert.Equal(t, PhaseCompleted, h.engine.Snapshot().Phase)
	assert.Equal(t, 3, h.engine.Snapshot().CurrentStepIndex)
}

func TestNew_CustomDelays(t *testing.T) {
	clock := loop.NewVirtual(time.Unix(0, 0))
	e, err := New(twoSelectionGame(), Options{
		Scheduler:    clock,
		SuccessDelay: 200 * time.Millisecond,
		TickInterval: 100 * time.Millisecond,
	})
	require.NoError(t, err)

	clock.Advance(time.Second)
	assert.Equal(t, DefaultTimeLimit-10, e.Snapshot().TimeRemaining)

	require.NoError(t, e.SubmitSelection("chef"))
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 1, e.Snapshot().CurrentStepIndex)
}
