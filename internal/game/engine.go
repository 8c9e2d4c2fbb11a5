// Package game implements the cooking-game session engine: one play-through
// of a Definition with step grading, scoring, streaks and a countdown.
//
// An Engine is not safe for concurrent use. All of its methods and all of the
// timer callbacks it arms must run on one logical thread, which the
// loop.Scheduler passed in Options guarantees for callbacks.
package game

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/loop"
)

const (
	DefaultSuccessDelay = 1500 * time.Millisecond
	DefaultErrorDelay   = 1000 * time.Millisecond
	DefaultTickInterval = time.Second
)

// Options configures an Engine.
type Options struct {
	// Scheduler runs the countdown and feedback delays. Required.
	Scheduler loop.Scheduler

	SuccessDelay time.Duration
	ErrorDelay   time.Duration
	TickInterval time.Duration

	// OnComplete is called once when the session enters PhaseCompleted.
	OnComplete func(Result)
	// OnFail is called once when the time runs out.
	OnFail func(State)
	// OnExit is called once from Exit.
	OnExit func(State)
	// OnAnswer is called for every graded answer.
	OnAnswer func(Answer)

	// Logger defaults to the disabled zero value.
	Logger zerolog.Logger
}

func (o *Options) setDefaults() {
	if o.SuccessDelay <= 0 {
		o.SuccessDelay = DefaultSuccessDelay
	}
	if o.ErrorDelay <= 0 {
		o.ErrorDelay = DefaultErrorDelay
	}
	if o.TickInterval <= 0 {
		o.TickInterval = DefaultTickInterval
	}
}

// Engine drives one session.
//
// Timer expiry never interrupts an answer's feedback delay. When the countdown
// reaches zero while a success or error delay is pending, ticking stops and
// the expiry is deferred: the delay's own effect (advance, completion or
// feedback clear) is applied first and the session fails afterwards if it is
// still playing. Answers are rejected with ErrTimeExpired in between.
type Engine struct {
	def  Definition
	opts Options
	log  zerolog.Logger

	state State

	// gen invalidates callbacks armed before the last restart or teardown.
	gen     uint64
	ticker  loop.Timer
	pending loop.Timer // success advance or error clear

	advancing      bool
	expiryDeferred bool
	closed         bool
}

// New validates def and starts a session on it.
func New(def Definition, opts Options) (*Engine, error) {
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("game: nil scheduler")
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	opts.setDefaults()
	e := &Engine{
		def:  def.Clone(),
		opts: opts,
		log:  opts.Logger.With().Str("game", def.ID).Logger(),
	}
	e.start()
	e.log.Info().Int("steps", len(e.def.Steps)).Int("time_limit", e.def.Limit()).Msg("session started")
	return e, nil
}

// Definition returns the game being played.
func (e *Engine) Definition() Definition { return e.def }

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State { return e.state.clone() }

// CurrentStep returns the step being played, or nil once all are answered.
func (e *Engine) CurrentStep() Step {
	if e.state.CurrentStepIndex >= len(e.def.Steps) {
		return nil
	}
	return e.def.Steps[e.state.CurrentStepIndex]
}

// Closed reports whether Exit or Close has been called.
func (e *Engine) Closed() bool { return e.closed }

// SubmitSelection answers a selection step.
func (e *Engine) SubmitSelection(optionID string) error {
	return e.submitOption("submit selection", KindSelection, optionID)
}

// SubmitTemperature answers a temperature step.
func (e *Engine) SubmitTemperature(optionID string) error {
	return e.submitOption("submit temperature", KindTemperature, optionID)
}

func (e *Engine) submitOption(op string, kind Kind, optionID string) error {
	step, err := e.answerable(op, kind)
	if err != nil {
		return err
	}
	var opt Option
	var ok bool
	switch s := step.(type) {
	case SelectionStep:
		opt, ok = s.Option(optionID)
	case TemperatureStep:
		opt, ok = s.Option(optionID)
	}
	if !ok {
		return e.stepError(op, fmt.Errorf("%w %q", ErrUnknownOption, optionID))
	}
	e.grade(opt.Correct, optionID)
	return nil
}

// ToggleIngredient adds the ingredient to the current selection, or removes
// it if already selected. Selection order is kept.
func (e *Engine) ToggleIngredient(ingredientID string) error {
	const op = "toggle ingredient"
	step, err := e.answerable(op, KindSequence)
	if err != nil {
		return err
	}
	if _, ok := step.(SequenceStep).Ingredient(ingredientID); !ok {
		return e.stepError(op, fmt.Errorf("%w %q", ErrUnknownIngredient, ingredientID))
	}
	if i := slices.Index(e.state.Selections, ingredientID); i >= 0 {
		e.state.Selections = slices.Delete(e.state.Selections, i, i+1)
	} else {
		e.state.Selections = append(e.state.Selections, ingredientID)
	}
	return nil
}

// SubmitSequence grades the current selection against the correct order.
// The selection must contain every ingredient of the step; it is cleared
// after grading either way.
func (e *Engine) SubmitSequence() error {
	const op = "submit sequence"
	step, err := e.answerable(op, KindSequence)
	if err != nil {
		return err
	}
	seq := step.(SequenceStep)
	if len(e.state.Selections) != len(seq.Ingredients) {
		return e.stepError(op, fmt.Errorf("%w: %d of %d ingredients selected",
			ErrIncompleteSequence, len(e.state.Selections), len(seq.Ingredients)))
	}
	answer := strings.Join(e.state.Selections, ",")
	correct := slices.Equal(e.state.Selections, seq.CorrectOrder)
	e.state.Selections = nil
	e.grade(correct, answer)
	return nil
}

// Exit ends the session regardless of phase. Pending timers are cancelled and
// the exit callback fires once. Later calls return ErrClosed.
func (e *Engine) Exit() error {
	if e.closed {
		return ErrClosed
	}
	e.teardown()
	e.state.Exited = true
	e.log.Info().Stringer("phase", e.state.Phase).Msg("session exited")
	if e.opts.OnExit != nil {
		e.opts.OnExit(e.state.clone())
	}
	return nil
}

// Close cancels all pending timers without invoking any callback. It is used
// when the hosting view goes away and is safe to call repeatedly.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.teardown()
	e.log.Debug().Msg("session closed")
}

// Restart discards all progress and starts over from any phase.
func (e *Engine) Restart() error {
	if e.closed {
		return ErrClosed
	}
	e.start()
	e.log.Info().Msg("session restarted")
	return nil
}

func (e *Engine) start() {
	e.cancelTimers()
	e.gen++
	e.state = initialState(e.def)
	e.advancing = false
	e.expiryDeferred = false
	e.ticker = e.after(e.opts.TickInterval, e.tick)
}

func (e *Engine) teardown() {
	e.cancelTimers()
	e.gen++
	e.closed = true
}

func (e *Engine) cancelTimers() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
	e.stopPending()
}

func (e *Engine) stopPending() {
	if e.pending != nil {
		e.pending.Stop()
		e.pending = nil
	}
}

// after arms a callback that is dropped if the session was restarted or torn
// down in the meantime.
func (e *Engine) after(d time.Duration, f func()) loop.Timer {
	gen := e.gen
	return e.opts.Scheduler.AfterFunc(d, func() {
		if e.closed || gen != e.gen {
			return
		}
		f()
	})
}

func (e *Engine) answerable(op string, kind Kind) (Step, error) {
	switch {
	case e.closed:
		return nil, ErrClosed
	case e.state.Phase != PhasePlaying:
		return nil, fmt.Errorf("%s: %w (%s)", op, ErrNotPlaying, e.state.Phase)
	case e.expiryDeferred:
		return nil, fmt.Errorf("%s: %w", op, ErrTimeExpired)
	case e.advancing:
		return nil, e.stepError(op, ErrAdvancePending)
	}
	step := e.def.Steps[e.state.CurrentStepIndex]
	if step.Kind() != kind {
		return nil, e.stepError(op, fmt.Errorf("%w: want %s", ErrWrongStepKind, kind))
	}
	return step, nil
}

func (e *Engine) stepError(op string, err error) error {
	idx := e.state.CurrentStepIndex
	return &StepError{Op: op, Index: idx, Kind: e.def.Steps[idx].Kind(), Err: err}
}

func (e *Engine) tick() {
	e.ticker = nil
	if e.state.Phase != PhasePlaying {
		return
	}
	if e.state.TimeRemaining > 0 {
		e.state.TimeRemaining--
	}
	if e.state.TimeRemaining > 0 {
		e.ticker = e.after(e.opts.TickInterval, e.tick)
		return
	}
	if e.pending != nil {
		e.expiryDeferred = true
		e.log.Debug().Bool("advancing", e.advancing).Msg("expiry deferred until feedback delay ends")
		return
	}
	e.fail()
}

func (e *Engine) grade(correct bool, value string) {
	idx := e.state.CurrentStepIndex
	ans := Answer{
		StepIndex:     idx,
		Kind:          e.def.Steps[idx].Kind(),
		Value:         value,
		Correct:       correct,
		TimeRemaining: e.state.TimeRemaining,
	}

	// A new answer replaces the feedback of the previous one.
	e.stopPending()

	if correct {
		ans.Points = StepScore(e.state.TimeRemaining)
		e.state.Streak++
		e.state.MaxStreak = max(e.state.MaxStreak, e.state.Streak)
		e.state.CorrectAnswers++
		e.state.Score += ans.Points
		e.state.Feedback = &Feedback{
			Kind:    FeedbackSuccess,
			Message: fmt.Sprintf("Correct! +%.0f points", ans.Points),
		}
		e.advancing = true
		e.pending = e.after(e.opts.SuccessDelay, e.advance)
	} else {
		e.state.Streak = 0
		e.state.IncorrectAnswers++
		e.state.Feedback = &Feedback{Kind: FeedbackError, Message: incorrectMessage(ans.Kind)}
		e.pending = e.after(e.opts.ErrorDelay, e.clearFeedback)
	}
	ans.Streak = e.state.Streak

	e.log.Debug().
		Int("step", idx).
		Str("answer", value).
		Bool("correct", correct).
		Float64("points", ans.Points).
		Int("time_remaining", ans.TimeRemaining).
		Msg("answer graded")

	if e.opts.OnAnswer != nil {
		e.opts.OnAnswer(ans)
	}
}

func incorrectMessage(k Kind) string {
	if k == KindSequence {
		return "Not the right order, try again"
	}
	return "Not quite, try again"
}

func (e *Engine) advance() {
	e.pending = nil
	e.advancing = false
	e.state.Feedback = nil
	e.state.CurrentStepIndex++
	if e.state.CurrentStepIndex == len(e.def.Steps) {
		e.complete()
		return
	}
	e.resolveDeferredExpiry()
}

func (e *Engine) clearFeedback() {
	e.pending = nil
	e.state.Feedback = nil
	e.resolveDeferredExpiry()
}

func (e *Engine) resolveDeferredExpiry() {
	if e.expiryDeferred && e.state.Phase == PhasePlaying {
		e.fail()
	}
}

func (e *Engine) complete() {
	e.cancelTimers()
	e.expiryDeferred = false
	e.state.Phase = PhaseCompleted
	e.state.FinalScorePercent = FinalScorePercent(e.state.Score, len(e.def.Steps))
	res := Result{
		GameID:            e.def.ID,
		Steps:             len(e.def.Steps),
		Score:             e.state.Score,
		FinalScorePercent: e.state.FinalScorePercent,
		TimeRemaining:     e.state.TimeRemaining,
		TimeLimit:         e.def.Limit(),
		CorrectAnswers:    e.state.CorrectAnswers,
		IncorrectAnswers:  e.state.IncorrectAnswers,
		MaxStreak:         e.state.MaxStreak,
	}
	e.log.Info().
		Float64("score", res.Score).
		Int("percent", res.FinalScorePercent).
		Int("time_remaining", res.TimeRemaining).
		Msg("session completed")
	if e.opts.OnComplete != nil {
		e.opts.OnComplete(res)
	}
}

func (e *Engine) fail() {
	e.cancelTimers()
	e.expiryDeferred = false
	e.advancing = false
	e.state.TimeRemaining = 0
	e.state.Phase = PhaseFailed
	e.state.Feedback = nil
	e.state.Selections = nil
	e.log.Info().Int("step", e.state.CurrentStepIndex).Float64("score", e.state.Score).Msg("session failed")
	if e.opts.OnFail != nil {
		e.opts.OnFail(e.state.clone())
	}
}
