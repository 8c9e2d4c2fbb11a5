// Package simulate plays a game headlessly with a script of answers.
// By default it runs on a virtual clock, so content authors can check how
// scoring and timing work out without waiting. Realtime runs the same
// script on a wall-clock loop with the configured delays.
package simulate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/game"
)

// Move is one scripted answer.
type Move struct {
	// Think is the time spent before answering.
	Think time.Duration
	// Value is an option ID, or comma-separated ingredient IDs for sequence
	// steps. Empty means the correct answer.
	Value string
}

// Options tunes a run. Zero delays use the engine defaults.
type Options struct {
	SuccessDelay time.Duration
	ErrorDelay   time.Duration
	TickInterval time.Duration

	// RunOut lets the clock run to the end if the moves leave the game
	// unfinished.
	RunOut bool

	// Realtime plays on the wall clock instead of the virtual one.
	Realtime bool

	Logger zerolog.Logger
}

// Rejection records a move the engine refused.
type Rejection struct {
	Move int // 0-based
	Err  error
}

// Report is the outcome of a run.
type Report struct {
	Answers  []game.Answer
	Rejected []Rejection
	Final    game.State
	Result   *game.Result // set when the game was completed
	Elapsed  time.Duration
}

// realtimePoll is how often a run rechecks an engine whose timers have not
// caught up with the clock yet.
const realtimePoll = 10 * time.Millisecond

// Run plays def with moves and returns what happened. After each move the
// clock moves past the feedback delay so the next move sees the next step
// (or the same step again after a wrong answer). A realtime run stops with
// ctx's error when ctx ends.
func Run(ctx context.Context, def game.Definition, moves []Move, opts Options) (*Report, error) {
	var c clock = newVirtualClock()
	if opts.Realtime {
		c = newWallClock()
	}
	defer c.close()
	rep := &Report{}

	var eng *game.Engine
	var err error
	if runErr := c.run(func() {
		eng, err = game.New(def, game.Options{
			Scheduler:    c,
			SuccessDelay: opts.SuccessDelay,
			ErrorDelay:   opts.ErrorDelay,
			TickInterval: opts.TickInterval,
			OnAnswer:     func(a game.Answer) { rep.Answers = append(rep.Answers, a) },
			OnComplete:   func(r game.Result) { rep.Result = &r },
			Logger:       opts.Logger,
		})
	}); runErr != nil {
		return nil, runErr
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.run(eng.Close) }()

	snapshot := func() game.State {
		var st game.State
		_ = c.run(func() { st = eng.Snapshot() })
		return st
	}
	playing := func() bool { return snapshot().Phase == game.PhasePlaying }
	settleDelay := max(orDefault(opts.SuccessDelay, game.DefaultSuccessDelay), orDefault(opts.ErrorDelay, game.DefaultErrorDelay))
	settle := func() error {
		if err := c.sleep(ctx, settleDelay); err != nil {
			return err
		}
		for {
			st := snapshot()
			if st.Phase != game.PhasePlaying || st.Feedback == nil {
				return nil
			}
			if err := c.sleep(ctx, realtimePoll); err != nil {
				return err
			}
		}
	}

	for i, m := range moves {
		if !playing() {
			break
		}
		if err := c.sleep(ctx, m.Think); err != nil {
			return nil, err
		}
		if !playing() {
			break
		}
		var subErr error
		if err := c.run(func() { subErr = submit(eng, m.Value) }); err != nil {
			return nil, err
		}
		if subErr != nil {
			rep.Rejected = append(rep.Rejected, Rejection{Move: i, Err: subErr})
			continue
		}
		if err := settle(); err != nil {
			return nil, err
		}
	}

	if opts.RunOut && playing() {
		tick := orDefault(opts.TickInterval, game.DefaultTickInterval)
		if err := c.sleep(ctx, time.Duration(def.Limit()+1)*tick+settleDelay); err != nil {
			return nil, err
		}
		for playing() {
			if err := c.sleep(ctx, realtimePoll); err != nil {
				return nil, err
			}
		}
	}

	rep.Final = snapshot()
	rep.Elapsed = c.elapsed()
	return rep, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func submit(eng *game.Engine, value string) error {
	step := eng.CurrentStep()
	if step == nil {
		return game.ErrNotPlaying
	}
	if value == "" {
		value = CorrectValue(step)
	}
	switch step.Kind() {
	case game.KindSelection:
		return eng.SubmitSelection(value)
	case game.KindTemperature:
		return eng.SubmitTemperature(value)
	case game.KindSequence:
		for _, id := range eng.Snapshot().Selections {
			if err := eng.ToggleIngredient(id); err != nil {
				return err
			}
		}
		for _, id := range strings.Split(value, ",") {
			if err := eng.ToggleIngredient(strings.TrimSpace(id)); err != nil {
				return err
			}
		}
		return eng.SubmitSequence()
	}
	return fmt.Errorf("unsupported step kind %s", step.Kind())
}

// CorrectValue returns the move value that answers step correctly.
func CorrectValue(step game.Step) string {
	switch s := step.(type) {
	case game.SelectionStep:
		return correctOption(s.Options)
	case game.TemperatureStep:
		return correctOption(s.Options)
	case game.SequenceStep:
		return strings.Join(s.CorrectOrder, ",")
	}
	return ""
}

func correctOption(opts []game.Option) string {
	for _, o := range opts {
		if o.Correct {
			return o.ID
		}
	}
	return ""
}

// Perfect returns one correct move per step of def.
func Perfect(def game.Definition, think time.Duration) []Move {
	moves := make([]Move, len(def.Steps))
	for i := range moves {
		moves[i] = Move{Think: think}
	}
	return moves
}

// ParseMoves builds moves from CLI values. "-" or "" means the correct
// answer.
func ParseMoves(values []string, think time.Duration) []Move {
	moves := make([]Move, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "-" {
			v = ""
		}
		moves[i] = Move{Think: think, Value: v}
	}
	return moves
}
