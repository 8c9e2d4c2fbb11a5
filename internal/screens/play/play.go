// Package play hosts a running game. The engine's timers are armed on a
// loop.Relay and delivered back as tea.Tick messages, so every engine call
// and callback happens inside Update.
package play

import (
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/badges"
	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/loop"
	"github.com/abhisek/cookiz/internal/router"
	"github.com/abhisek/cookiz/internal/screen"
	"github.com/abhisek/cookiz/internal/screens/results"
	"github.com/abhisek/cookiz/internal/store"
	"github.com/abhisek/cookiz/internal/ui/layout"
)

// tick schedules a relay timer on the Bubble Tea runtime.
var tick = tea.Tick

// Timing overrides the engine delays. Zero values use the engine defaults.
type Timing struct {
	SuccessDelay time.Duration
	ErrorDelay   time.Duration
	TickInterval time.Duration
}

// Deps are shared by every play screen. Repositories may be nil.
type Deps struct {
	EventRepo store.EventRepo
	ScoreRepo store.ScoreRepo
	Timing    Timing
	Log       zerolog.Logger
}

// PlayScreen runs one game.
type PlayScreen struct {
	def    game.Definition
	deps   Deps
	log    zerolog.Logger
	relay  *loop.Relay
	engine *game.Engine
	badges *badges.Service

	sessionID string
	startedAt time.Time

	// lastPick is the option index of the latest answer, for feedback.
	lastPick int
	notice   string
	errMsg   string

	// next is set by engine callbacks and returned from Update.
	next tea.Cmd
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.StatusProvider = (*PlayScreen)(nil)
var _ screen.Closer = (*PlayScreen)(nil)

// New creates a play screen for def. The session starts in Init.
func New(def game.Definition, deps Deps) *PlayScreen {
	log := deps.Log.With().Str("component", "play").Str("game", def.ID).Logger()
	return &PlayScreen{
		def:      def,
		deps:     deps,
		log:      log,
		relay:    loop.NewRelay(),
		badges:   badges.NewService(deps.EventRepo, log),
		lastPick: -1,
	}
}

func (s *PlayScreen) Init() tea.Cmd {
	eng, err := game.New(s.def, game.Options{
		Scheduler:    s.relay,
		SuccessDelay: s.deps.Timing.SuccessDelay,
		ErrorDelay:   s.deps.Timing.ErrorDelay,
		TickInterval: s.deps.Timing.TickInterval,
		OnAnswer:     s.onAnswer,
		OnComplete:   s.onComplete,
		OnFail:       s.onFail,
		OnExit:       s.onExit,
		Logger:       s.log,
	})
	if err != nil {
		s.errMsg = err.Error()
		return nil
	}
	s.engine = eng
	s.beginSession()
	return s.flush()
}

func (s *PlayScreen) Title() string {
	return s.def.Title
}

// Status shows the countdown and streak in the header.
func (s *PlayScreen) Status() string {
	if s.engine == nil {
		return ""
	}
	st := s.engine.Snapshot()
	return fmt.Sprintf("⏱ %s   ★ %d", clock(st.TimeRemaining), st.Streak)
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "1-9", Description: "Choose"}}
	if step := s.currentStep(); step != nil && step.Kind() == game.KindSequence {
		hints = []layout.KeyHint{
			{Key: "1-9", Description: "Pick / unpick"},
			{Key: "Enter", Description: "Submit order"},
		}
	}
	return append(hints,
		layout.KeyHint{Key: "R", Description: "Restart"},
		layout.KeyHint{Key: "Esc", Description: "Quit game"},
	)
}

// Close releases the engine without firing callbacks.
func (s *PlayScreen) Close() {
	if s.engine != nil {
		s.engine.Close()
	}
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerFiredMsg:
		s.relay.Fire(msg.ID)
	case tea.KeyMsg:
		s.handleKey(msg.String())
	}
	return s, s.flush()
}

func (s *PlayScreen) handleKey(key string) {
	if s.engine == nil {
		if key == "esc" || key == "enter" {
			s.next = func() tea.Msg { return router.PopScreenMsg{} }
		}
		return
	}

	s.notice = ""
	switch key {
	case "esc":
		_ = s.engine.Exit()
		return
	case "r", "R":
		s.restart()
		return
	case "enter":
		s.report(s.engine.SubmitSequence())
		return
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		s.choose(int(key[0] - '1'))
	}
}

func (s *PlayScreen) choose(i int) {
	switch step := s.currentStep().(type) {
	case game.SelectionStep:
		if i < len(step.Options) {
			s.lastPick = i
			s.report(s.engine.SubmitSelection(step.Options[i].ID))
		}
	case game.TemperatureStep:
		if i < len(step.Options) {
			s.lastPick = i
			s.report(s.engine.SubmitTemperature(step.Options[i].ID))
		}
	case game.SequenceStep:
		if i < len(step.Ingredients) {
			s.report(s.engine.ToggleIngredient(step.Ingredients[i].ID))
		}
	}
}

// report turns rejected input into a notice under the step.
func (s *PlayScreen) report(err error) {
	switch {
	case err == nil, errors.Is(err, game.ErrAdvancePending), errors.Is(err, game.ErrWrongStepKind):
	case errors.Is(err, game.ErrIncompleteSequence):
		s.notice = "Pick every ingredient before submitting"
	case errors.Is(err, game.ErrTimeExpired), errors.Is(err, game.ErrNotPlaying):
		s.notice = "Time's up"
	default:
		s.log.Debug().Err(err).Msg("input rejected")
	}
}

func (s *PlayScreen) restart() {
	st := s.engine.Snapshot()
	if st.Phase == game.PhasePlaying {
		s.persistEnd(store.OutcomeExited, st)
	}
	if err := s.engine.Restart(); err != nil {
		return
	}
	s.lastPick = -1
	s.beginSession()
}

func (s *PlayScreen) beginSession() {
	s.sessionID = uuid.New().String()
	s.startedAt = time.Now()
	s.badges.StartSession(s.sessionID, s.def.ID)
	s.persistStart()
}

// flush turns newly armed relay timers into tick commands and returns them
// together with any follow-up queued by a callback.
func (s *PlayScreen) flush() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range s.relay.Drain() {
		id := p.ID
		cmds = append(cmds, tick(p.Delay, func(time.Time) tea.Msg {
			return timerFiredMsg{ID: id}
		}))
	}
	if s.next != nil {
		cmds = append(cmds, s.next)
		s.next = nil
	}
	return tea.Batch(cmds...)
}

func (s *PlayScreen) currentStep() game.Step {
	if s.engine == nil {
		return nil
	}
	return s.engine.CurrentStep()
}

func (s *PlayScreen) onAnswer(a game.Answer) {
	s.persistAnswer(a)
	if award := s.badges.ObserveAnswer(s.ctx(), a); award != nil {
		s.notice = fmt.Sprintf("%s %s badge: %s", award.Type.Icon(), award.Type.DisplayName(), award.Reason)
	}
}

func (s *PlayScreen) onComplete(r game.Result) {
	st := s.engine.Snapshot()
	s.persistEnd(store.OutcomeCompleted, st)

	var prev *store.BestScore
	var newBest bool
	if s.deps.ScoreRepo != nil {
		ctx := s.ctx()
		var err error
		if prev, err = s.deps.ScoreRepo.Best(ctx, r.GameID); err != nil {
			s.log.Warn().Err(err).Msg("load best score")
		}
		newBest, err = s.deps.ScoreRepo.RecordBest(ctx, store.BestScore{
			GameID:        r.GameID,
			SessionID:     s.sessionID,
			Score:         r.Score,
			ScorePercent:  r.FinalScorePercent,
			TimeRemaining: r.TimeRemaining,
			AchievedAt:    time.Now(),
		})
		if err != nil {
			s.log.Warn().Err(err).Msg("record best score")
		}
	}
	s.badges.AwardCompletion(s.ctx(), r)

	s.showResults(results.Summary{
		Title:     s.def.Title,
		Outcome:   store.OutcomeCompleted,
		State:     st,
		Steps:     len(s.def.Steps),
		TimeLimit: s.def.Limit(),
		Result:    &r,
		Previous:  prev,
		NewBest:   newBest,
		Badges:    append([]badges.Award(nil), s.badges.SessionBadges...),
	})
}

func (s *PlayScreen) onFail(st game.State) {
	s.persistEnd(store.OutcomeFailed, st)
	s.showResults(results.Summary{
		Title:     s.def.Title,
		Outcome:   store.OutcomeFailed,
		State:     st,
		Steps:     len(s.def.Steps),
		TimeLimit: s.def.Limit(),
		Badges:    append([]badges.Award(nil), s.badges.SessionBadges...),
	})
}

func (s *PlayScreen) onExit(st game.State) {
	if st.Phase == game.PhasePlaying {
		s.persistEnd(store.OutcomeExited, st)
	}
	s.next = func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *PlayScreen) showResults(sum results.Summary) {
	def, deps := s.def, s.deps
	replay := func() screen.Screen { return New(def, deps) }
	s.next = func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: results.New(sum, replay)}
	}
}

func clock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
