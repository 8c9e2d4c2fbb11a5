package play

import (
	"context"
	"time"

	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/store"
)

func (s *PlayScreen) ctx() context.Context {
	return context.Background()
}

func (s *PlayScreen) persistStart() {
	if s.deps.EventRepo == nil {
		return
	}
	err := s.deps.EventRepo.AppendGameEvent(s.ctx(), store.GameEventData{
		SessionID:     s.sessionID,
		GameID:        s.def.ID,
		Action:        store.ActionStart,
		StepsTotal:    len(s.def.Steps),
		TimeRemaining: s.def.Limit(),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("persist game start")
	}
}

func (s *PlayScreen) persistAnswer(a game.Answer) {
	if s.deps.EventRepo == nil {
		return
	}
	err := s.deps.EventRepo.AppendAnswerEvent(s.ctx(), store.AnswerEventData{
		SessionID:     s.sessionID,
		GameID:        s.def.ID,
		StepIndex:     a.StepIndex,
		StepKind:      string(a.Kind),
		Answer:        a.Value,
		Correct:       a.Correct,
		Points:        a.Points,
		TimeRemaining: a.TimeRemaining,
		Streak:        a.Streak,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("persist answer")
	}
}

func (s *PlayScreen) persistEnd(outcome string, st game.State) {
	if s.deps.EventRepo == nil {
		return
	}
	err := s.deps.EventRepo.AppendGameEvent(s.ctx(), store.GameEventData{
		SessionID:        s.sessionID,
		GameID:           s.def.ID,
		Action:           store.ActionEnd,
		Outcome:          outcome,
		Score:            st.Score,
		ScorePercent:     st.FinalScorePercent,
		StepsTotal:       len(s.def.Steps),
		StepsCompleted:   st.CurrentStepIndex,
		CorrectAnswers:   st.CorrectAnswers,
		IncorrectAnswers: st.IncorrectAnswers,
		TimeRemaining:    st.TimeRemaining,
		DurationSecs:     int(time.Since(s.startedAt).Seconds()),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("persist game end")
	}
}
