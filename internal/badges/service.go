package badges

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/store"
)

// Service awards badges and tracks those earned in the current session.
type Service struct {
	eventRepo store.EventRepo
	log       zerolog.Logger
	now       func() time.Time

	sessionID     string
	gameID        string
	nextThreshold int

	// SessionBadges accumulates badges awarded during the current session.
	SessionBadges []Award
}

// NewService creates a badge service. eventRepo may be nil.
func NewService(eventRepo store.EventRepo, log zerolog.Logger) *Service {
	return &Service{
		eventRepo:     eventRepo,
		log:           log,
		now:           time.Now,
		nextThreshold: BaseStreakThreshold,
	}
}

// StartSession clears the session accumulator and streak tracking.
func (s *Service) StartSession(sessionID, gameID string) {
	s.sessionID = sessionID
	s.gameID = gameID
	s.nextThreshold = BaseStreakThreshold
	s.SessionBadges = nil
}

// ObserveAnswer updates streak tracking and returns a streak badge when a
// milestone is reached, nil otherwise.
func (s *Service) ObserveAnswer(ctx context.Context, a game.Answer) *Award {
	if !a.Correct {
		s.nextThreshold = BaseStreakThreshold
		return nil
	}
	if a.Streak < s.nextThreshold {
		return nil
	}
	s.nextThreshold = NextStreakThreshold(a.Streak)
	return s.award(ctx, BadgeStreak, StreakRarity(a.Streak), fmt.Sprintf("%d correct in a row!", a.Streak))
}

// AwardCompletion awards the badges earned by a completed game: always a
// completion badge, a perfect badge when no answer was wrong, and a speed
// badge when at least half of the time was left.
func (s *Service) AwardCompletion(ctx context.Context, r game.Result) []Award {
	var out []Award
	out = append(out, *s.award(ctx, BadgeCompletion, CompletionRarity(r.FinalScorePercent),
		fmt.Sprintf("Completed with %d%%", r.FinalScorePercent)))

	if r.IncorrectAnswers == 0 {
		out = append(out, *s.award(ctx, BadgePerfect, perfectRarity(r.Steps),
			fmt.Sprintf("All %d steps right first time", r.Steps)))
	}

	if r.TimeLimit > 0 {
		left := float64(r.TimeRemaining) / float64(r.TimeLimit)
		if left >= 0.5 {
			out = append(out, *s.award(ctx, BadgeSpeed, SpeedRarity(left),
				fmt.Sprintf("Finished with %ds to spare", r.TimeRemaining)))
		}
	}
	return out
}

func perfectRarity(steps int) Rarity {
	switch {
	case steps >= 8:
		return RarityLegendary
	case steps >= 5:
		return RarityEpic
	case steps >= 3:
		return RarityRare
	default:
		return RarityCommon
	}
}

func (s *Service) award(ctx context.Context, typ BadgeType, rarity Rarity, reason string) *Award {
	a := &Award{
		Type:      typ,
		Rarity:    rarity,
		SessionID: s.sessionID,
		GameID:    s.gameID,
		Reason:    reason,
		AwardedAt: s.now(),
	}
	s.persist(ctx, a)
	s.SessionBadges = append(s.SessionBadges, *a)
	return a
}

func (s *Service) persist(ctx context.Context, a *Award) {
	if s.eventRepo == nil {
		return
	}
	err := s.eventRepo.AppendBadgeEvent(ctx, store.BadgeEventData{
		BadgeType: string(a.Type),
		Rarity:    string(a.Rarity),
		SessionID: a.SessionID,
		GameID:    a.GameID,
		Reason:    a.Reason,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("badge", string(a.Type)).Msg("failed to persist badge")
	}
}
