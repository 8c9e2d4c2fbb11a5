package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/cookiz/internal/catalog"
	"github.com/abhisek/cookiz/internal/game"
	"github.com/abhisek/cookiz/internal/store"
)

func TestHistory_RecentAndBest(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	events, scores := st.EventRepo(), st.ScoreRepo()
	require.NoError(t, events.AppendGameEvent(ctx, store.GameEventData{
		SessionID: "s1", GameID: "omelette", Action: store.ActionEnd, Outcome: store.OutcomeCompleted,
		ScorePercent: 90, StepsTotal: 3, StepsCompleted: 3, DurationSecs: 75,
	}))
	require.NoError(t, events.AppendBadgeEvent(ctx, store.BadgeEventData{
		BadgeType: "perfect", Rarity: "epic", SessionID: "s1", GameID: "omelette", Reason: "No mistakes",
	}))
	_, err = scores.RecordBest(ctx, store.BestScore{
		GameID: "omelette", SessionID: "s1", Score: 270, ScorePercent: 90, TimeRemaining: 225, AchievedAt: time.Now(),
	})
	require.NoError(t, err)

	cat := catalog.New(zerolog.Nop())
	require.NoError(t, cat.Add(game.Definition{
		ID: "omelette", Title: "French Omelette",
		Steps: []game.Step{game.SelectionStep{Prompt: "Pan?", Options: []game.Option{
			{ID: "a", Label: "Non-stick", Correct: true}, {ID: "b", Label: "Cast iron"},
		}}},
	}, "test"))

	s := New(events, scores, cat)
	s.Update(s.Init()())

	view := s.View(140, 40)
	assert.Contains(t, view, "French Omelette")
	assert.Contains(t, view, "1 badge")
	assert.Contains(t, view, "1:15")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Contains(t, s.View(140, 40), "No mistakes")

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	view = s.View(140, 40)
	assert.Contains(t, view, "3:45 left")
	assert.Contains(t, view, "90%")
}

func TestHistory_Empty(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	s := New(st.EventRepo(), nil, nil)
	s.Update(s.Init()())
	assert.Contains(t, s.View(100, 30), "No games yet")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
