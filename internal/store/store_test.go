package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer s.Close()

	if err := s.EventRepo().AppendGameEvent(context.Background(), GameEventData{
		SessionID: "s", GameID: "g", Action: ActionStart,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}
}

func TestSequenceSharedAcrossTables(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	if err := repo.AppendGameEvent(ctx, GameEventData{SessionID: "s1", GameID: "g", Action: ActionStart}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeType: "streak", Rarity: "common", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}
	if err := repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeType: "speed", Rarity: "rare", SessionID: "s1"}); err != nil {
		t.Fatal(err)
	}

	badges, err := repo.QueryBadgeEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(badges) != 2 {
		t.Fatalf("got %d badges, want 2", len(badges))
	}
	// Newest first; the game event took sequence 1.
	if badges[0].Sequence != 3 || badges[1].Sequence != 2 {
		t.Errorf("sequences = %d, %d; want 3, 2", badges[0].Sequence, badges[1].Sequence)
	}
}

func TestGameSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []GameEventData{
		{SessionID: "a", GameID: "roux", Action: ActionStart, StepsTotal: 2},
		{SessionID: "a", GameID: "roux", Action: ActionEnd, Outcome: OutcomeCompleted, ScorePercent: 88, StepsTotal: 2, StepsCompleted: 2},
		{SessionID: "b", GameID: "knife", Action: ActionStart},
		{SessionID: "b", GameID: "knife", Action: ActionEnd, Outcome: OutcomeFailed},
	}
	for _, e := range events {
		if err := repo.AppendGameEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeType: "completion", Rarity: "rare", SessionID: "a", GameID: "roux"}); err != nil {
		t.Fatal(err)
	}

	got, err := repo.QueryGameSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}
	if got[0].SessionID != "b" || got[0].Outcome != OutcomeFailed {
		t.Errorf("first summary = %+v, want session b failed", got[0])
	}
	if got[1].ScorePercent != 88 || got[1].BadgeCount != 1 {
		t.Errorf("second summary = %+v, want 88%% with 1 badge", got[1])
	}

	only, err := repo.QueryGameSummaries(ctx, QueryOpts{GameID: "roux", Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(only) != 1 || only[0].GameID != "roux" {
		t.Errorf("filtered summaries = %+v", only)
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for i, correct := range []bool{false, true} {
		err := repo.AppendAnswerEvent(ctx, AnswerEventData{
			SessionID: "s", GameID: "g", StepIndex: 0, StepKind: "selection",
			Answer: []string{"b", "a"}[i], Correct: correct, Points: float64(i) * 93.3,
			TimeRemaining: 280, Streak: i,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := repo.QueryAnswerEvents(ctx, "s")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d answers, want 2", len(got))
	}
	if got[0].Correct || !got[1].Correct {
		t.Errorf("answers out of order: %+v", got)
	}
	if got[1].Answer != "a" || got[1].Points != 93.3 {
		t.Errorf("second answer = %+v", got[1])
	}
}

func TestBadgeCounts(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, typ := range []string{"streak", "streak", "perfect"} {
		if err := repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeType: typ, Rarity: "common", SessionID: "s"}); err != nil {
			t.Fatal(err)
		}
	}
	byType, total, err := repo.BadgeCounts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || byType["streak"] != 2 || byType["perfect"] != 1 {
		t.Errorf("counts = %v total %d", byType, total)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	data := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "game-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 200, Success: true, RequestBody: "req"},
		{Provider: "anthropic", Model: "claude-haiku", Purpose: "game-gen", InputTokens: 300, OutputTokens: 150, LatencyMs: 400, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "game-gen", LatencyMs: 30, Success: false, ErrorMessage: "rate limit"},
	}
	for _, d := range data {
		if err := repo.AppendLLMRequest(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ErrorMessage != "rate limit" {
		t.Fatalf("events = %+v", events)
	}

	e, err := repo.GetLLMEvent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.RequestBody != "req" || !e.Success {
		t.Errorf("event 1 = %+v", e)
	}
	missing, err := repo.GetLLMEvent(ctx, 99)
	if err != nil || missing != nil {
		t.Errorf("GetLLMEvent(99) = %v, %v; want nil, nil", missing, err)
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(usage) != 1 || usage[0].Calls != 3 || usage[0].InputTokens != 400 || usage[0].AvgLatencyMs != 210 {
		t.Errorf("usage = %+v", usage)
	}

	models, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(models) != 1 || models[0].Model != "claude-haiku" || models[0].Calls != 2 {
		t.Errorf("model usage = %+v", models)
	}
}

func TestRecordBest(t *testing.T) {
	s := openTestStore(t)
	scores := s.ScoreRepo()
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	steps := []struct {
		name     string
		score    BestScore
		improved bool
		wantPct  int
	}{
		{"first", BestScore{GameID: "roux", SessionID: "a", ScorePercent: 70, TimeRemaining: 100}, true, 70},
		{"lower", BestScore{GameID: "roux", SessionID: "b", ScorePercent: 60, TimeRemaining: 280}, false, 70},
		{"same pct slower", BestScore{GameID: "roux", SessionID: "c", ScorePercent: 70, TimeRemaining: 90}, false, 70},
		{"same pct faster", BestScore{GameID: "roux", SessionID: "d", ScorePercent: 70, TimeRemaining: 150}, true, 70},
		{"higher", BestScore{GameID: "roux", SessionID: "e", ScorePercent: 95, TimeRemaining: 10}, true, 95},
	}
	for _, st := range steps {
		st.score.AchievedAt = at
		improved, err := scores.RecordBest(ctx, st.score)
		if err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		if improved != st.improved {
			t.Errorf("%s: improved = %v, want %v", st.name, improved, st.improved)
		}
		best, err := scores.Best(ctx, "roux")
		if err != nil {
			t.Fatal(err)
		}
		if best.ScorePercent != st.wantPct {
			t.Errorf("%s: best = %d, want %d", st.name, best.ScorePercent, st.wantPct)
		}
	}

	best, _ := scores.Best(ctx, "roux")
	if best.SessionID != "e" || !best.AchievedAt.Equal(at) {
		t.Errorf("best = %+v", best)
	}

	none, err := scores.Best(ctx, "knife")
	if err != nil || none != nil {
		t.Errorf("Best(knife) = %v, %v; want nil, nil", none, err)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	_ = repo.AppendGameEvent(ctx, GameEventData{SessionID: "a", GameID: "g", Action: ActionEnd, Outcome: OutcomeCompleted})
	_, _ = s.ScoreRepo().RecordBest(ctx, BestScore{GameID: "g", SessionID: "a", ScorePercent: 50})

	if err := s.Reset(ctx); err != nil {
		t.Fatal(err)
	}
	sums, _ := repo.QueryGameSummaries(ctx, QueryOpts{})
	all, _ := s.ScoreRepo().AllBest(ctx)
	if len(sums) != 0 || len(all) != 0 {
		t.Errorf("after reset: %d summaries, %d best scores", len(sums), len(all))
	}

	// Sequence numbers keep increasing after a reset.
	_ = repo.AppendBadgeEvent(ctx, BadgeEventData{BadgeType: "streak", Rarity: "common", SessionID: "b"})
	badges, _ := repo.QueryBadgeEvents(ctx, QueryOpts{})
	if len(badges) != 1 || badges[0].Sequence != 2 {
		t.Errorf("badges after reset = %+v", badges)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COOKIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	p, err := DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "cookiz", "cookiz.db"); p != want {
		t.Errorf("DefaultDBPath() = %q, want %q", p, want)
	}

	override := filepath.Join(dir, "x", "custom.db")
	t.Setenv("COOKIZ_DB", override)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != override {
		t.Errorf("DefaultDBPath() = %q, want %q", p, override)
	}
}
