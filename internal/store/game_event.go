package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// eventRepo implements EventRepo backed by database/sql and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

// insert assigns the next sequence and timestamp, then runs the insert with
// those two values prepended to args.
func (r *eventRepo) insert(ctx context.Context, what, query string, args ...any) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	full := append([]any{seqNum, r.now().UnixMilli()}, args...)
	if _, err := r.db.ExecContext(ctx, query, full...); err != nil {
		return fmt.Errorf("save %s event: %w", what, err)
	}
	return nil
}

func (r *eventRepo) AppendGameEvent(ctx context.Context, data GameEventData) error {
	return r.insert(ctx, "game", `INSERT INTO game_events (
		sequence, timestamp, session_id, game_id, action, outcome, score, score_percent,
		steps_total, steps_completed, correct_answers, incorrect_answers, time_remaining, duration_secs
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.GameID, data.Action, data.Outcome, data.Score, data.ScorePercent,
		data.StepsTotal, data.StepsCompleted, data.CorrectAnswers, data.IncorrectAnswers,
		data.TimeRemaining, data.DurationSecs,
	)
}

func (r *eventRepo) QueryGameSummaries(ctx context.Context, opts QueryOpts) ([]GameSummaryRecord, error) {
	var w whereBuilder
	w.add("action = ?", ActionEnd)
	w.opts(opts, true)
	q := `SELECT g.session_id, g.game_id, g.timestamp, g.outcome, g.score, g.score_percent,
		g.steps_total, g.steps_completed, g.correct_answers, g.incorrect_answers, g.duration_secs,
		(SELECT COUNT(*) FROM badge_events b WHERE b.session_id = g.session_id)
		FROM game_events g` + w.String() + ` ORDER BY g.sequence DESC` + limitClause(opts, &w)

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query game summaries: %w", err)
	}
	defer rows.Close()

	var records []GameSummaryRecord
	for rows.Next() {
		var rec GameSummaryRecord
		var ts int64
		if err := rows.Scan(&rec.SessionID, &rec.GameID, &ts, &rec.Outcome, &rec.Score, &rec.ScorePercent,
			&rec.StepsTotal, &rec.StepsCompleted, &rec.CorrectAnswers, &rec.IncorrectAnswers,
			&rec.DurationSecs, &rec.BadgeCount); err != nil {
			return nil, fmt.Errorf("scan game summary: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) AppendAnswerEvent(ctx context.Context, data AnswerEventData) error {
	return r.insert(ctx, "answer", `INSERT INTO answer_events (
		sequence, timestamp, session_id, game_id, step_index, step_kind, answer, correct,
		points, time_remaining, streak
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.SessionID, data.GameID, data.StepIndex, data.StepKind, data.Answer, data.Correct,
		data.Points, data.TimeRemaining, data.Streak,
	)
}

func (r *eventRepo) QueryAnswerEvents(ctx context.Context, sessionID string) ([]AnswerEventData, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT session_id, game_id, step_index, step_kind, answer,
		correct, points, time_remaining, streak
		FROM answer_events WHERE session_id = ? ORDER BY sequence`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventData
	for rows.Next() {
		var a AnswerEventData
		if err := rows.Scan(&a.SessionID, &a.GameID, &a.StepIndex, &a.StepKind, &a.Answer,
			&a.Correct, &a.Points, &a.TimeRemaining, &a.Streak); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
