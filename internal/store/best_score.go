package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// scoreRepo implements ScoreRepo.
type scoreRepo struct {
	db  *sql.DB
	now func() time.Time
}

func (r *scoreRepo) RecordBest(ctx context.Context, b BestScore) (bool, error) {
	if b.AchievedAt.IsZero() {
		b.AchievedAt = r.now()
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO best_scores
		(game_id, session_id, score, score_percent, time_remaining, achieved_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (game_id) DO UPDATE SET
			session_id = excluded.session_id,
			score = excluded.score,
			score_percent = excluded.score_percent,
			time_remaining = excluded.time_remaining,
			achieved_at = excluded.achieved_at
		WHERE excluded.score_percent > best_scores.score_percent
			OR (excluded.score_percent = best_scores.score_percent
				AND excluded.time_remaining > best_scores.time_remaining)`,
		b.GameID, b.SessionID, b.Score, b.ScorePercent, b.TimeRemaining, b.AchievedAt.UnixMilli())
	if err != nil {
		return false, fmt.Errorf("record best score: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record best score: %w", err)
	}
	return n > 0, nil
}

const bestColumns = `game_id, session_id, score, score_percent, time_remaining, achieved_at`

func scanBest(s scanner) (BestScore, error) {
	var b BestScore
	var at int64
	err := s.Scan(&b.GameID, &b.SessionID, &b.Score, &b.ScorePercent, &b.TimeRemaining, &at)
	b.AchievedAt = fromMillis(at)
	return b, err
}

func (r *scoreRepo) Best(ctx context.Context, gameID string) (*BestScore, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bestColumns+` FROM best_scores WHERE game_id = ?`, gameID)
	b, err := scanBest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get best score for %s: %w", gameID, err)
	}
	return &b, nil
}

func (r *scoreRepo) AllBest(ctx context.Context) ([]BestScore, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+bestColumns+` FROM best_scores ORDER BY game_id`)
	if err != nil {
		return nil, fmt.Errorf("query best scores: %w", err)
	}
	defer rows.Close()

	var out []BestScore
	for rows.Next() {
		b, err := scanBest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
