package store

import (
	"context"
	"database/sql"
	"fmt"
)

// dataTables are cleared by Reset.
var dataTables = []string{
	"game_events",
	"answer_events",
	"badge_events",
	"llm_request_events",
	"best_scores",
}

// Every event table carries the global sequence and a unix-millisecond
// timestamp.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS game_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		game_id TEXT NOT NULL,
		action TEXT NOT NULL,
		outcome TEXT NOT NULL DEFAULT '',
		score REAL NOT NULL DEFAULT 0,
		score_percent INTEGER NOT NULL DEFAULT 0,
		steps_total INTEGER NOT NULL DEFAULT 0,
		steps_completed INTEGER NOT NULL DEFAULT 0,
		correct_answers INTEGER NOT NULL DEFAULT 0,
		incorrect_answers INTEGER NOT NULL DEFAULT 0,
		time_remaining INTEGER NOT NULL DEFAULT 0,
		duration_secs INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS game_events_session ON game_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS answer_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		session_id TEXT NOT NULL,
		game_id TEXT NOT NULL,
		step_index INTEGER NOT NULL,
		step_kind TEXT NOT NULL,
		answer TEXT NOT NULL,
		correct INTEGER NOT NULL,
		points REAL NOT NULL DEFAULT 0,
		time_remaining INTEGER NOT NULL,
		streak INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS badge_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		badge_type TEXT NOT NULL,
		rarity TEXT NOT NULL,
		session_id TEXT NOT NULL,
		game_id TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS badge_events_session ON badge_events (session_id)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence INTEGER NOT NULL UNIQUE,
		timestamp INTEGER NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS best_scores (
		game_id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		score REAL NOT NULL,
		score_percent INTEGER NOT NULL,
		time_remaining INTEGER NOT NULL,
		achieved_at INTEGER NOT NULL
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
