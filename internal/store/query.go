package store

import (
	"strings"
	"time"
)

// whereBuilder accumulates SQL conditions from QueryOpts.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *whereBuilder) opts(opts QueryOpts, hasGameID bool) {
	if opts.After > 0 {
		w.add("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		w.add("sequence < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		w.add("timestamp >= ?", opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		w.add("timestamp <= ?", opts.To.UnixMilli())
	}
	if hasGameID && opts.GameID != "" {
		w.add("game_id = ?", opts.GameID)
	}
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func limitClause(opts QueryOpts, w *whereBuilder) string {
	if opts.Limit <= 0 {
		return ""
	}
	w.args = append(w.args, opts.Limit)
	return " LIMIT ?"
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
