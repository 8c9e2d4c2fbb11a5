package store

import (
	"context"
	"fmt"
)

func (r *eventRepo) AppendBadgeEvent(ctx context.Context, data BadgeEventData) error {
	return r.insert(ctx, "badge", `INSERT INTO badge_events (
		sequence, timestamp, badge_type, rarity, session_id, game_id, reason
	) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		data.BadgeType, data.Rarity, data.SessionID, data.GameID, data.Reason,
	)
}

func (r *eventRepo) QueryBadgeEvents(ctx context.Context, opts QueryOpts) ([]BadgeEventRecord, error) {
	var w whereBuilder
	w.opts(opts, true)
	q := `SELECT badge_type, rarity, session_id, game_id, reason, sequence, timestamp
		FROM badge_events` + w.String() + ` ORDER BY sequence DESC` + limitClause(opts, &w)

	rows, err := r.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, fmt.Errorf("query badge events: %w", err)
	}
	defer rows.Close()

	var records []BadgeEventRecord
	for rows.Next() {
		var rec BadgeEventRecord
		var ts int64
		if err := rows.Scan(&rec.BadgeType, &rec.Rarity, &rec.SessionID, &rec.GameID, &rec.Reason,
			&rec.Sequence, &ts); err != nil {
			return nil, fmt.Errorf("scan badge event: %w", err)
		}
		rec.Timestamp = fromMillis(ts)
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *eventRepo) BadgeCounts(ctx context.Context) (map[string]int, int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT badge_type, COUNT(*) FROM badge_events GROUP BY badge_type`)
	if err != nil {
		return nil, 0, fmt.Errorf("query badge counts: %w", err)
	}
	defer rows.Close()

	byType := make(map[string]int)
	total := 0
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, 0, fmt.Errorf("scan badge count: %w", err)
		}
		byType[typ] = n
		total += n
	}
	return byType, total, rows.Err()
}
