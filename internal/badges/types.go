// Package badges awards achievement badges for game sessions.
package badges

import "time"

// BadgeType identifies the category of achievement.
type BadgeType string

const (
	BadgeStreak     BadgeType = "streak"
	BadgeCompletion BadgeType = "completion"
	BadgePerfect    BadgeType = "perfect"
	BadgeSpeed      BadgeType = "speed"
)

// AllBadgeTypes returns all badge types in display order.
func AllBadgeTypes() []BadgeType {
	return []BadgeType{BadgeCompletion, BadgePerfect, BadgeSpeed, BadgeStreak}
}

// DisplayName returns a human-readable label for the badge type.
func (t BadgeType) DisplayName() string {
	switch t {
	case BadgeStreak:
		return "Streak"
	case BadgeCompletion:
		return "Dish Served"
	case BadgePerfect:
		return "Flawless"
	case BadgeSpeed:
		return "Speed Chef"
	default:
		return string(t)
	}
}

// Icon returns the display icon for the badge type.
func (t BadgeType) Icon() string {
	switch t {
	case BadgeStreak:
		return "🔥"
	case BadgeCompletion:
		return "🍽️"
	case BadgePerfect:
		return "⭐"
	case BadgeSpeed:
		return "⏱️"
	default:
		return "✦"
	}
}

// Award represents a single badge earned.
type Award struct {
	Type      BadgeType
	Rarity    Rarity
	SessionID string
	GameID    string
	Reason    string // e.g. "5 correct in a row!"
	AwardedAt time.Time
}
