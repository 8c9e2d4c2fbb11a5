package badges

// Rarity represents the difficulty tier of a badge.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// AllRarities returns all rarities in order from lowest to highest.
func AllRarities() []Rarity {
	return []Rarity{RarityCommon, RarityRare, RarityEpic, RarityLegendary}
}

// DisplayName returns a human-readable label for the rarity.
func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityRare:
		return "Rare"
	case RarityEpic:
		return "Epic"
	case RarityLegendary:
		return "Legendary"
	default:
		return string(r)
	}
}

// StreakRarity returns the rarity for a given streak length.
func StreakRarity(length int) Rarity {
	switch {
	case length >= 15:
		return RarityLegendary
	case length >= 10:
		return RarityEpic
	case length >= 5:
		return RarityRare
	default:
		return RarityCommon
	}
}

// CompletionRarity returns the rarity for a final score percentage.
func CompletionRarity(percent int) Rarity {
	switch {
	case percent >= 95:
		return RarityLegendary
	case percent >= 85:
		return RarityEpic
	case percent >= 70:
		return RarityRare
	default:
		return RarityCommon
	}
}

// SpeedRarity returns the rarity for the fraction of time left (0.0-1.0).
func SpeedRarity(fractionLeft float64) Rarity {
	switch {
	case fractionLeft >= 0.9:
		return RarityLegendary
	case fractionLeft >= 0.75:
		return RarityEpic
	case fractionLeft >= 0.6:
		return RarityRare
	default:
		return RarityCommon
	}
}
