package bot

import "github.com/faideww/fishing-tweaks/internal/fish"

type FamiliarityTier int

const (
	TierUnfamiliar FamiliarityTier = iota
	TierLearning
	TierFamiliar
	TierMastered
)

func (t FamiliarityTier) String() string {
	switch t {
	case TierMastered:
		return "Mastered"
	case TierFamiliar:
		return "Familiar"
	case TierLearning:
		return "Learning"
	default:
		return "Unfamiliar"
	}
}

// progress is the weakest of the catch and perfect ratios against their
// thresholds. A zero threshold counts as met.
func progress(h fish.History, k fish.Kind, th fish.Thresholds) float64 {
	ratio := func(have, want int) float64 {
		if want <= 0 {
			return 2
		}
		return float64(have) / float64(want)
	}
	return min(ratio(h.Total(k), th.MinCatch), ratio(h.PerfectTotal(k), th.MinPerfect))
}

func TierFor(h fish.History, k fish.Kind, th fish.Thresholds) FamiliarityTier {
	if !fish.IsEligible(h, k, th) {
		if h.Total(k) == 0 {
			return TierUnfamiliar
		}
		return TierLearning
	}
	if progress(h, k, th) >= 2 {
		return TierMastered
	}
	return TierFamiliar
}

func ColorForTier(t FamiliarityTier) int {
	switch t {
	case TierMastered:
		return 0xF1C40F // gold
	case TierFamiliar:
		return 0x2ECC71 // green
	case TierLearning:
		return 0x3498DB // blue
	default:
		return 0x95A5A6 // gray
	}
}
