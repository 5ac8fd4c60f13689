package automation

import (
	"errors"
	"time"

	"github.com/faideww/fishing-tweaks/internal/fish"
)

// Options holds the feature switches and tuning read from configuration.
type Options struct {
	EnableAutoHook        bool
	EnableSkipMinigame    bool
	EnableAutoBaiting     bool
	EnableAutoTackling    bool
	EnableGrabTreasure    bool
	EnableSkipFishShowing bool

	// SkipWithTreasure keeps the treasure when a minigame is skipped.
	SkipWithTreasure bool
	// ForcePerfect makes every skipped minigame perfect.
	ForcePerfect bool

	Thresholds fish.Thresholds

	// BiteBuffer is in milliseconds, the host's countdown unit.
	BiteBuffer float64

	// NoticeCooldown spaces out repeated "not familiar yet" notices per fish.
	NoticeCooldown time.Duration
}

func DefaultOptions() Options {
	return Options{
		EnableAutoHook:        true,
		EnableSkipMinigame:    true,
		EnableAutoBaiting:     true,
		EnableAutoTackling:    true,
		EnableGrabTreasure:    true,
		EnableSkipFishShowing: true,
		SkipWithTreasure:      true,
		ForcePerfect:          false,
		Thresholds:            fish.Thresholds{MinCatch: 5, MinPerfect: 0},
		BiteBuffer:            fish.DefaultBiteBuffer,
		NoticeCooldown:        10 * time.Second,
	}
}

// Validate rejects values that cannot be clamped into something sensible.
// Negative thresholds are tolerated; the gate treats them as zero.
func (o Options) Validate() error {
	if o.BiteBuffer < 0 {
		return fish.ErrNegativeBuffer
	}
	if o.NoticeCooldown < 0 {
		return errors.New("notice cooldown must not be negative")
	}
	return nil
}
