package fish

import (
	"errors"
	"log/slog"
)

// NoBite is the countdown value the host uses while no bite is pending.
const NoBite = -1.0

// DefaultBiteBuffer is how far, in milliseconds, the host countdown is
// pushed out while the timer owns the bite.
const DefaultBiteBuffer = 5000.0

var ErrNegativeBuffer = errors.New("bite buffer must not be negative")

type BitePhase int

const (
	BiteIdle BitePhase = iota
	BiteExtended
	BiteTriggered
)

func (p BitePhase) String() string {
	switch p {
	case BiteIdle:
		return "idle"
	case BiteExtended:
		return "extended"
	case BiteTriggered:
		return "triggered"
	default:
		return "unknown"
	}
}

// BiteDecision tells the caller what to write back to the host rod.
// Only fields guarded by a true flag are meaningful.
type BiteDecision struct {
	Phase BitePhase

	SetCountdown bool
	Countdown    float64

	// Hook is set on exactly one observation per bite cycle. The caller must
	// zero the bite accumulator, mark the rod nibbling and run its hook action.
	Hook bool
}

// BiteTimer keeps the host's bite countdown and the automation tick from
// both reacting to the same bite. On a new bite it records the original
// countdown and extends the host's copy by the buffer, then fires the hook
// itself once the unextended countdown has elapsed.
// Not safe for concurrent use; call Observe from the tick goroutine.
type BiteTimer struct {
	buffer   float64
	logger   *slog.Logger
	phase    BitePhase
	original float64
}

func NewBiteTimer(buffer float64, logger *slog.Logger) (*BiteTimer, error) {
	if buffer < 0 {
		return nil, ErrNegativeBuffer
	}
	return &BiteTimer{buffer: buffer, logger: logger, original: NoBite}, nil
}

func (t *BiteTimer) Phase() BitePhase { return t.phase }

// Original returns the countdown captured at the start of the cycle, or
// NoBite when none is held.
func (t *BiteTimer) Original() float64 { return t.original }

func (t *BiteTimer) Reset() {
	t.phase = BiteIdle
	t.original = NoBite
}

// Observe feeds the host's current countdown and the time accumulated since
// the bite wait began.
func (t *BiteTimer) Observe(countdown, elapsed float64) BiteDecision {
	if countdown == NoBite {
		if t.phase != BiteIdle {
			if t.phase == BiteExtended && t.logger != nil {
				t.logger.Debug("bite cleared outside timer", "original", t.original)
			}
			t.Reset()
		}
		return BiteDecision{Phase: BiteIdle}
	}

	switch t.phase {
	case BiteTriggered:
		// The hook already fired; wait for the host to clear the countdown.
		if t.logger != nil {
			t.logger.Debug("bite pending after hook, ignoring", "countdown", countdown)
		}
		return BiteDecision{Phase: BiteTriggered}
	case BiteIdle:
		t.original = countdown
		t.phase = BiteExtended
		d := BiteDecision{Phase: BiteExtended, SetCountdown: true, Countdown: countdown + t.buffer}
		if elapsed > t.original {
			return t.trigger()
		}
		return d
	default:
		// Only the captured countdown or the one we extended it to belong to
		// this cycle. Anything else is a new wait that began while nobody
		// was observing, e.g. with automation toggled off.
		if countdown != t.original && countdown != t.original+t.buffer {
			if t.logger != nil {
				t.logger.Debug("new bite wait, recapturing", "stale", t.original, "countdown", countdown)
			}
			t.Reset()
			return t.Observe(countdown, elapsed)
		}
		if elapsed > t.original {
			return t.trigger()
		}
		return BiteDecision{Phase: BiteExtended}
	}
}

func (t *BiteTimer) trigger() BiteDecision {
	if t.logger != nil {
		t.logger.Debug("bite triggered", "original", t.original)
	}
	t.phase = BiteTriggered
	t.original = NoBite
	return BiteDecision{Phase: BiteTriggered, SetCountdown: true, Countdown: NoBite, Hook: true}
}
