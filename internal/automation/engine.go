package automation

import (
	"context"
	"log/slog"

	"github.com/faideww/fishing-tweaks/internal/fish"
	"github.com/faideww/fishing-tweaks/internal/ratelimit"
)

// Progress values written to and read from the host minigame.
const (
	resolvedProgress = 2.0
	caughtProgress   = 0.5
)

// Journal receives every recorded catch.
type Journal interface {
	AppendEvent(ctx context.Context, e fish.CatchEvent) error
}

type Deps struct {
	Roller   *fish.Roller
	Clock    ratelimit.Clock
	Journal  Journal
	PlayerId string
}

// Engine runs the auto-fishing pipeline. All methods are called from the
// host's event callbacks on one goroutine; Engine is not safe for concurrent use.
type Engine struct {
	opts     Options
	logger   *slog.Logger
	stats    *fish.Statistics
	bite     *fish.BiteTimer
	roller   *fish.Roller
	notices  *ratelimit.Limiter[fish.Kind]
	clk      ratelimit.Clock
	journal  Journal
	playerId string

	active      bool
	skipped     fish.Kind
	skippedOpen bool
}

func New(logger *slog.Logger, opts Options, stats *fish.Statistics, deps Deps) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	bite, err := fish.NewBiteTimer(opts.BiteBuffer, logger)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = fish.NewStatistics()
	}
	if deps.Roller == nil {
		deps.Roller = fish.NewRoller(nil)
	}
	if deps.Clock == nil {
		deps.Clock = ratelimit.RealClock{}
	}
	return &Engine{
		opts:     opts,
		logger:   logger,
		stats:    stats,
		bite:     bite,
		roller:   deps.Roller,
		notices:  ratelimit.NewLimiter[fish.Kind](opts.NoticeCooldown, opts.NoticeCooldown, deps.Clock),
		clk:      deps.Clock,
		journal:  deps.Journal,
		playerId: deps.PlayerId,
	}, nil
}

func (e *Engine) Stats() *fish.Statistics { return e.stats }

func (e *Engine) Active() bool { return e.active }

func (e *Engine) BitePhase() fish.BitePhase { return e.bite.Phase() }

// Toggle switches auto-fishing and returns the new state. The bite timer
// keeps its state across toggles: a countdown it already extended must not
// be extended again, and the host's cleared countdown resets it anyway.
func (e *Engine) Toggle() bool {
	e.active = !e.active
	if !e.active {
		e.skippedOpen = false
	}
	if e.logger != nil {
		e.logger.Info("auto fishing toggled", "active", e.active)
	}
	return e.active
}

// Tick plans one update. Steps run in a fixed order since later ones
// assume the earlier ones have been applied: bait, tackle, cast, hook,
// then skipping the fish showing.
func (e *Engine) Tick(rod RodSnapshot) Plan {
	var p Plan
	if !e.active {
		return p
	}

	if e.opts.EnableAutoBaiting && rod.CanUseBait && !rod.HasBait && rod.BaitAvailable {
		p.add(Action{Kind: ActionAttachBait})
	}

	if e.opts.EnableAutoTackling && rod.CanUseTackle {
		left := rod.TackleAvailable
		for _, slot := range rod.EmptyTackleSlots {
			if left <= 0 {
				break
			}
			p.add(Action{Kind: ActionAttachTackle, Slot: slot})
			left--
		}
	}

	if !rod.InUse && rod.CanMove && !rod.MenuOpen {
		p.add(Action{Kind: ActionCast})
	}

	e.planHook(rod, &p)

	if e.opts.EnableSkipFishShowing && rod.FishCaught && !rod.CanMove && !rod.Festival {
		p.add(Action{Kind: ActionFinishHolding})
	}

	return p
}

func (e *Engine) planHook(rod RodSnapshot, p *Plan) {
	if !e.opts.EnableAutoHook || !rod.Fishing {
		// Let the timer see the cleared countdown so no state leaks into the
		// next cycle.
		e.bite.Observe(fish.NoBite, 0)
		return
	}

	// Keep the fish nibbling until the hook lands.
	if rod.Nibbling {
		p.add(Action{Kind: ActionResetNibble})
	}

	d := e.bite.Observe(rod.TimeUntilBite, rod.BiteAccumulator)
	if d.SetCountdown {
		p.add(Action{Kind: ActionSetBiteCountdown, Countdown: d.Countdown})
	}
	if d.Hook {
		p.add(Action{Kind: ActionHook})
	}
}

// MinigameOpened decides whether automation resolves the minigame for m.
func (e *Engine) MinigameOpened(m Minigame) MinigamePlan {
	e.skippedOpen = false
	if !e.active || !e.opts.EnableSkipMinigame {
		return MinigamePlan{}
	}

	if !fish.IsEligible(e.stats, m.Kind, e.opts.Thresholds) {
		catchNeeded, perfectNeeded := fish.Deficit(e.stats, m.Kind, e.opts.Thresholds)
		plan := MinigamePlan{}
		if ok, _ := e.notices.Try(m.Kind); ok {
			plan.Notice = &Notice{Kind: m.Kind, CatchNeeded: catchNeeded, PerfectNeeded: perfectNeeded}
		}
		return plan
	}

	perfect := fish.IsPerfect(fish.MotionFromType(m.MotionType), m.Boss, m.Difficulty, e.opts.ForcePerfect, e.roller.Draw())
	e.skipped, e.skippedOpen = m.Kind, true
	if e.logger != nil {
		e.logger.Info("minigame skipped", "fish", string(m.Kind), "perfect", perfect)
	}
	return MinigamePlan{
		Resolve:        true,
		Progress:       resolvedProgress,
		TreasureCaught: m.Treasure && e.opts.SkipWithTreasure,
		Perfect:        perfect,
	}
}

// MinigameClosed records the result of a finished minigame. It reports the
// circumstance recorded, or false when nothing was recorded.
func (e *Engine) MinigameClosed(ctx context.Context, r MinigameResult) (fish.Circumstance, bool) {
	skipped := e.skippedOpen && e.skipped == r.Kind
	e.skippedOpen = false
	if !e.active || !r.Handled {
		return 0, false
	}

	c := fish.Missed
	if r.Progress >= caughtProgress {
		assisted := skipped || e.opts.EnableAutoHook
		c = fish.CircumstanceFor(assisted, r.Perfect)
	}
	e.record(ctx, r.Kind, c, 1)
	return c, true
}

// Correct undoes or adds catches outside the normal flow.
func (e *Engine) Correct(ctx context.Context, k fish.Kind, c fish.Circumstance, delta int) {
	e.record(ctx, k, c, delta)
}

func (e *Engine) record(ctx context.Context, k fish.Kind, c fish.Circumstance, delta int) {
	e.stats.IncrBy(k, c, delta)
	if e.journal == nil {
		return
	}
	err := e.journal.AppendEvent(ctx, fish.CatchEvent{
		PlayerId:     e.playerId,
		Kind:         k,
		Circumstance: c,
		Delta:        delta,
		RecordedAt:   e.clk.Now(),
	})
	if err != nil && e.logger != nil {
		e.logger.Error("failed to journal catch", "fish", string(k), "circumstance", c.String(), "error", err)
	}
}

// TreasureOpened grabs every item the inventory can take and closes the
// chest when nothing is left.
func (e *Engine) TreasureOpened(items []TreasureItem) TreasurePlan {
	if !e.active || !e.opts.EnableGrabTreasure {
		return TreasurePlan{}
	}
	plan := TreasurePlan{Close: true}
	for i, it := range items {
		if !it.Fits {
			plan.Close = false
			continue
		}
		plan.Grab = append(plan.Grab, i)
	}
	return plan
}

// Save persists the engine's statistics for its player.
func (e *Engine) Save(ctx context.Context, dst fish.CountSaver) error {
	return e.stats.Save(ctx, dst, e.playerId)
}
