package automation

import "github.com/faideww/fishing-tweaks/internal/fish"

// RodSnapshot is the host state read at the start of a tick.
type RodSnapshot struct {
	InUse    bool
	CanMove  bool
	MenuOpen bool

	CanUseBait    bool
	HasBait       bool
	BaitAvailable bool

	CanUseTackle     bool
	EmptyTackleSlots []int
	TackleAvailable  int

	Fishing         bool
	Nibbling        bool
	TimeUntilBite   float64
	BiteAccumulator float64

	FishCaught bool
	Festival   bool
}

type ActionKind int

const (
	ActionAttachBait ActionKind = iota
	ActionAttachTackle
	ActionCast
	ActionResetNibble
	ActionSetBiteCountdown
	ActionHook
	ActionFinishHolding
)

func (k ActionKind) String() string {
	switch k {
	case ActionAttachBait:
		return "attach-bait"
	case ActionAttachTackle:
		return "attach-tackle"
	case ActionCast:
		return "cast"
	case ActionResetNibble:
		return "reset-nibble"
	case ActionSetBiteCountdown:
		return "set-bite-countdown"
	case ActionHook:
		return "hook"
	case ActionFinishHolding:
		return "finish-holding"
	default:
		return "unknown"
	}
}

// Action is one host mutation. Slot is set for ActionAttachTackle and
// Countdown for ActionSetBiteCountdown.
//
// ActionHook means: zero the bite accumulator, mark the rod nibbling, play
// the bite feedback and pull the rod.
type Action struct {
	Kind      ActionKind
	Slot      int
	Countdown float64
}

// Plan lists the actions for one tick in the order they must be applied.
type Plan struct {
	Actions []Action
}

func (p *Plan) add(a Action) { p.Actions = append(p.Actions, a) }

func (p Plan) Has(k ActionKind) bool {
	for _, a := range p.Actions {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Minigame describes the timing minigame the host just opened.
type Minigame struct {
	Kind       fish.Kind
	MotionType int
	Boss       bool
	Difficulty float64
	Treasure   bool
}

// Notice carries the numbers for a "not familiar enough to skip" message.
type Notice struct {
	Kind          fish.Kind
	CatchNeeded   int
	PerfectNeeded int
}

// MinigamePlan is the outcome of MinigameOpened. When Resolve is false the
// player plays the minigame; Notice may still be set.
type MinigamePlan struct {
	Resolve        bool
	Progress       float64
	TreasureCaught bool
	Perfect        bool
	Notice         *Notice
}

// MinigameResult is read from the minigame as it closes.
type MinigameResult struct {
	Kind     fish.Kind
	Handled  bool
	Progress float64
	Perfect  bool
}

type TreasureItem struct {
	Fits bool
}

type TreasurePlan struct {
	Grab  []int
	Close bool
}
