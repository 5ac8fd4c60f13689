package fish

import (
	"crypto/rand"
	"encoding/binary"
	"math"
	mrand "math/rand"
	"time"
)

// Motion is the movement pattern of a fish during the minigame.
type Motion int

const (
	MotionOther Motion = iota
	MotionDart
	MotionSmooth
	MotionFloaterOrSinker
)

func (m Motion) String() string {
	switch m {
	case MotionDart:
		return "dart"
	case MotionSmooth:
		return "smooth"
	case MotionFloaterOrSinker:
		return "floater/sinker"
	default:
		return "mixed"
	}
}

// MotionFromType converts the host's numeric motion type.
func MotionFromType(motionType int) Motion {
	switch motionType {
	case 1:
		return MotionDart
	case 2:
		return MotionSmooth
	case 3, 4:
		return MotionFloaterOrSinker
	default:
		return MotionOther
	}
}

// BaseChance is the percent chance of a perfect catch before difficulty is
// applied. Boss fish keep a fifth of it, rounded up.
func BaseChance(m Motion, boss bool) int {
	var chance int
	switch m {
	case MotionDart:
		chance = 5
	case MotionSmooth:
		chance = 90
	case MotionFloaterOrSinker:
		chance = 22
	default:
		chance = 54
	}
	if boss {
		chance = (chance + 4) / 5
	}
	return chance
}

// Curve constants fitted against observed perfect rates.
const (
	curveFloor    = -3.72
	curveSpan     = 123.0
	curveMidpoint = 44.29
	curveSlope    = 2.11
)

// DifficultyMultiplier scales BaseChance. It is about 1.19 at difficulty 0
// and falls toward -0.0372 as difficulty grows.
func DifficultyMultiplier(difficulty float64) float64 {
	if difficulty < 0 || math.IsNaN(difficulty) {
		difficulty = 0
	}
	return (curveFloor + curveSpan/(1+math.Pow(difficulty/curveMidpoint, curveSlope))) / 100
}

// PerfectChance is the clamped percent chance of a perfect catch.
func PerfectChance(m Motion, boss bool, difficulty float64) float64 {
	return clampPercent(float64(BaseChance(m, boss)) * DifficultyMultiplier(difficulty))
}

// IsPerfect decides the perfect flag when automation resolves a minigame.
// draw is uniform over [0,100); out of range draws are clamped.
func IsPerfect(m Motion, boss bool, difficulty float64, forcePerfect bool, draw float64) bool {
	if forcePerfect {
		return true
	}
	return clampPercent(draw) <= PerfectChance(m, boss, difficulty)
}

func clampPercent(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Roller produces the uniform draws fed to IsPerfect.
type Roller struct {
	rng *mrand.Rand
}

// NewRoller seeds from crypto/rand when rng is nil.
func NewRoller(rng *mrand.Rand) *Roller {
	if rng == nil {
		var b [8]byte
		if _, err := rand.Read(b[:]); err != nil {
			rng = mrand.New(mrand.NewSource(time.Now().UnixNano()))
		} else {
			rng = mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
		}
	}
	return &Roller{rng: rng}
}

// Draw returns a value in [0,100).
func (r *Roller) Draw() float64 {
	return r.rng.Float64() * 100
}
