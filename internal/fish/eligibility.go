package fish

// Thresholds gate skipping the minigame for a fish kind. Negative values
// are treated as zero.
type Thresholds struct {
	MinCatch   int
	MinPerfect int
}

// History is the read side of Statistics needed by the gate.
type History interface {
	Total(Kind) int
	PerfectTotal(Kind) int
}

func (t Thresholds) normalized() Thresholds {
	if t.MinCatch < 0 {
		t.MinCatch = 0
	}
	if t.MinPerfect < 0 {
		t.MinPerfect = 0
	}
	return t
}

// IsEligible reports whether k has been caught often enough, and perfectly
// often enough, for automation to resolve its minigame.
func IsEligible(h History, k Kind, t Thresholds) bool {
	t = t.normalized()
	return h.Total(k) >= t.MinCatch && h.PerfectTotal(k) >= t.MinPerfect
}

// Deficit returns how many more catches and perfect catches k needs.
// Both values are never negative.
func Deficit(h History, k Kind, t Thresholds) (catchNeeded, perfectNeeded int) {
	t = t.normalized()
	return max(0, t.MinCatch-h.Total(k)), max(0, t.MinPerfect-h.PerfectTotal(k))
}
