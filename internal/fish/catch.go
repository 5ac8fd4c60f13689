package fish

import "time"

// Kind identifies a catchable fish. It is an opaque key and is never parsed.
type Kind string

type Circumstance int

const (
	ManualNormal Circumstance = iota
	AssistedNormal
	ManualPerfect
	AssistedPerfect
	Missed

	NumCircumstances = int(Missed) + 1
)

func (c Circumstance) String() string {
	switch c {
	case ManualNormal:
		return "manual-normal"
	case AssistedNormal:
		return "assisted-normal"
	case ManualPerfect:
		return "manual-perfect"
	case AssistedPerfect:
		return "assisted-perfect"
	case Missed:
		return "missed"
	default:
		return "unknown"
	}
}

func (c Circumstance) Valid() bool {
	return c >= ManualNormal && c <= Missed
}

// CircumstanceFor maps a resolved catch onto its bucket.
func CircumstanceFor(assisted, perfect bool) Circumstance {
	switch {
	case perfect && assisted:
		return AssistedPerfect
	case perfect:
		return ManualPerfect
	case assisted:
		return AssistedNormal
	default:
		return ManualNormal
	}
}

// Record holds one counter per circumstance. The zero value is the same as
// having no record at all.
type Record [NumCircumstances]int

func (r Record) Total() int {
	return r[ManualNormal] + r[AssistedNormal] + r[ManualPerfect] + r[AssistedPerfect]
}

func (r Record) PerfectTotal() int {
	return r[ManualPerfect] + r[AssistedPerfect]
}

func (r Record) IsZero() bool {
	return r == Record{}
}

// CatchEvent is a single journaled Incr call.
type CatchEvent struct {
	Id           string
	PlayerId     string
	Kind         Kind
	Circumstance Circumstance
	Delta        int
	RecordedAt   time.Time
}
