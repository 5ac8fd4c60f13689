package fish

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
)

// Persisted counters live under FT_<kind>_FT so they cannot collide with
// unrelated entries in the same player store.
const (
	storeKeyPrefix = "FT_"
	storeKeySuffix = "_FT"
)

func StoreKey(k Kind) string {
	return storeKeyPrefix + string(k) + storeKeySuffix
}

func KindFromStoreKey(key string) (Kind, bool) {
	if len(key) < len(storeKeyPrefix)+len(storeKeySuffix) {
		return "", false
	}
	if !strings.HasPrefix(key, storeKeyPrefix) || !strings.HasSuffix(key, storeKeySuffix) {
		return "", false
	}
	return Kind(key[len(storeKeyPrefix) : len(key)-len(storeKeySuffix)]), true
}

type CountLoader interface {
	LoadCounts(ctx context.Context, playerId string) (map[string][]int, error)
}

// CountSaver writes the given keys and leaves every other stored key alone.
// An empty slice removes its key.
type CountSaver interface {
	SaveCounts(ctx context.Context, playerId string, counts map[string][]int) error
}

// Statistics counts catches per fish kind and circumstance. Kinds changed
// since the last load or save are tracked so a save only touches those.
// Not safe for concurrent use; it is driven from the single automation tick.
type Statistics struct {
	records map[Kind]Record
	dirty   map[Kind]struct{}
}

func NewStatistics() *Statistics {
	return &Statistics{
		records: make(map[Kind]Record),
		dirty:   make(map[Kind]struct{}),
	}
}

// Incr records one catch of kind under c.
func (s *Statistics) Incr(k Kind, c Circumstance) {
	s.IncrBy(k, c, 1)
}

// IncrBy adds delta to the (k, c) counter. Negative deltas undo earlier
// catches; the counter is floored at zero.
func (s *Statistics) IncrBy(k Kind, c Circumstance, delta int) {
	if !c.Valid() || delta == 0 {
		return
	}
	r := s.records[k]
	before := r[c]
	switch {
	case delta > 0 && r[c] > math.MaxInt-delta:
		r[c] = math.MaxInt
	case r[c]+delta < 0:
		r[c] = 0
	default:
		r[c] += delta
	}
	if r[c] == before {
		return
	}
	s.dirty[k] = struct{}{}
	if r.IsZero() {
		delete(s.records, k)
		return
	}
	s.records[k] = r
}

func (s *Statistics) Get(k Kind, c Circumstance) int {
	if !c.Valid() {
		return 0
	}
	return s.records[k][c]
}

func (s *Statistics) Record(k Kind) Record {
	return s.records[k]
}

func (s *Statistics) Total(k Kind) int {
	return s.records[k].Total()
}

func (s *Statistics) PerfectTotal(k Kind) int {
	return s.records[k].PerfectTotal()
}

// Reset drops everything recorded for k.
func (s *Statistics) Reset(k Kind) {
	if _, ok := s.records[k]; !ok {
		return
	}
	delete(s.records, k)
	s.dirty[k] = struct{}{}
}

func (s *Statistics) Len() int { return len(s.records) }

// Kinds returns every recorded kind in ascending order.
func (s *Statistics) Kinds() []Kind {
	out := make([]Kind, 0, len(s.records))
	for k := range s.records {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Each visits records in ascending kind order.
func (s *Statistics) Each(fn func(Kind, Record)) {
	for _, k := range s.Kinds() {
		fn(k, s.records[k])
	}
}

// Unsaved counts kinds changed since the last load or save.
func (s *Statistics) Unsaved() int { return len(s.dirty) }

// Changes returns the store representation of every changed kind. Kinds
// whose record was dropped map to nil.
func (s *Statistics) Changes() map[string][]int {
	out := make(map[string][]int, len(s.dirty))
	for k := range s.dirty {
		r, ok := s.records[k]
		if !ok {
			out[StoreKey(k)] = nil
			continue
		}
		counts := make([]int, NumCircumstances)
		copy(counts, r[:])
		out[StoreKey(k)] = counts
	}
	return out
}

// Restore replaces the current records with counts read from a store.
// Keys outside the FT_ namespace are skipped. Short slices are zero-filled,
// extra slots are dropped and negative values are floored.
func (s *Statistics) Restore(counts map[string][]int) {
	s.records = make(map[Kind]Record, len(counts))
	s.dirty = make(map[Kind]struct{})
	for key, vals := range counts {
		k, ok := KindFromStoreKey(key)
		if !ok {
			continue
		}
		var r Record
		for i := 0; i < len(vals) && i < NumCircumstances; i++ {
			if vals[i] > 0 {
				r[i] = vals[i]
			}
		}
		if !r.IsZero() {
			s.records[k] = r
		}
	}
}

func LoadStatistics(ctx context.Context, src CountLoader, playerId string) (*Statistics, error) {
	counts, err := src.LoadCounts(ctx, playerId)
	if err != nil {
		return nil, fmt.Errorf("load counts for %q: %w", playerId, err)
	}
	s := NewStatistics()
	s.Restore(counts)
	return s, nil
}

// Save writes the kinds changed since the last load or save. Counts other
// writers stored for untouched kinds are kept.
func (s *Statistics) Save(ctx context.Context, dst CountSaver, playerId string) error {
	if len(s.dirty) == 0 {
		return nil
	}
	if err := dst.SaveCounts(ctx, playerId, s.Changes()); err != nil {
		return fmt.Errorf("save counts for %q: %w", playerId, err)
	}
	s.dirty = make(map[Kind]struct{})
	return nil
}
