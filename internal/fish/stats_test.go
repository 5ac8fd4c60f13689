package fish

import (
	"context"
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestStatistics_UnseenKindIsZero(t *testing.T) {
	s := NewStatistics()
	if got := s.Total("never"); got != 0 {
		t.Fatalf("Total = %d, want 0", got)
	}
	if got := s.PerfectTotal("never"); got != 0 {
		t.Fatalf("PerfectTotal = %d, want 0", got)
	}
	for c := ManualNormal; c <= Missed; c++ {
		if got := s.Get("never", c); got != 0 {
			t.Fatalf("Get(%s) = %d, want 0", c, got)
		}
	}
	if !IsEligible(s, "never", Thresholds{MinCatch: 0}) {
		t.Fatalf("zero thresholds should admit an unseen fish")
	}
	if IsEligible(s, "never", Thresholds{MinCatch: 1}) {
		t.Fatalf("unseen fish should not be eligible with MinCatch 1")
	}
}

func TestStatistics_TotalsExcludeMissed(t *testing.T) {
	s := NewStatistics()
	s.Incr("150", ManualNormal)
	s.Incr("150", AssistedNormal)
	s.Incr("150", ManualPerfect)
	s.IncrBy("150", AssistedPerfect, 2)
	s.IncrBy("150", Missed, 7)

	if got := s.Total("150"); got != 5 {
		t.Fatalf("Total = %d, want 5", got)
	}
	if got := s.PerfectTotal("150"); got != 3 {
		t.Fatalf("PerfectTotal = %d, want 3", got)
	}
	if got := s.Get("150", Missed); got != 7 {
		t.Fatalf("Missed = %d, want 7", got)
	}
	if s.Total("150") != s.Total("150") || s.Get("150", Missed) != s.Get("150", Missed) {
		t.Fatalf("queries are not stable")
	}
}

func TestStatistics_NegativeDeltaFloorsAtZero(t *testing.T) {
	s := NewStatistics()
	s.IncrBy("a", ManualNormal, 2)
	s.IncrBy("a", ManualPerfect, 1)
	s.IncrBy("a", ManualNormal, -5)

	if got := s.Get("a", ManualNormal); got != 0 {
		t.Fatalf("ManualNormal = %d, want 0", got)
	}
	if got := s.Total("a"); got != 1 {
		t.Fatalf("Total = %d, want 1", got)
	}

	s.IncrBy("a", ManualPerfect, -1)
	if s.Len() != 0 {
		t.Fatalf("all-zero record should be dropped, have %d records", s.Len())
	}
	s.IncrBy("b", Missed, -1)
	if s.Len() != 0 {
		t.Fatalf("decrement of an absent record should not create one")
	}
}

func TestStatistics_InvalidCircumstanceIgnored(t *testing.T) {
	s := NewStatistics()
	s.Incr("a", Circumstance(9))
	s.Incr("a", Circumstance(-1))
	if s.Len() != 0 {
		t.Fatalf("invalid circumstances must not be recorded")
	}
	if got := s.Get("a", Circumstance(9)); got != 0 {
		t.Fatalf("Get(invalid) = %d", got)
	}
}

func TestStatistics_KindsAscending(t *testing.T) {
	s := NewStatistics()
	for _, k := range []Kind{"702", "128", "150", "(O)128", "Zander"} {
		s.Incr(k, ManualNormal)
	}
	want := []Kind{"(O)128", "128", "150", "702", "Zander"}
	if got := s.Kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Kinds = %v, want %v", got, want)
	}

	var visited []Kind
	s.Each(func(k Kind, _ Record) { visited = append(visited, k) })
	if !reflect.DeepEqual(visited, want) {
		t.Fatalf("Each order = %v, want %v", visited, want)
	}
}

func TestStatistics_KeysAreExact(t *testing.T) {
	s := NewStatistics()
	s.Incr("Carp", ManualNormal)
	if s.Total("carp") != 0 {
		t.Fatalf("keys must not be case-folded")
	}
	s.Reset("Carp")
	if s.Total("Carp") != 0 {
		t.Fatalf("Reset did not drop the record")
	}
}

func TestStoreKey_RoundTrip(t *testing.T) {
	key := StoreKey("150")
	if key != "FT_150_FT" {
		t.Fatalf("StoreKey = %q", key)
	}
	k, ok := KindFromStoreKey(key)
	if !ok || k != "150" {
		t.Fatalf("KindFromStoreKey = %q, %v", k, ok)
	}
	for _, bad := range []string{"150", "FT_150", "150_FT", "FT_", "CATCH_STATS_150_MOD"} {
		if _, ok := KindFromStoreKey(bad); ok {
			t.Fatalf("KindFromStoreKey(%q) accepted", bad)
		}
	}
	if k, ok := KindFromStoreKey("FT__FT"); !ok || k != "" {
		t.Fatalf("empty kind should round trip, got %q %v", k, ok)
	}
}

func TestStatistics_RestoreToleratesShapes(t *testing.T) {
	s := NewStatistics()
	s.Restore(map[string][]int{
		"FT_short_FT":          {1, 2, 3, 4},
		"FT_long_FT":           {1, 0, 0, 0, 2, 9, 9},
		"FT_neg_FT":            {-3, 1},
		"FT_empty_FT":          {},
		"CATCH_STATS_x_MOD":    {5, 5, 5, 5},
		"unrelated_vanilla_id": {1, 1},
	})

	if got := s.Record("short"); got != (Record{1, 2, 3, 4, 0}) {
		t.Fatalf("short = %v", got)
	}
	if got := s.Record("long"); got != (Record{1, 0, 0, 0, 2}) {
		t.Fatalf("long = %v", got)
	}
	if got := s.Record("neg"); got != (Record{0, 1, 0, 0, 0}) {
		t.Fatalf("neg = %v", got)
	}
	want := []Kind{"long", "neg", "short"}
	if got := s.Kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Kinds = %v, want %v", got, want)
	}
}

type mapStore struct {
	counts  map[string]map[string][]int
	loadErr error
	saves   int
}

func (m *mapStore) LoadCounts(_ context.Context, playerId string) (map[string][]int, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.counts[playerId], nil
}

func (m *mapStore) SaveCounts(_ context.Context, playerId string, counts map[string][]int) error {
	m.saves++
	if m.counts == nil {
		m.counts = map[string]map[string][]int{}
	}
	if m.counts[playerId] == nil {
		m.counts[playerId] = map[string][]int{}
	}
	for k, v := range counts {
		if len(v) == 0 {
			delete(m.counts[playerId], k)
			continue
		}
		m.counts[playerId][k] = v
	}
	return nil
}

func TestStatistics_SaveAndLoad(t *testing.T) {
	ctx := context.Background()
	st := &mapStore{}

	s := NewStatistics()
	s.Incr("150", ManualNormal)
	s.Incr("150", AssistedPerfect)
	s.Incr("702", Missed)
	if err := s.Save(ctx, st, "farmer"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadStatistics(ctx, st, "farmer")
	if err != nil {
		t.Fatalf("LoadStatistics: %v", err)
	}
	for _, k := range []Kind{"150", "702"} {
		if got.Record(k) != s.Record(k) {
			t.Fatalf("%s: got %v want %v", k, got.Record(k), s.Record(k))
		}
	}

	other, err := LoadStatistics(ctx, st, "someone-else")
	if err != nil {
		t.Fatalf("LoadStatistics other: %v", err)
	}
	if other.Len() != 0 {
		t.Fatalf("other player should start empty")
	}
}

func TestLoadStatistics_WrapsError(t *testing.T) {
	boom := errors.New("boom")
	_, err := LoadStatistics(context.Background(), &mapStore{loadErr: boom}, "farmer")
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestStatistics_SaturatesInsteadOfWrapping(t *testing.T) {
	s := NewStatistics()
	s.IncrBy("150", ManualNormal, math.MaxInt-1)
	s.IncrBy("150", ManualNormal, 5)
	if got := s.Get("150", ManualNormal); got != math.MaxInt {
		t.Fatalf("count = %d, want MaxInt", got)
	}
	s.Incr("150", ManualNormal)
	if got := s.Get("150", ManualNormal); got != math.MaxInt {
		t.Fatalf("count moved past MaxInt: %d", got)
	}
}

func TestStatistics_SaveWritesOnlyChangedKinds(t *testing.T) {
	ctx := context.Background()
	st := &mapStore{counts: map[string]map[string][]int{
		"farmer": {
			StoreKey("150"): {1, 0, 0, 0, 0},
			StoreKey("702"): {0, 0, 2, 0, 0},
		},
	}}

	s, err := LoadStatistics(ctx, st, "farmer")
	if err != nil {
		t.Fatalf("LoadStatistics: %v", err)
	}
	if s.Unsaved() != 0 {
		t.Fatalf("fresh load has %d unsaved kinds", s.Unsaved())
	}
	if err := s.Save(ctx, st, "farmer"); err != nil || st.saves != 0 {
		t.Fatalf("unchanged save wrote: saves=%d err=%v", st.saves, err)
	}

	// Someone else records a 702 catch after we loaded.
	st.counts["farmer"][StoreKey("702")] = []int{0, 0, 3, 0, 0}

	s.Incr("128", ManualPerfect)
	s.Reset("150")
	s.IncrBy("999", Missed, -1)
	if s.Unsaved() != 2 {
		t.Fatalf("Unsaved = %d, want 2", s.Unsaved())
	}
	if err := s.Save(ctx, st, "farmer"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := LoadStatistics(ctx, st, "farmer")
	if err != nil {
		t.Fatalf("LoadStatistics: %v", err)
	}
	if got.Get("702", ManualPerfect) != 3 {
		t.Fatalf("untouched kind overwritten: %v", got.Record("702"))
	}
	if got.Total("150") != 0 || got.PerfectTotal("128") != 1 {
		t.Fatalf("changes not written: 150=%v 128=%v", got.Record("150"), got.Record("128"))
	}
	if s.Unsaved() != 0 {
		t.Fatalf("Unsaved after save = %d", s.Unsaved())
	}
}
