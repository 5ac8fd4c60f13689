package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/faideww/fishing-tweaks/internal/fish"
)

var ErrStoreClosed = errors.New("store not initialized")

// Store is the durable per-player backing for fish.Statistics plus an
// append-only journal of recorded catches.
type Store interface {
	fish.CountLoader
	fish.CountSaver
	AppendEvent(ctx context.Context, e fish.CatchEvent) error
	RecentEvents(ctx context.Context, playerId string, kind fish.Kind, limit int) ([]fish.CatchEvent, error)
	Close() error
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*Memory)(nil)
)

func encodeCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, n := range counts {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// decodeCounts never fails: unreadable slots decode as zero so a damaged or
// older row still restores.
func decodeCounts(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err == nil {
			out[i] = n
		}
	}
	return out
}
