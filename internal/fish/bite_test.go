package fish

import (
	"errors"
	"log/slog"
	"testing"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestTimer(t *testing.T) *BiteTimer {
	t.Helper()
	bt, err := NewBiteTimer(DefaultBiteBuffer, discardLogger)
	if err != nil {
		t.Fatalf("NewBiteTimer: %v", err)
	}
	return bt
}

func TestBiteTimer_RejectsNegativeBuffer(t *testing.T) {
	if _, err := NewBiteTimer(-1, nil); !errors.Is(err, ErrNegativeBuffer) {
		t.Fatalf("err = %v, want ErrNegativeBuffer", err)
	}
	if _, err := NewBiteTimer(0, nil); err != nil {
		t.Fatalf("zero buffer should be allowed: %v", err)
	}
}

func TestBiteTimer_FullCycle(t *testing.T) {
	bt := newTestTimer(t)

	if d := bt.Observe(NoBite, 0); d.Phase != BiteIdle || d.Hook || d.SetCountdown {
		t.Fatalf("idle observation produced %+v", d)
	}

	d := bt.Observe(10000, 0)
	if d.Phase != BiteExtended || !d.SetCountdown || d.Countdown != 15000 || d.Hook {
		t.Fatalf("extension decision = %+v", d)
	}
	if bt.Original() != 10000 {
		t.Fatalf("Original = %v, want 10000", bt.Original())
	}

	// The host now reports the extended countdown.
	for _, elapsed := range []float64{16, 5000, 10000} {
		d = bt.Observe(15000, elapsed)
		if d.Phase != BiteExtended || d.Hook || d.SetCountdown {
			t.Fatalf("elapsed %v: unexpected decision %+v", elapsed, d)
		}
	}

	d = bt.Observe(15000, 10016)
	if d.Phase != BiteTriggered || !d.Hook || !d.SetCountdown || d.Countdown != NoBite {
		t.Fatalf("trigger decision = %+v", d)
	}
	if bt.Original() != NoBite {
		t.Fatalf("Original should be cleared after trigger, got %v", bt.Original())
	}

	hooks := 0
	for i := 0; i < 3; i++ {
		if bt.Observe(NoBite, 0).Hook {
			hooks++
		}
	}
	if hooks != 0 {
		t.Fatalf("hook fired %d extra times", hooks)
	}
	if bt.Phase() != BiteIdle {
		t.Fatalf("phase = %s, want idle", bt.Phase())
	}
}

func TestBiteTimer_NoDoubleTriggerWhileHostLags(t *testing.T) {
	bt := newTestTimer(t)
	bt.Observe(800, 0)
	if !bt.Observe(5800, 900).Hook {
		t.Fatalf("expected hook")
	}
	// Host has not applied the cleared countdown yet.
	for i := 0; i < 5; i++ {
		if d := bt.Observe(5800, 1000+float64(i)*16); d.Hook || d.SetCountdown {
			t.Fatalf("lagging host produced %+v", d)
		}
	}
	if bt.Phase() != BiteTriggered {
		t.Fatalf("phase = %s, want triggered", bt.Phase())
	}
}

func TestBiteTimer_ExternalClearResets(t *testing.T) {
	bt := newTestTimer(t)
	bt.Observe(3000, 0)
	if bt.Phase() != BiteExtended {
		t.Fatalf("phase = %s, want extended", bt.Phase())
	}

	// Player reeled in by hand; the host cleared the countdown.
	bt.Observe(NoBite, 0)
	if bt.Phase() != BiteIdle || bt.Original() != NoBite {
		t.Fatalf("stale state after external clear: %s %v", bt.Phase(), bt.Original())
	}

	d := bt.Observe(7000, 0)
	if !d.SetCountdown || d.Countdown != 12000 || bt.Original() != 7000 {
		t.Fatalf("next cycle used stale budget: %+v original=%v", d, bt.Original())
	}
}

func TestBiteTimer_ElapsedAlreadyPastOnFirstSight(t *testing.T) {
	bt := newTestTimer(t)
	d := bt.Observe(500, 600)
	if !d.Hook || d.Countdown != NoBite || d.Phase != BiteTriggered {
		t.Fatalf("decision = %+v, want immediate hook", d)
	}
}

func TestBiteTimer_HostNotYetExtended(t *testing.T) {
	bt := newTestTimer(t)
	bt.Observe(4000, 0)
	// The extension has not been applied yet; the host still reports 4000.
	if d := bt.Observe(4000, 100); d.SetCountdown || d.Hook || d.Phase != BiteExtended {
		t.Fatalf("lagging host re-extended: %+v", d)
	}
	if bt.Original() != 4000 {
		t.Fatalf("Original = %v, want 4000", bt.Original())
	}
}

func TestBiteTimer_RecapturesUnseenNewWait(t *testing.T) {
	bt := newTestTimer(t)
	bt.Observe(10000, 0)

	// The cycle ended and a new one began without the sentinel being seen.
	d := bt.Observe(8000, 50)
	if !d.SetCountdown || d.Countdown != 13000 || d.Hook {
		t.Fatalf("decision = %+v, want extension to 13000", d)
	}
	if bt.Original() != 8000 {
		t.Fatalf("Original = %v, want 8000", bt.Original())
	}
}
