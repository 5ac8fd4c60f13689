package bot

import (
	"fmt"
	"strings"

	"github.com/faideww/fishing-tweaks/internal/fish"
)

// Embed descriptions are capped by Discord; long lists are cut here.
const maxListLines = 40

func catchLine(cat *fish.Catalog, k fish.Kind, r fish.Record) string {
	return fmt.Sprintf("**%s** — %d caught · %d perfect\n", cat.NameOf(k), r.Total(), r.PerfectTotal())
}

// catchList renders one line per recorded fish in ascending key order.
func catchList(cat *fish.Catalog, stats *fish.Statistics) string {
	if stats.Len() == 0 {
		return ""
	}
	var sb strings.Builder
	n := 0
	stats.Each(func(k fish.Kind, r fish.Record) {
		if n < maxListLines {
			sb.WriteString(catchLine(cat, k, r))
		}
		n++
	})
	if n > maxListLines {
		fmt.Fprintf(&sb, "…and %d more\n", n-maxListLines)
	}
	return sb.String()
}

func catchDetail(cat *fish.Catalog, k fish.Kind, r fish.Record) string {
	return fmt.Sprintf(
		"**%s**\nManual: %d normal · %d perfect\nAssisted: %d normal · %d perfect\nMissed: %d",
		cat.NameOf(k),
		r[fish.ManualNormal], r[fish.ManualPerfect],
		r[fish.AssistedNormal], r[fish.AssistedPerfect],
		r[fish.Missed],
	)
}

func familiarText(cat *fish.Catalog, stats *fish.Statistics, k fish.Kind, th fish.Thresholds) string {
	if fish.IsEligible(stats, k, th) {
		return fmt.Sprintf("You know the **%s** well enough, its minigame will be skipped.", cat.NameOf(k))
	}
	catchNeeded, perfectNeeded := fish.Deficit(stats, k, th)
	return fmt.Sprintf("**%s** needs %d more catch(es) and %d more perfect catch(es) before the minigame is skipped.",
		cat.NameOf(k), catchNeeded, perfectNeeded)
}
