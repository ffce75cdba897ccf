package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

func formatMoney(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// relTime renders t relative to now, or "-" for the zero time.
func relTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// clamp bounds v to [lo, hi]; an empty range yields lo.
func clamp(v, lo, hi int) int {
	if hi < lo || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
