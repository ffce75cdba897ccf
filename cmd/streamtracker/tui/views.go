package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/streamtracker/streamtracker/internal/api"
)

func renderDiscovery(d api.Discovery) string {
	var b strings.Builder
	s := d.Stats
	b.WriteString(HeaderStyle.Render("Your watchlist"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s · %d watching · %d want to watch · %d watched\n",
		plural(s.TotalItems, "title"), s.Watching, s.WantToWatch, s.Watched))
	b.WriteString(DimStyle.Render(fmt.Sprintf("%d of %d platforms subscribed · about %.0f hours left to watch",
		s.SubscribedPlatforms, s.TotalPlatforms, s.EstimatedHoursRemaining)))
	b.WriteString("\n")

	sections := []struct {
		title string
		items []api.SlimItem
		empty string
	}{
		{"Continue watching", d.ContinueWatching, "Nothing in progress."},
		{"Up next", d.UpNext, "Add titles to your watchlist to see them here."},
		{"Recently completed", d.RecentlyCompleted, "Nothing finished yet."},
	}
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(HeaderStyle.Render(sec.title))
		b.WriteString("\n")
		if len(sec.items) == 0 {
			b.WriteString(DimStyle.Render("  " + sec.empty))
			b.WriteString("\n")
			continue
		}
		for _, it := range sec.items {
			b.WriteString(fmt.Sprintf("  %s %s", it.Title, DimStyle.Render("("+it.Type+")")))
			if it.PlatformName != nil {
				b.WriteString(DimStyle.Render(" on " + *it.PlatformName))
			}
			b.WriteString(DimStyle.Render(" · added " + relTime(it.AddedAt.Time)))
			b.WriteString("\n")
		}
	}

	if len(d.PlatformBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(HeaderStyle.Render("By platform"))
		b.WriteString("\n")
		for _, p := range d.PlatformBreakdown {
			name := p.PlatformName
			if !p.IsSubscribed {
				name += DimStyle.Render(" (not subscribed)")
			}
			b.WriteString(fmt.Sprintf("  %s %s  %s\n", swatch(p.Color), name,
				DimStyle.Render(fmt.Sprintf("%d titles, %d watched", p.Total, p.Watched))))
		}
	}
	return b.String()
}

func renderWatchlist(items []api.WatchlistItem, filter api.WatchStatus, cursor int) string {
	var b strings.Builder
	label := "All"
	if filter != "" {
		label = filter.Label()
	}
	b.WriteString(HeaderStyle.Render("Watchlist"))
	b.WriteString(DimStyle.Render(fmt.Sprintf("  showing %s · %s", label, plural(len(items), "title"))))
	b.WriteString("\n\n")

	if len(items) == 0 {
		b.WriteString(DimStyle.Render("Nothing here yet. Press a to add a title."))
		return b.String()
	}
	for i, it := range items {
		prefix := "  "
		if i == cursor {
			prefix = CursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		b.WriteString(statusBadge(it.Status))
		b.WriteString(" ")
		b.WriteString(it.Title)
		b.WriteString(DimStyle.Render(" (" + string(it.Type) + ")"))
		if it.PlatformName != nil {
			b.WriteString(DimStyle.Render(" on " + *it.PlatformName))
		}
		b.WriteString(DimStyle.Render(" · added " + relTime(it.AddedAt.Time)))
		b.WriteString("\n")
	}
	return b.String()
}

func statusBadge(s api.WatchStatus) string {
	color := colorBlue
	switch s {
	case api.StatusWatching:
		color = colorYellow
	case api.StatusWatched:
		color = colorGreen
	}
	return lipgloss.NewStyle().Foreground(color).Width(14).Render(s.Label())
}

func renderPlatforms(platforms []api.Platform, cursor int) string {
	var b strings.Builder
	var total float64
	for _, p := range platforms {
		if p.IsSubscribed {
			total += p.MonthlyCost
		}
	}
	b.WriteString(HeaderStyle.Render("Platforms"))
	b.WriteString("  ")
	b.WriteString(MoneyStyle.Render(formatMoney(total)))
	b.WriteString(DimStyle.Render("/mo subscribed"))
	b.WriteString("\n\n")

	if len(platforms) == 0 {
		b.WriteString(DimStyle.Render("No platforms yet. Press a to add one."))
		return b.String()
	}
	for i, p := range platforms {
		prefix := "  "
		if i == cursor {
			prefix = CursorStyle.Render("> ")
		}
		check, style := "[ ]", DimStyle
		if p.IsSubscribed {
			check, style = "[x]", SelectedStyle
		}
		b.WriteString(fmt.Sprintf("%s%s %s %-18s %s\n", prefix, style.Render(check), swatch(p.Color),
			p.Name, MoneyStyle.Render(formatMoney(p.MonthlyCost))))
	}
	return b.String()
}

func renderInsights(in api.Insights) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Insights"))
	b.WriteString("  ")
	b.WriteString(MoneyStyle.Render(formatMoney(in.TotalMonthlySpend)))
	b.WriteString(DimStyle.Render(fmt.Sprintf("/mo across %s · generated %s",
		plural(in.SubscribedPlatformCount, "subscription"), relTime(in.GeneratedAt.Time))))
	b.WriteString("\n")
	if in.DataCoverageNote != nil && *in.DataCoverageNote != "" {
		b.WriteString(DimStyle.Render(*in.DataCoverageNote))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(in.Recommendations) == 0 {
		b.WriteString(DimStyle.Render("No recommendations yet. Subscribe to a platform and track what you watch."))
		return b.String()
	}

	recs := append([]api.Recommendation(nil), in.Recommendations...)
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ValueScore < recs[j].ValueScore })
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("%s %s  %s  %s\n", swatch(r.PlatformColor), r.PlatformName,
			actionBadge(r.Action), DimStyle.Render(fmt.Sprintf("value %.0f · %s confidence · %s/mo",
				r.ValueScore, r.Confidence, formatMoney(r.MonthlyCost)))))
		if r.Reason != "" {
			b.WriteString("    " + r.Reason + "\n")
		}
	}
	return b.String()
}

func actionBadge(action string) string {
	switch strings.ToLower(action) {
	case "keep":
		return actionKeepStyle.Render("KEEP")
	case "cancel":
		return actionCancelStyle.Render("CANCEL")
	default:
		return actionReviewStyle.Render(strings.ToUpper(action))
	}
}
