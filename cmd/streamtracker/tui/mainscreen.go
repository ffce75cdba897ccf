package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/streamtracker/streamtracker/internal/api"
	"github.com/streamtracker/streamtracker/internal/app"
	"github.com/streamtracker/streamtracker/internal/onboarding"
)

// overlayContext tracks what the open overlay was opened for.
type overlayContext int

const (
	overlayNone overlayContext = iota
	overlaySignOut
	overlayPlatformName
	overlayPlatformCost
	overlayEditCost
	overlayDeletePlatform
	overlayItemTitle
	overlayItemType
	overlayDeleteItem
)

// tabState is the load state of one tab.
type tabState struct {
	loaded  bool
	loading bool
	err     string
}

// MainModel is the signed-in, onboarded screen set.
type MainModel struct {
	app   *app.App
	email string

	tabs   TabBar
	status StatusBar
	state  map[Tab]*tabState

	// Tab data.
	discovery   api.Discovery
	watchlist   []api.WatchlistItem
	watchFilter api.WatchStatus
	watchCursor int
	platforms   []api.Platform
	platCursor  int
	insights    api.Insights

	// Overlay state.
	overlay    Overlay
	overlayCtx overlayContext
	pendingID  int
	pendingStr string

	width    int
	height   int
	quitting bool
}

// NewMainModel returns the main screen set on the Discover tab.
func NewMainModel(a *app.App, email string) MainModel {
	m := MainModel{
		app:   a,
		email: email,
		tabs:  NewTabBar(),
		state: make(map[Tab]*tabState, len(AllTabs)),
	}
	for _, t := range AllTabs {
		m.state[t] = &tabState{}
	}
	m.status.SetContext(email)
	m.status.SetHints(hintsFor(TabDiscover))
	return m
}

// SetSize records the terminal size and lays out the chrome.
func (m *MainModel) SetSize(w, h int) {
	m.width, m.height = w, h
	m.tabs.SetWidth(w)
	m.status.SetWidth(w)
	if m.overlay.Active() {
		m.overlay.SetWidth(OverlayMaxWidth(w))
	}
}

// Init loads the first tab.
func (m MainModel) Init() tea.Cmd {
	return m.load(TabDiscover)
}

// ActiveTab returns the selected tab.
func (m MainModel) ActiveTab() Tab {
	return m.tabs.Active()
}

// Update handles keys, overlay results and server responses.
func (m MainModel) Update(msg tea.Msg) (MainModel, tea.Cmd) {
	if m.app == nil {
		return m, nil
	}
	switch msg := msg.(type) {
	case OverlayCloseMsg:
		return m.handleOverlayClose(msg)

	case discoveryLoadedMsg:
		if m.finishLoad(TabDiscover, msg.err) {
			m.discovery = msg.discovery
		}
		return m, nil

	case watchlistLoadedMsg:
		if msg.filter != m.watchFilter {
			return m, nil // superseded by a filter change
		}
		if m.finishLoad(TabWatchlist, msg.err) {
			m.watchlist = msg.items
			m.watchCursor = clamp(m.watchCursor, 0, len(m.watchlist)-1)
		}
		return m, nil

	case platformsLoadedMsg:
		if m.finishLoad(TabPlatforms, msg.err) {
			m.platforms = msg.platforms
			m.platCursor = clamp(m.platCursor, 0, len(m.platforms)-1)
		}
		return m, nil

	case insightsLoadedMsg:
		if m.finishLoad(TabInsights, msg.err) {
			m.insights = msg.insights
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.app.Logger.Warn("change failed", "tab", msg.tab.String(), "err", msg.err)
			m.status.Error(api.Message(msg.err))
			return m, nil
		}
		m.status.Notify(msg.notice)
		// Every tab derives from the same inventory, so all go stale.
		for _, st := range m.state {
			st.loaded = false
		}
		return m, m.load(m.tabs.Active())
	}

	if m.overlay.Active() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "tab":
		m.tabs.CycleNext()
		return m, m.switchedTab()
	case "shift+tab":
		m.tabs.CyclePrev()
		return m, m.switchedTab()
	case "1", "2", "3", "4":
		m.tabs.SetActive(AllTabs[int(key.String()[0]-'1')])
		return m, m.switchedTab()
	case "r":
		m.state[m.tabs.Active()].loaded = false
		return m, m.load(m.tabs.Active())
	case "L":
		m.openOverlay(overlaySignOut, NewConfirmOverlay("Sign out",
			fmt.Sprintf("Sign out of %s?", m.email), "Sign out"))
		return m, nil
	}

	switch m.tabs.Active() {
	case TabWatchlist:
		return m.updateWatchlist(key)
	case TabPlatforms:
		return m.updatePlatforms(key)
	}
	return m, nil
}

func (m *MainModel) switchedTab() tea.Cmd {
	m.status.SetHints(hintsFor(m.tabs.Active()))
	return m.load(m.tabs.Active())
}

// load fetches tab unless it is already loaded or in flight.
func (m *MainModel) load(tab Tab) tea.Cmd {
	st := m.state[tab]
	if st.loaded || st.loading {
		return nil
	}
	st.loading = true
	st.err = ""

	c := m.app.Client
	ctx := context.Background()
	switch tab {
	case TabDiscover:
		return func() tea.Msg {
			d, err := c.Discovery(ctx)
			return discoveryLoadedMsg{discovery: d, err: err}
		}
	case TabWatchlist:
		filter := m.watchFilter
		return func() tea.Msg {
			items, err := c.ListWatchlist(ctx, filter)
			return watchlistLoadedMsg{filter: filter, items: items, err: err}
		}
	case TabPlatforms:
		return func() tea.Msg {
			ps, err := c.ListPlatforms(ctx)
			return platformsLoadedMsg{platforms: ps, err: err}
		}
	case TabInsights:
		return func() tea.Msg {
			in, err := c.Insights(ctx)
			return insightsLoadedMsg{insights: in, err: err}
		}
	}
	return nil
}

// finishLoad records a load result and reports whether it succeeded.
func (m *MainModel) finishLoad(tab Tab, err error) bool {
	st := m.state[tab]
	st.loading = false
	if err != nil {
		m.app.Logger.Warn("loading tab failed", "tab", tab.String(), "err", err)
		st.err = api.Message(err)
		return false
	}
	st.loaded = true
	return true
}

// mutate runs fn off the event loop and reports it as a mutationDoneMsg.
func (m MainModel) mutate(tab Tab, notice string, fn func(ctx context.Context, c *api.Client) error) tea.Cmd {
	c := m.app.Client
	return func() tea.Msg {
		err := fn(context.Background(), c)
		return mutationDoneMsg{tab: tab, notice: notice, err: err}
	}
}

// --- Watchlist ---

func (m MainModel) selectedItem() (api.WatchlistItem, bool) {
	if m.watchCursor < 0 || m.watchCursor >= len(m.watchlist) {
		return api.WatchlistItem{}, false
	}
	return m.watchlist[m.watchCursor], true
}

func (m MainModel) updateWatchlist(key tea.KeyMsg) (MainModel, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.watchCursor = clamp(m.watchCursor-1, 0, len(m.watchlist)-1)
	case "down", "j":
		m.watchCursor = clamp(m.watchCursor+1, 0, len(m.watchlist)-1)
	case "f":
		m.watchFilter = nextFilter(m.watchFilter)
		m.watchCursor = 0
		st := m.state[TabWatchlist]
		st.loaded, st.loading = false, false
		return m, m.load(TabWatchlist)
	case "s":
		item, ok := m.selectedItem()
		if !ok {
			return m, nil
		}
		next := item.Status.Next()
		notice := fmt.Sprintf("%s → %s", item.Title, next.Label())
		return m, m.mutate(TabWatchlist, notice, func(ctx context.Context, c *api.Client) error {
			_, err := c.UpdateWatchlistItem(ctx, item.ID, api.WatchlistUpdate{Status: &next})
			return err
		})
	case "a":
		m.openOverlay(overlayItemTitle, NewTextInputOverlay("Add to watchlist", "Title", ""))
	case "d":
		if item, ok := m.selectedItem(); ok {
			m.pendingID = item.ID
			m.openOverlay(overlayDeleteItem, NewConfirmOverlay("Remove title",
				fmt.Sprintf("Remove %q from your watchlist?", item.Title), "Remove"))
		}
	}
	return m, nil
}

// nextFilter cycles all → want to watch → watching → watched → all.
func nextFilter(f api.WatchStatus) api.WatchStatus {
	if f == api.StatusWatched {
		return ""
	}
	if f == "" {
		return api.StatusWantToWatch
	}
	return f.Next()
}

// --- Platforms ---

func (m MainModel) selectedPlatform() (api.Platform, bool) {
	if m.platCursor < 0 || m.platCursor >= len(m.platforms) {
		return api.Platform{}, false
	}
	return m.platforms[m.platCursor], true
}

func (m MainModel) updatePlatforms(key tea.KeyMsg) (MainModel, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		m.platCursor = clamp(m.platCursor-1, 0, len(m.platforms)-1)
	case "down", "j":
		m.platCursor = clamp(m.platCursor+1, 0, len(m.platforms)-1)
	case " ":
		p, ok := m.selectedPlatform()
		if !ok {
			return m, nil
		}
		subscribed := !p.IsSubscribed
		notice := p.Name + " marked as unsubscribed"
		if subscribed {
			notice = p.Name + " marked as subscribed"
		}
		return m, m.mutate(TabPlatforms, notice, func(ctx context.Context, c *api.Client) error {
			_, err := c.UpdatePlatform(ctx, p.ID, api.PlatformUpdate{IsSubscribed: &subscribed})
			return err
		})
	case "a":
		m.openOverlay(overlayPlatformName, NewTextInputOverlay("Add platform", "Name", ""))
	case "e":
		if p, ok := m.selectedPlatform(); ok {
			m.pendingID = p.ID
			m.pendingStr = p.Name
			m.openOverlay(overlayEditCost, NewTextInputOverlay("Monthly cost of "+p.Name, "0.00",
				fmt.Sprintf("%.2f", p.MonthlyCost)))
		}
	case "d":
		if p, ok := m.selectedPlatform(); ok {
			m.pendingID = p.ID
			m.openOverlay(overlayDeletePlatform, NewConfirmOverlay("Remove platform",
				fmt.Sprintf("Remove %s and stop tracking its cost?", p.Name), "Remove"))
		}
	}
	return m, nil
}

// --- Overlays ---

func (m *MainModel) openOverlay(ctx overlayContext, o Overlay) {
	o.SetWidth(OverlayMaxWidth(m.width))
	m.overlay = o
	m.overlayCtx = ctx
}

func (m MainModel) handleOverlayClose(msg OverlayCloseMsg) (MainModel, tea.Cmd) {
	ctx := m.overlayCtx
	m.overlayCtx = overlayNone
	if !msg.Confirmed {
		return m, nil
	}

	switch ctx {
	case overlaySignOut:
		a := m.app
		return m, func() tea.Msg {
			if err := a.Session.SignOut(context.Background()); err != nil {
				a.Logger.Warn("sign out failed to clear storage", "err", err)
			}
			return SessionChangedMsg{Snapshot: a.Session.Snapshot()}
		}

	case overlayPlatformName:
		m.pendingStr = msg.Result
		suggested := ""
		if e, ok := onboarding.Lookup(msg.Result); ok {
			suggested = fmt.Sprintf("%.2f", e.SuggestedPrice)
		}
		m.openOverlay(overlayPlatformCost, NewTextInputOverlay("Monthly cost of "+msg.Result, "0.00", suggested))
		return m, nil

	case overlayPlatformCost:
		create := api.PlatformCreate{
			Name:         m.pendingStr,
			MonthlyCost:  onboarding.ParseCost(msg.Result),
			IsSubscribed: true,
		}
		if e, ok := onboarding.Lookup(create.Name); ok {
			create.Color = e.Color
		}
		return m, m.mutate(TabPlatforms, "Added "+create.Name, func(ctx context.Context, c *api.Client) error {
			_, err := c.CreatePlatform(ctx, create)
			return err
		})

	case overlayEditCost:
		id, cost := m.pendingID, onboarding.ParseCost(msg.Result)
		notice := fmt.Sprintf("%s now costs %s/mo", m.pendingStr, formatMoney(cost))
		return m, m.mutate(TabPlatforms, notice, func(ctx context.Context, c *api.Client) error {
			_, err := c.UpdatePlatform(ctx, id, api.PlatformUpdate{MonthlyCost: &cost})
			return err
		})

	case overlayDeletePlatform:
		id := m.pendingID
		return m, m.mutate(TabPlatforms, "Platform removed", func(ctx context.Context, c *api.Client) error {
			return c.DeletePlatform(ctx, id)
		})

	case overlayItemTitle:
		m.pendingStr = msg.Result
		m.openOverlay(overlayItemType, NewChoiceOverlay("Is it a movie or a show?", []string{"Movie", "Show"}))
		return m, nil

	case overlayItemType:
		create := api.WatchlistCreate{
			Title:  m.pendingStr,
			Type:   api.ItemType(strings.ToLower(msg.Result)),
			Status: api.StatusWantToWatch,
		}
		return m, m.mutate(TabWatchlist, "Added "+create.Title, func(ctx context.Context, c *api.Client) error {
			_, err := c.CreateWatchlistItem(ctx, create)
			return err
		})

	case overlayDeleteItem:
		id := m.pendingID
		return m, m.mutate(TabWatchlist, "Title removed", func(ctx context.Context, c *api.Client) error {
			return c.DeleteWatchlistItem(ctx, id)
		})
	}
	return m, nil
}

// --- View ---

// hintsFor returns the shortcuts shown for tab.
func hintsFor(tab Tab) []KeyHint {
	hints := []KeyHint{{"tab", "switch"}, {"r", "reload"}}
	switch tab {
	case TabWatchlist:
		hints = append(hints, KeyHint{"a", "add"}, KeyHint{"s", "status"}, KeyHint{"f", "filter"}, KeyHint{"d", "remove"})
	case TabPlatforms:
		hints = append(hints, KeyHint{"a", "add"}, KeyHint{"space", "subscribed"}, KeyHint{"e", "cost"}, KeyHint{"d", "remove"})
	}
	return append(hints, KeyHint{"L", "sign out"}, KeyHint{"q", "quit"})
}

// View renders the tab bar, the active tab and the status bar, with any
// overlay on top.
func (m MainModel) View() string {
	if m.app == nil {
		return ""
	}
	tab := m.tabs.Active()
	st := m.state[tab]

	var body string
	switch {
	case st.err != "":
		body = ErrorStyle.Render(st.err) + "\n\n" + DimStyle.Render("Press r to retry.")
	case !st.loaded:
		body = DimStyle.Render("Loading…")
	default:
		switch tab {
		case TabDiscover:
			body = renderDiscovery(m.discovery)
		case TabWatchlist:
			body = renderWatchlist(m.watchlist, m.watchFilter, m.watchCursor)
		case TabPlatforms:
			body = renderPlatforms(m.platforms, m.platCursor)
		case TabInsights:
			body = renderInsights(m.insights)
		}
	}

	content := ContentPaneStyle.Render(body)
	if m.height > 0 {
		contentHeight := max(m.height-2, 1)
		lines := strings.Split(content, "\n")
		if len(lines) > contentHeight {
			lines = lines[:contentHeight]
		}
		for len(lines) < contentHeight {
			lines = append(lines, "")
		}
		content = strings.Join(lines, "\n")
	}

	frame := m.tabs.View() + "\n" + content + "\n" + m.status.View()
	if m.overlay.Active() {
		return Composite(frame, m.overlay.View(), m.width, m.height)
	}
	return frame
}
