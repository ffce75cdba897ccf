package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ItemType is movie or show.
type ItemType string

const (
	ItemMovie ItemType = "movie"
	ItemShow  ItemType = "show"
)

// WatchStatus is the progress of a watchlist item.
type WatchStatus string

const (
	StatusWantToWatch WatchStatus = "want_to_watch"
	StatusWatching    WatchStatus = "watching"
	StatusWatched     WatchStatus = "watched"
)

// WatchStatuses lists statuses in progression order.
var WatchStatuses = []WatchStatus{StatusWantToWatch, StatusWatching, StatusWatched}

// Next returns the following status, wrapping from watched to want_to_watch.
func (s WatchStatus) Next() WatchStatus {
	for i, st := range WatchStatuses {
		if st == s {
			return WatchStatuses[(i+1)%len(WatchStatuses)]
		}
	}
	return StatusWantToWatch
}

// Label returns the display name.
func (s WatchStatus) Label() string {
	switch s {
	case StatusWantToWatch:
		return "Want to Watch"
	case StatusWatching:
		return "Watching"
	case StatusWatched:
		return "Watched"
	default:
		return string(s)
	}
}

// ParseWatchStatus accepts the wire names plus "want" as shorthand.
func ParseWatchStatus(s string) (WatchStatus, error) {
	switch s {
	case "want", string(StatusWantToWatch):
		return StatusWantToWatch, nil
	case string(StatusWatching):
		return StatusWatching, nil
	case string(StatusWatched):
		return StatusWatched, nil
	}
	return "", fmt.Errorf("unknown status %q (want want_to_watch, watching or watched)", s)
}

// WatchlistItem is a title the user tracks.
type WatchlistItem struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         ItemType    `json:"type"`
	Status       WatchStatus `json:"status"`
	PlatformName *string     `json:"platform_name"`
	PosterURL    *string     `json:"poster_url"`
	Notes        *string     `json:"notes"`
	AddedAt      Time        `json:"added_at"`
}

// WatchlistCreate is the body of POST /watchlist/.
type WatchlistCreate struct {
	Title        string      `json:"title"`
	Type         ItemType    `json:"type,omitempty"`
	Status       WatchStatus `json:"status,omitempty"`
	PlatformName *string     `json:"platform_name,omitempty"`
	PosterURL    *string     `json:"poster_url,omitempty"`
	Notes        *string     `json:"notes,omitempty"`
}

// WatchlistUpdate is the body of PATCH /watchlist/{id}.
type WatchlistUpdate struct {
	Title        *string      `json:"title,omitempty"`
	Type         *ItemType    `json:"type,omitempty"`
	Status       *WatchStatus `json:"status,omitempty"`
	PlatformName *string      `json:"platform_name,omitempty"`
	PosterURL    *string      `json:"poster_url,omitempty"`
	Notes        *string      `json:"notes,omitempty"`
}

// ListWatchlist returns the user's items, filtered by status when non-empty.
func (c *Client) ListWatchlist(ctx context.Context, status WatchStatus) ([]WatchlistItem, error) {
	path := "/watchlist/"
	if status != "" {
		path += "?" + url.Values{"status": {string(status)}}.Encode()
	}
	return deref(Do[[]WatchlistItem](ctx, c, http.MethodGet, path, nil))
}

// CreateWatchlistItem adds an item.
func (c *Client) CreateWatchlistItem(ctx context.Context, item WatchlistCreate) (WatchlistItem, error) {
	return deref(Do[WatchlistItem](ctx, c, http.MethodPost, "/watchlist/", item))
}

// UpdateWatchlistItem patches an item.
func (c *Client) UpdateWatchlistItem(ctx context.Context, id int, u WatchlistUpdate) (WatchlistItem, error) {
	return deref(Do[WatchlistItem](ctx, c, http.MethodPatch, fmt.Sprintf("/watchlist/%d", id), u))
}

// DeleteWatchlistItem removes an item.
func (c *Client) DeleteWatchlistItem(ctx context.Context, id int) error {
	_, err := Do[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/watchlist/%d", id), nil)
	return err
}
