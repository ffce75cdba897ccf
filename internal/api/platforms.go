package api

import (
	"context"
	"fmt"
	"net/http"
)

// DefaultPlatformColor is applied by the server when none is sent.
const DefaultPlatformColor = "#6366f1"

// Platform is a streaming service in the user's inventory.
type Platform struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	MonthlyCost  float64 `json:"monthly_cost"`
	IsSubscribed bool    `json:"is_subscribed"`
	CreatedAt    Time    `json:"created_at"`
}

// PlatformCreate is the body of POST /platforms/.
type PlatformCreate struct {
	Name         string  `json:"name"`
	Color        string  `json:"color,omitempty"`
	MonthlyCost  float64 `json:"monthly_cost"`
	IsSubscribed bool    `json:"is_subscribed"`
}

// PlatformUpdate is the body of PATCH /platforms/{id}. Nil fields are left
// unchanged.
type PlatformUpdate struct {
	Name         *string  `json:"name,omitempty"`
	Color        *string  `json:"color,omitempty"`
	MonthlyCost  *float64 `json:"monthly_cost,omitempty"`
	IsSubscribed *bool    `json:"is_subscribed,omitempty"`
}

// ListPlatforms returns every platform of the user.
func (c *Client) ListPlatforms(ctx context.Context) ([]Platform, error) {
	return deref(Do[[]Platform](ctx, c, http.MethodGet, "/platforms/", nil))
}

// CreatePlatform adds a platform.
func (c *Client) CreatePlatform(ctx context.Context, p PlatformCreate) (Platform, error) {
	return deref(Do[Platform](ctx, c, http.MethodPost, "/platforms/", p))
}

// UpdatePlatform patches a platform.
func (c *Client) UpdatePlatform(ctx context.Context, id int, u PlatformUpdate) (Platform, error) {
	return deref(Do[Platform](ctx, c, http.MethodPatch, fmt.Sprintf("/platforms/%d", id), u))
}

// DeletePlatform removes a platform.
func (c *Client) DeletePlatform(ctx context.Context, id int) error {
	_, err := Do[struct{}](ctx, c, http.MethodDelete, fmt.Sprintf("/platforms/%d", id), nil)
	return err
}
