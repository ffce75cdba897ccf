package api

import (
	"context"
	"net/http"
)

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// User is the authenticated account.
type User struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	CreatedAt Time   `json:"created_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. It does not sign in.
func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	return deref(Do[User](ctx, c, http.MethodPost, "/auth/register", credentials{email, password}))
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (TokenPair, error) {
	return deref(Do[TokenPair](ctx, c, http.MethodPost, "/auth/login", credentials{email, password}))
}

// Refresh exchanges a refresh token for a new token pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}
	return deref(Do[TokenPair](ctx, c, http.MethodPost, "/auth/refresh", body))
}

// Me returns the account owning the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	return deref(Do[User](ctx, c, http.MethodGet, "/auth/me", nil))
}
