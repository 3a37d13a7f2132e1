package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// SubmitEmail requests a magic link for the given address. The returned
// notice tells the user to check their inbox.
func (c *Client) SubmitEmail(ctx context.Context, email string) (Notice, error) {
	body := map[string]string{"email": email}
	_, n, err := c.do(ctx, http.MethodPost, "/auth/submit-email", nil, body)
	return n, err
}

// ConsumeMagicLink exchanges a magic-link token for an access token. Each
// token is single-use; a second consumption fails with a backend error.
func (c *Client) ConsumeMagicLink(ctx context.Context, token string) (string, Notice, error) {
	q := url.Values{"token": {token}}
	data, n, err := c.do(ctx, http.MethodGet, "/auth/magic-link", q, nil)
	if err != nil {
		return "", Notice{}, err
	}
	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", Notice{}, fmt.Errorf("decode access token: %w", err)
	}
	return payload.AccessToken, n, nil
}
