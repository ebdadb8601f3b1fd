package client

import (
	"context"
	"io"
	"net/http"

	"stratforge/platform/internal/notify"
)

// Do issues an authenticated request. Without a stored token it posts
// a warning, prompts the login dialog, and returns a nil response
// without touching the network. With a token it attaches the bearer
// and JSON content-type headers unless the caller already set them.
//
// A 401 response clears the stored token, posts a session-expired
// warning, reopens the login dialog, and is still returned to the
// caller; treat it as "no result", the side effects already fired.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	token, ok := c.store.Read()
	if !ok {
		c.notifier.Post(MsgLoginRequired, notify.SeverityWarning)
		c.dialogs.OpenLogin()
		return nil, nil
	}

	// Caller-supplied headers take precedence.
	if req.Header.Get("Authorization") == "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.notifier.Post(MsgConnectivity, notify.SeverityError)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.store.Clear()
		c.notifier.Post(MsgSessionExpired, notify.SeverityWarning)
		c.dialogs.OpenLogin()
	}
	return resp, nil
}

// AuthRequest builds a request against the API base path and issues it
// through Do.
func (c *Client) AuthRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}
