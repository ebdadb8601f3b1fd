// Package client implements the platform's session and interaction
// flow: credential submission, bearer-token storage, and the
// authenticated request wrapper the rest of the application uses.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stratforge/platform/internal/notify"
	"stratforge/platform/internal/sched"
)

const (
	// DefaultTimeout bounds every credential and authenticated request.
	// An exceeded deadline surfaces as a connectivity error.
	DefaultTimeout = 10 * time.Second

	// NavigateDelay is how long a successful login lingers on the
	// landing view before moving to the dashboard.
	NavigateDelay = 1500 * time.Millisecond

	// DashboardPath is the post-login destination.
	DashboardPath = "/dashboard"
)

// Fallback messages shown when the server provides no detail.
const (
	MsgLoginSuccess    = "Signed in successfully"
	MsgLoginFailed     = "Login failed"
	MsgRegisterSuccess = "Registration complete. Please sign in."
	MsgRegisterFailed  = "Registration failed"
	MsgConnectivity    = "Cannot reach the server. Please try again."
	MsgSessionSave     = "Could not save your session. Please sign in again."
	MsgSessionExpired  = "Your session has expired. Please sign in again."
	MsgLoginRequired   = "Please sign in first."
)

// Notifier receives user-facing status messages.
type Notifier interface {
	Post(message string, severity notify.Severity)
}

// Dialogs drives the login and registration overlays.
type Dialogs interface {
	OpenLogin()
	CloseLogin()
	OpenRegister()
	CloseRegister()
}

// Navigator performs page-level navigation.
type Navigator interface {
	Navigate(path string)
}

// APIError carries a non-2xx response's status and detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Detail)
}

// Config collects the client's collaborators.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080/api/v1".
	BaseURL    string
	HTTPClient *http.Client
	Store      SessionStore
	Notifier   Notifier
	Dialogs    Dialogs
	Navigator  Navigator
	Scheduler  sched.Scheduler
}

// Client submits credentials, owns the session token through its
// store, and decorates outgoing requests with it.
type Client struct {
	baseURL   string
	http      *http.Client
	store     SessionStore
	notifier  Notifier
	dialogs   Dialogs
	nav       Navigator
	scheduler sched.Scheduler
}

// New constructs a client. Missing HTTPClient and Scheduler fall back
// to production defaults.
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = sched.Timers{}
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		http:      httpClient,
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		dialogs:   cfg.Dialogs,
		nav:       cfg.Navigator,
		scheduler: scheduler,
	}
}

// Store exposes the session store for callers that need to inspect or
// clear the session directly (e.g. an explicit logout).
func (c *Client) Store() SessionStore {
	return c.store
}

// Login submits form-encoded credentials. On success the token is
// persisted, a success notification fires, and navigation to the
// dashboard is scheduled after NavigateDelay. Failures surface the
// server's detail message, falling back to a generic one. Repeated
// calls are not deduplicated; every call issues a fresh request.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.notifier.Post(MsgConnectivity, notify.SeverityError)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body, MsgLoginFailed)
		c.notifier.Post(detail, notify.SeverityError)
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.AccessToken == "" {
		c.notifier.Post(MsgLoginFailed, notify.SeverityError)
		return &APIError{Status: resp.StatusCode, Detail: MsgLoginFailed}
	}

	if err := c.store.Save(body.AccessToken); err != nil {
		c.notifier.Post(MsgSessionSave, notify.SeverityError)
		return err
	}
	c.notifier.Post(MsgLoginSuccess, notify.SeveritySuccess)
	c.dialogs.CloseLogin()
	c.scheduler.After(NavigateDelay, func() {
		c.nav.Navigate(DashboardPath)
	})
	return nil
}

// Register submits the sign-up form as JSON. On success the register
// dialog closes and the login dialog opens, in that order. Failure
// policy matches Login.
func (c *Client) Register(ctx context.Context, email, username, fullName, password string) error {
	payload, err := json.Marshal(map[string]string{
		"email":     email,
		"username":  username,
		"full_name": fullName,
		"password":  password,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/register", strings.NewReader(string(payload)))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.notifier.Post(MsgConnectivity, notify.SeverityError)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := decodeDetail(resp.Body, MsgRegisterFailed)
		c.notifier.Post(detail, notify.SeverityError)
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	c.notifier.Post(MsgRegisterSuccess, notify.SeveritySuccess)
	c.dialogs.CloseRegister()
	c.dialogs.OpenLogin()
	return nil
}

// decodeDetail extracts the server's detail message, falling back when
// the field is absent, empty, or the body is not JSON. The fallback is
// never the empty string.
func decodeDetail(r io.Reader, fallback string) string {
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return fallback
	}
	if strings.TrimSpace(body.Detail) == "" {
		return fallback
	}
	return body.Detail
}
