package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stratforge/platform/internal/notify"
	"stratforge/platform/internal/sched"
)

type postedNote struct {
	message  string
	severity notify.Severity
}

type notifierRecorder struct {
	posts []postedNote
}

func (n *notifierRecorder) Post(message string, severity notify.Severity) {
	n.posts = append(n.posts, postedNote{message: message, severity: severity})
}

type dialogsRecorder struct {
	calls []string
}

func (d *dialogsRecorder) OpenLogin()     { d.calls = append(d.calls, "OpenLogin") }
func (d *dialogsRecorder) CloseLogin()    { d.calls = append(d.calls, "CloseLogin") }
func (d *dialogsRecorder) OpenRegister()  { d.calls = append(d.calls, "OpenRegister") }
func (d *dialogsRecorder) CloseRegister() { d.calls = append(d.calls, "CloseRegister") }

type navRecorder struct {
	paths []string
}

func (n *navRecorder) Navigate(path string) { n.paths = append(n.paths, path) }

type fixture struct {
	client   *Client
	store    *MemorySessionStore
	notifier *notifierRecorder
	dialogs  *dialogsRecorder
	nav      *navRecorder
	clock    *sched.Manual
}

func newFixture(t *testing.T, baseURL string) *fixture {
	t.Helper()
	f := &fixture{
		store:    NewMemorySessionStore(),
		notifier: &notifierRecorder{},
		dialogs:  &dialogsRecorder{},
		nav:      &navRecorder{},
		clock:    sched.NewManual(),
	}
	f.client = New(Config{
		BaseURL:   baseURL,
		Store:     f.store,
		Notifier:  f.notifier,
		Dialogs:   f.dialogs,
		Navigator: f.nav,
		Scheduler: f.clock,
	})
	return f
}

func TestLoginSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostFormValue("username"))
		assert.Equal(t, "s3cret", r.PostFormValue("password"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	require.NoError(t, f.client.Login(context.Background(), "alice", "s3cret"))

	token, ok := f.store.Read()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgLoginSuccess, f.notifier.posts[0].message)
	assert.Equal(t, notify.SeveritySuccess, f.notifier.posts[0].severity)
	assert.Equal(t, []string{"CloseLogin"}, f.dialogs.calls)
}

func TestLoginNavigatesAfterDelay(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	require.NoError(t, f.client.Login(context.Background(), "alice", "s3cret"))

	assert.Empty(t, f.nav.paths, "navigation fired before the delay elapsed")

	f.clock.Advance(NavigateDelay - time.Millisecond)
	assert.Empty(t, f.nav.paths)

	f.clock.Advance(time.Millisecond)
	assert.Equal(t, []string{DashboardPath}, f.nav.paths)
}

func TestLoginFailureShowsServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Login(context.Background(), "alice", "wrong")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Incorrect username or password", apiErr.Detail)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, "Incorrect username or password", f.notifier.posts[0].message)
	assert.Equal(t, notify.SeverityError, f.notifier.posts[0].severity)

	_, ok := f.store.Read()
	assert.False(t, ok, "token stored after failed login")
	assert.Empty(t, f.nav.paths)
}

func TestLoginFailureWithoutDetailFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgLoginFailed, f.notifier.posts[0].message)
	assert.NotEmpty(t, f.notifier.posts[0].message)
}

func TestLoginEmptyDetailFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "   "})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgLoginFailed, f.notifier.posts[0].message)
}

func TestLoginConnectivityFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	f := newFixture(t, srv.URL)
	err := f.client.Login(context.Background(), "alice", "s3cret")
	require.Error(t, err)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgConnectivity, f.notifier.posts[0].message)
	assert.Equal(t, notify.SeverityError, f.notifier.posts[0].severity)
}

type failingStore struct {
	saveErr error
}

func (s *failingStore) Save(string) error    { return s.saveErr }
func (s *failingStore) Read() (string, bool) { return "", false }
func (s *failingStore) Clear() error         { return nil }

func TestLoginSessionSaveFailureIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	f.client = New(Config{
		BaseURL:   srv.URL,
		Store:     &failingStore{saveErr: errors.New("disk full")},
		Notifier:  f.notifier,
		Dialogs:   f.dialogs,
		Navigator: f.nav,
		Scheduler: f.clock,
	})

	err := f.client.Login(context.Background(), "alice", "s3cret")
	require.EqualError(t, err, "disk full")

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgSessionSave, f.notifier.posts[0].message)
	assert.Equal(t, notify.SeverityError, f.notifier.posts[0].severity)
	assert.Empty(t, f.dialogs.calls)
	assert.Empty(t, f.nav.paths)
}

func TestLoginRepeatedSubmissions(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	require.NoError(t, f.client.Login(context.Background(), "alice", "s3cret"))
	require.NoError(t, f.client.Login(context.Background(), "alice", "s3cret"))

	assert.Equal(t, 2, requests, "every submission issues its own request")
}

func TestRegisterSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/register", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "alice@example.com", payload["email"])
		assert.Equal(t, "alice", payload["username"])
		assert.Equal(t, "Alice Smith", payload["full_name"])
		assert.Equal(t, "s3cret", payload["password"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": "u1"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	require.NoError(t, f.client.Register(context.Background(), "alice@example.com", "alice", "Alice Smith", "s3cret"))

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, MsgRegisterSuccess, f.notifier.posts[0].message)
	assert.Equal(t, notify.SeveritySuccess, f.notifier.posts[0].severity)

	// The register dialog closes before the login dialog opens.
	assert.Equal(t, []string{"CloseRegister", "OpenLogin"}, f.dialogs.calls)
}

func TestRegisterFailureShowsServerDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "username already registered"})
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	err := f.client.Register(context.Background(), "a@b.c", "alice", "", "pw")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "username already registered", apiErr.Detail)

	require.Len(t, f.notifier.posts, 1)
	assert.Equal(t, "username already registered", f.notifier.posts[0].message)
	assert.Empty(t, f.dialogs.calls)
}
