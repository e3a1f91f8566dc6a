package techfix_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techfixpro/appkit/app/techfix"
	"github.com/techfixpro/appkit/core/router"
)

func forgeToken(t *testing.T, exp time.Time) string {
	t.Helper()

	header, err := json.Marshal(map[string]string{"alg": "HS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(map[string]any{"sub": "1", "exp": exp.Unix()})
	require.NoError(t, err)

	enc := base64.RawURLEncoding
	return enc.EncodeToString(header) + "." + enc.EncodeToString(payload) + "." + enc.EncodeToString([]byte("sig"))
}

func testBackend(t *testing.T) *httptest.Server {
	t.Helper()

	token := forgeToken(t, time.Now().Add(time.Hour))

	mux := http.NewServeMux()
	method := func(m string, h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Method != m {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		}
	}
	mux.HandleFunc("/auth/local", method(http.MethodPost, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"jwt":  token,
			"user": map[string]any{"id": 1, "username": "ana"},
		})
	}))
	mux.HandleFunc("/users/me", method(http.MethodGet, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"id": 1, "username": "ana"})
	}))
	collection := func(items ...map[string]any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"data": items})
		}
	}
	mux.HandleFunc("/tickets", method(http.MethodGet, collection(
		map[string]any{"id": 1, "status": "open"},
		map[string]any{"id": 2, "status": "completed"},
	)))
	mux.HandleFunc("/spare_parts", method(http.MethodGet, collection(map[string]any{"id": 3, "name": "screen"})))
	mux.HandleFunc("/customers", method(http.MethodGet, collection(map[string]any{"id": 4, "email": "a@b.co"})))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T, ctx context.Context) *techfix.App {
	t.Helper()

	srv := testBackend(t)
	t.Setenv("API_BASE_URL", srv.URL)
	t.Setenv("API_RETRY_DELAY", "1ms")
	t.Setenv("STORAGE_PATH", filepath.Join(t.TempDir(), "app.db"))

	app, err := techfix.NewApp(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { app.Storage().Close() })
	return app
}

func TestLoginFlow(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, ctx)

	// Gated navigation lands on login and stashes the target.
	require.NoError(t, app.Router().Navigate(ctx, "dashboard"))
	require.NotNil(t, app.Router().Current())
	assert.Equal(t, "login", app.Router().Current().Route.Name)
	assert.Equal(t, "dashboard", app.Router().State(router.StateRedirectTo))

	// Login returns the user to the stashed target.
	require.NoError(t, app.Login(ctx, "ana@example.com", "secret1"))
	require.NotNil(t, app.Router().Current())
	assert.Equal(t, "dashboard", app.Router().Current().Path)
	assert.True(t, app.Auth().IsAuthenticated(ctx))

	// Logout returns to login.
	require.NoError(t, app.Logout(ctx))
	assert.Equal(t, "login", app.Router().Current().Path)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	app := newTestApp(t, ctx)

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	// Run lands on the entry route before settling into the background loops.
	require.Eventually(t, func() bool {
		return app.Router().Current() != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "login", app.Router().Current().Route.Name)

	cancel()
	require.NoError(t, <-done)
}

func TestDashboardStats(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, ctx)

	require.NoError(t, app.Login(ctx, "ana@example.com", "secret1"))

	stats, err := app.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.OpenTickets)
	assert.Equal(t, 1, stats.CompletedTickets)
	assert.Equal(t, 1, stats.SpareParts)
	assert.Equal(t, 1, stats.Customers)
}

func TestCollectionMirroring(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t, ctx)

	require.NoError(t, app.Login(ctx, "ana@example.com", "secret1"))

	// Visiting the tickets view mirrors fetched records into the local
	// store, which offline reads fall back to.
	require.NoError(t, app.Router().Navigate(ctx, "tickets"))

	records, err := app.Storage().Records(ctx, "tickets")
	require.NoError(t, err)
	assert.Len(t, records, 2)

	var cached map[string]any
	require.NoError(t, app.Storage().CachedResponse(ctx, "/tickets", &cached))
}
