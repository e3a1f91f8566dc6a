package apiclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techfixpro/appkit/core/apiclient"
)

func testConfig(baseURL string) apiclient.Config {
	return apiclient.Config{
		BaseURL:    baseURL,
		Timeout:    time.Second,
		MaxRetries: 3,
		RetryDelay: time.Millisecond,
	}
}

func TestDo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("decodes json response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id": 1, "status": "open"}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		var out map[string]any
		require.NoError(t, c.Get(ctx, "/tickets/1", &out))
		assert.Equal(t, "open", out["status"])
	})

	t.Run("returns text response through string target", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain")
			w.Write([]byte("pong"))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		var out string
		require.NoError(t, c.Get(ctx, "/ping", &out))
		assert.Equal(t, "pong", out)
	})

	t.Run("retries server errors up to the attempt budget", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		err := c.Get(ctx, "/tickets", nil)
		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsServerError())
		assert.EqualValues(t, 3, hits.Load())
	})

	t.Run("recovers when a retry succeeds", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok": true}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		var out map[string]any
		require.NoError(t, c.Get(ctx, "/tickets", &out))
		assert.Equal(t, true, out["ok"])
		assert.EqualValues(t, 3, hits.Load())
	})

	t.Run("does not retry client errors", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error": {"message": "Not Found"}}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		err := c.Get(ctx, "/tickets/999", nil)
		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsClientError())
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "Not Found", apiErr.Message)
		assert.EqualValues(t, 1, hits.Load())
	})

	t.Run("retries rate limiting", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		err := c.Get(ctx, "/tickets", nil)
		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, 429, apiErr.Status)
		assert.EqualValues(t, 3, hits.Load())
	})

	t.Run("maps client side timeout to 408", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		cfg := testConfig(srv.URL)
		cfg.Timeout = 20 * time.Millisecond
		cfg.MaxRetries = 1
		c := apiclient.New(cfg)

		err := c.Get(ctx, "/slow", nil)
		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsTimeout())
	})

	t.Run("maps connection failure to network error", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig("http://127.0.0.1:1")
		cfg.MaxRetries = 1
		c := apiclient.New(cfg)

		err := c.Get(ctx, "/tickets", nil)
		var apiErr *apiclient.Error
		require.ErrorAs(t, err, &apiErr)
		assert.True(t, apiErr.IsNetworkError())
		assert.Equal(t, 0, apiErr.Status)
	})
}

func TestAuthToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	var gotAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth.Store(r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := apiclient.New(testConfig(srv.URL))

	require.NoError(t, c.Get(ctx, "/users/me", nil))
	assert.Equal(t, "", gotAuth.Load())

	c.SetAuthToken("tok123")
	require.NoError(t, c.Get(ctx, "/users/me", nil))
	assert.Equal(t, "Bearer tok123", gotAuth.Load())

	c.ClearAuthToken()
	require.NoError(t, c.Get(ctx, "/users/me", nil))
	assert.Equal(t, "", gotAuth.Load())
}

func TestResourceHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("login posts credentials and decodes session", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/auth/local", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"jwt": "tok", "user": {"id": 5, "username": "ana"}}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		session, err := c.Login(ctx, "ana@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, "tok", session.JWT)
		assert.Equal(t, 5, session.User.ID)
	})

	t.Run("collection query carries filters and pagination", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/tickets", r.URL.Path)
			require.Equal(t, "open", r.URL.Query().Get("filters[status]"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": [{"id": 1}], "meta": {"pagination": {"page": 1, "total": 1}}}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		query := url.Values{}
		query.Set("filters[status]", "open")

		list, err := c.GetCollection(ctx, "tickets", query)
		require.NoError(t, err)
		require.Len(t, list.Data, 1)
		assert.Equal(t, 1, list.Meta.Pagination.Total)
	})

	t.Run("create wraps payload in data envelope", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/tickets", r.URL.Path)
			require.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"data": {"id": 9, "status": "open"}}`))
		}))
		defer srv.Close()

		c := apiclient.New(testConfig(srv.URL))

		item, err := c.CreateItem(ctx, "tickets", map[string]any{"status": "open"})
		require.NoError(t, err)
		assert.Equal(t, "open", item.Data["status"])
	})
}
