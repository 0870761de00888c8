package httpclient_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"notifybot/internal/platform/httpclient"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Do(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := httpclient.New(httpclient.WithLogger(discardLogger()))
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestClient_Do_DefaultHeaders(t *testing.T) {
	var gotUA, gotCustom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotCustom = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := httpclient.New(
		httpclient.WithLogger(discardLogger()),
		httpclient.WithHeaders(map[string]string{"User-Agent": "notifybot", "X-Custom": "a"}),
	)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	// explicit header must win over the default
	req.Header.Set("X-Custom", "explicit")

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "notifybot", gotUA)
	require.Equal(t, "explicit", gotCustom)
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := httpclient.New(
		httpclient.WithLogger(discardLogger()),
		httpclient.WithTimeout(50*time.Millisecond),
	)
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), req)
	require.Error(t, err)
}

func TestClient_Do_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	c := httpclient.New(httpclient.WithLogger(discardLogger()))
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Do(ctx, req)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_URLRedactor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	var redacted []string
	c := httpclient.New(
		httpclient.WithLogger(discardLogger()),
		httpclient.WithURLRedactor(func(u *url.URL) string {
			redacted = append(redacted, u.Path)
			return "[redacted]"
		}),
	)
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/botSECRET/sendMessage", nil)
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, redacted, 1)
	require.Equal(t, "/botSECRET/sendMessage", redacted[0])
}
