package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"robux-monitor/internal/extract"
	"robux-monitor/internal/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewClient(types.DefaultConfig(), logger)
}

func TestClientFetchOK(t *testing.T) {
	const page = "<html><body><span>100 Robux</span><span>Rp 2.000</span></body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(page))
	}))
	defer srv.Close()

	body, err := testClient().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, page, body)
}

func TestClientFetchForbiddenIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, extract.ErrBlocked)
}

func TestClientFetchChallengeBodyIsBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<title>Just a moment...</title>"))
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, extract.ErrBlocked)
}

func TestClientFetchServerErrorIsNotBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.NotErrorIs(t, err, extract.ErrBlocked)
}

func TestClientFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient().Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
}
