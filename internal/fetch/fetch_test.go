package fetch_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-leetcode-stats/internal/fetch"
)

func TestFetch_UserAgentAndAccept(t *testing.T) {
	t.Setenv("LCS_UA", "test-agent/1.0")
	var gotUA, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	resp, err := cl.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "test-agent/1.0", gotUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestFetch_NoRetryOnStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: 2 * time.Second})
	require.NoError(t, err)
	resp, err := cl.Get(context.Background(), srv.URL)
	require.NoError(t, err, "status codes are left to the caller")
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: 100 * time.Millisecond})
	require.NoError(t, err)
	_, err = cl.Get(context.Background(), srv.URL)
	require.Error(t, err)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return
	}
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: time.Second})
	require.NoError(t, err)
	_, err = cl.Get(context.Background(), addr)
	assert.Error(t, err)
}

func TestFetch_InvalidProxy(t *testing.T) {
	_, err := fetch.New(fetch.Options{ProxyHTTP: "://bad"})
	assert.Error(t, err)
}
