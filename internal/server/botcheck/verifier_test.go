package botcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/loadout/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func provider(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "s3cret", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		assert.Equal(t, "10.0.0.1", r.PostForm.Get("remoteip"))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPVerifier_Success(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"success":true}`)
	v := NewHTTPVerifier(srv.URL, "s3cret", time.Second, nil)

	assert.NoError(t, v.Verify(context.Background(), "tok", "10.0.0.1"))
}

func TestHTTPVerifier_FailureCarriesErrorCodes(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"success":false,"error-codes":["timeout-or-duplicate"]}`)
	v := NewHTTPVerifier(srv.URL, "s3cret", time.Second, nil)

	err := v.Verify(context.Background(), "tok", "10.0.0.1")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.Contains(t, err.Error(), "timeout-or-duplicate")
}

func TestHTTPVerifier_FailureWithoutCodes(t *testing.T) {
	srv := provider(t, http.StatusOK, `{"success":false}`)
	v := NewHTTPVerifier(srv.URL, "s3cret", time.Second, nil)

	assert.ErrorIs(t, v.Verify(context.Background(), "tok", "10.0.0.1"), common.ErrorUnauthorized)
}

func TestHTTPVerifier_FailsClosed(t *testing.T) {
	t.Run("bad status", func(t *testing.T) {
		srv := provider(t, http.StatusInternalServerError, `{"success":true}`)
		v := NewHTTPVerifier(srv.URL, "s3cret", time.Second, nil)

		err := v.Verify(context.Background(), "tok", "10.0.0.1")
		require.Error(t, err)
		assert.False(t, errors.Is(err, common.ErrorUnauthorized))
	})

	t.Run("bad body", func(t *testing.T) {
		srv := provider(t, http.StatusOK, `<html>`)
		v := NewHTTPVerifier(srv.URL, "s3cret", time.Second, nil)

		assert.Error(t, v.Verify(context.Background(), "tok", "10.0.0.1"))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		addr := srv.URL
		srv.Close()

		v := NewHTTPVerifier(addr, "s3cret", time.Second, nil)
		assert.Error(t, v.Verify(context.Background(), "tok", "10.0.0.1"))
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)

		v := NewHTTPVerifier(srv.URL, "s3cret", 50*time.Millisecond, nil)
		assert.Error(t, v.Verify(context.Background(), "tok", ""))
	})
}

func TestVerifierFunc(t *testing.T) {
	called := false
	var v Verifier = VerifierFunc(func(ctx context.Context, token, ip string) error {
		called = true
		return nil
	})
	require.NoError(t, v.Verify(context.Background(), "t", "ip"))
	assert.True(t, called)
}
