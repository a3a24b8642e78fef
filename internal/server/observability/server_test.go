package observability

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dmitrijs2005/loadout/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Metrics(t *testing.T) {
	server := NewServer("127.0.0.1:0", logging.Nop{})

	_, err := server.Start(context.Background())
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Stop(ctx)
	}()

	_, err = server.Start(context.Background())
	assert.Error(t, err, "second start")

	server.Metrics().RecordAuth("login", "ok")
	server.Metrics().RecordDenial("role")

	resp, err := http.Get("http://" + server.Addr() + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "go_")
	assert.Contains(t, string(body), `loadout_auth_outcomes_total{op="login",result="ok"} 1`)
	assert.Contains(t, string(body), `loadout_access_denials_total{check="role"} 1`)

	live, err := http.Get("http://" + server.Addr() + "/healthz/liveness")
	require.NoError(t, err)
	defer func() { _ = live.Body.Close() }()
	assert.Equal(t, http.StatusOK, live.StatusCode)
}

func TestServer_StopWithoutStart(t *testing.T) {
	server := NewServer("127.0.0.1:0", logging.Nop{})
	assert.NoError(t, server.Stop(context.Background()))
	assert.Empty(t, server.Addr())
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordAuth("signup", "conflict")
	m.RecordAuth("signup", "conflict")
	m.RecordDenial("permission")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("signup", "conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessDenials.WithLabelValues("permission")))
}
