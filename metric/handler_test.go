package metric

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Defaults(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("", "", registry, nil)

	assert.Equal(t, ":9090", server.Address())
	assert.Equal(t, "http://:9090/metrics", server.URL())
}

func TestServer_StartServesMetrics(t *testing.T) {
	registry := NewMetricsRegistry()
	registry.CoreMetrics().SetBuildInfo("v0.0.0-test")

	server := NewServer("127.0.0.1:0", "", registry, nil)
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	// Address should report the bound port, not ":0"
	assert.NotEqual(t, "127.0.0.1:0", server.Address())

	resp, err := http.Get(server.URL())
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "streamkit_build_info",
		"scrape output should include core metrics")
}

func TestServer_HealthEndpoint(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("127.0.0.1:0", "", registry, nil)
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	resp, err := http.Get("http://" + server.Address() + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestServer_IndexPage(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("127.0.0.1:0", "/prom", registry, nil)
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	resp, err := http.Get("http://" + server.Address() + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/prom", "index should link the metrics path")
}

func TestServer_CustomPath(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("127.0.0.1:0", "/prom", registry, nil)
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	resp, err := http.Get("http://" + server.Address() + "/prom")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_DoubleStartFails(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("127.0.0.1:0", "", registry, nil)
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	err := server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServer_NilRegistry(t *testing.T) {
	server := NewServer("127.0.0.1:0", "", nil, nil)

	err := server.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "registry")
}

func TestServer_StopAndRestart(t *testing.T) {
	registry := NewMetricsRegistry()
	server := NewServer("127.0.0.1:0", "", registry, nil)

	require.NoError(t, server.Start())
	require.NoError(t, server.Stop(context.Background()))

	// Stop when not running is a no-op
	require.NoError(t, server.Stop(context.Background()))

	// The server can be started again after a stop
	require.NoError(t, server.Start())
	defer func() { _ = server.Stop(context.Background()) }()

	resp, err := http.Get("http://" + server.Address() + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
