package mcptools

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlockedIP(t *testing.T) {
	tests := []struct {
		ip      string
		blocked bool
	}{
		{"127.0.0.1", true},      // loopback
		{"10.0.0.1", true},       // private (Class A)
		{"172.16.0.1", true},     // private (Class B)
		{"192.168.1.1", true},    // private (Class C)
		{"169.254.1.1", true},    // link-local
		{"::1", true},            // IPv6 loopback
		{"0.0.0.0", true},        // unspecified IPv4
		{"::", true},             // unspecified IPv6
		{"fe80::1", true},        // IPv6 link-local
		{"fd00::1", true},        // IPv6 ULA (private)
		{"8.8.8.8", false},       // public (Google DNS)
		{"1.1.1.1", false},       // public (Cloudflare DNS)
		{"93.184.216.34", false}, // public (example.com)
	}
	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			ip := net.ParseIP(tt.ip)
			require.NotNil(t, ip, "failed to parse IP: %s", tt.ip)
			assert.Equal(t, tt.blocked, isBlockedIP(ip))
		})
	}
}

func TestNewSafeHTTPClient(t *testing.T) {
	client := newSafeHTTPClient()
	require.NotNil(t, client)
	assert.NotZero(t, client.Timeout)
	assert.NotNil(t, client.CheckRedirect)
	assert.NotNil(t, client.Transport)
}

func TestFetchSpec_SchemeAllowlist(t *testing.T) {
	_, err := fetchSpec(context.Background(), "ftp://example.com/api.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported url scheme")

	_, err = fetchSpec(context.Background(), "file:///etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported url scheme")
}

func TestFetchSpec_BlocksLoopback(t *testing.T) {
	// httptest binds to 127.0.0.1, which the SSRF guard rejects.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	defer srv.Close()

	_, err := fetchSpec(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked request")
}

func TestFetchSpec_AllowPrivateIPs(t *testing.T) {
	orig := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	defer func() { cfg.AllowPrivateIPs = orig }()

	var gotUserAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	defer srv.Close()

	data, err := fetchSpec(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, testSpecYAML, string(data))
	assert.Contains(t, gotUserAgent, "castr/")
}

func TestFetchSpec_NonOKStatus(t *testing.T) {
	orig := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	defer func() { cfg.AllowPrivateIPs = orig }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := fetchSpec(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestFetchSpec_SizeCap(t *testing.T) {
	origAllow := cfg.AllowPrivateIPs
	origSize := cfg.MaxFetchSize
	cfg.AllowPrivateIPs = true
	cfg.MaxFetchSize = 16
	defer func() {
		cfg.AllowPrivateIPs = origAllow
		cfg.MaxFetchSize = origSize
	}()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	defer srv.Close()

	_, err := fetchSpec(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "maximum fetch size")
}

func TestResolveURL_EndToEnd(t *testing.T) {
	docCache.reset()
	origAllow := cfg.AllowPrivateIPs
	cfg.AllowPrivateIPs = true
	defer func() { cfg.AllowPrivateIPs = origAllow }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testSpecYAML))
	}))
	defer srv.Close()

	input := specInput{URL: srv.URL + "/api.yaml"}
	spec, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Pet Store", spec.doc.Info.Title)
	assert.Equal(t, 1, docCache.size())

	// Second resolve hits the cache, not the server.
	srv.Close()
	spec2, err := input.resolve(context.Background())
	require.NoError(t, err)
	assert.Same(t, spec, spec2)
}
