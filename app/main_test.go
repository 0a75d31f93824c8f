package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/umputun/hiretrack/app/notify"
)

func Test_makeHostName(t *testing.T) {
	defer func() { opts = options{} }()
	opts.Web.Hostname = "test"
	assert.Equal(t, "test", makeHostName())

	opts.Web.Hostname = ""
	exp, err := os.Hostname()
	require.NoError(t, err)
	assert.Equal(t, exp, makeHostName())
}

func Test_makeNotifier(t *testing.T) {
	defer func() { opts = options{} }()
	opts.Notify.Webhooks = nil
	assert.Nil(t, makeNotifier(), "no webhooks, no notifier")

	opts.Notify.Webhooks = []string{"http://example.com/hook"}
	opts.Notify.Timeout = time.Second
	notif := makeNotifier()
	require.NotNil(t, notif)
	assert.IsType(t, &notify.Service{}, notif)
}

func Test_setupLogsToStdout(t *testing.T) {
	defer func() { opts = options{} }()
	opts.Log.Enabled = false
	assert.Equal(t, os.Stdout, setupLogs())
}

func Test_setupLogsToFile(t *testing.T) {
	defer func() { opts = options{}; setupLogs() }()
	opts.Log.Enabled = true
	opts.Log.Filename = filepath.Join(t.TempDir(), "hiretrack.log")
	opts.Log.MaxSize = 100
	opts.Log.MaxBackups = 7
	opts.Log.MaxAge = 0
	opts.Log.EnabledCompress = false

	out := setupLogs()
	require.IsType(t, &lumberjack.Logger{}, out)

	logger := out.(*lumberjack.Logger)
	assert.Equal(t, opts.Log.Filename, logger.Filename)
	assert.Equal(t, 100, logger.MaxSize)
	assert.Equal(t, 7, logger.MaxBackups)
	assert.Equal(t, 0, logger.MaxAge)
	assert.False(t, logger.Compress)
}

func Test_validateBaseURL(t *testing.T) {
	tests := []struct{ name, input, want string }{
		{"empty string", "", ""},
		{"root path", "/", ""},
		{"path without trailing slash", "/hiretrack", "/hiretrack"},
		{"path with trailing slash", "/hiretrack/", "/hiretrack"},
		{"missing leading slash", "hiretrack", "/hiretrack"},
		{"multi-segment path", "/app/hiretrack", "/app/hiretrack"},
		{"multi-segment with trailing slash", "/app/hiretrack/", "/app/hiretrack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validateBaseURL(tt.input))
		})
	}
}

func Test_openStore(t *testing.T) {
	defer func() { opts = options{} }()

	opts.DB = filepath.Join(t.TempDir(), "test.db")
	opts.Open.Attempts, opts.Open.Duration, opts.Open.Factor = 2, time.Millisecond, 2
	st, err := openStore(context.Background())
	require.NoError(t, err)
	require.NoError(t, st.Close())

	opts.DB = "/nonexistent/dir/test.db"
	_, err = openStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open store")
}

func Test_run(t *testing.T) {
	defer func() { opts = options{} }()

	port := freePort(t)
	tmp := t.TempDir()
	seedFile := filepath.Join(tmp, "seed.yml")
	require.NoError(t, os.WriteFile(seedFile, []byte(`jobs:
  - title: Seeded Engineer
    description: Build the seeded things
    candidates: 2
`), 0o600))

	opts.DB = filepath.Join(tmp, "test.db")
	opts.Seed = seedFile
	opts.Candidates = 5
	opts.Open.Attempts, opts.Open.Duration, opts.Open.Factor = 1, time.Millisecond, 1
	opts.Web.Address = fmt.Sprintf("127.0.0.1:%d", port)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx) }()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/api/v1/jobs")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Seeded Engineer")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server didn't stop")
	}
}

func Test_runBadSeed(t *testing.T) {
	defer func() { opts = options{} }()
	opts.DB = filepath.Join(t.TempDir(), "test.db")
	opts.Seed = "testdata/missing.yml"
	opts.Open.Attempts = 1
	err := run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load seed")
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}
