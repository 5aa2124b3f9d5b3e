package server

import (
	"io"
	"net"
	"strings"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShazimR/webserver/internal/config"
	"github.com/ShazimR/webserver/internal/router"
)

func startServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	if mutate != nil {
		mutate(&cfg)
	}

	log, _ := logtest.NewNullLogger()
	s, err := Serve(cfg, router.NewDefault(router.Options{}), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func roundTrip(t *testing.T, s *Server, raw string) string {
	t.Helper()
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

	_, err = io.WriteString(conn, raw)
	require.NoError(t, err)

	out, err := io.ReadAll(conn)
	require.NoError(t, err)
	return string(out)
}

func TestServe(t *testing.T) {
	s := startServer(t, nil)

	out := roundTrip(t, s, "GET / HTTP/1.0\r\nHost: localhost\r\n\r\n")
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n"))
	assert.Contains(t, out, "This server is implemented with Go!")

	out = roundTrip(t, s, "GET /abc.html HTTP/1.0\r\n\r\n")
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 404 Not Found\r\n"))
	assert.Contains(t, out, "/abc.html is not found")

	out = roundTrip(t, s, "POST / HTTP/1.0\r\n\r\n")
	assert.Equal(t, "HTTP/1.0 501 Not Implemented\r\n", out)

	out = roundTrip(t, s, "GET /\r\n\r\n")
	assert.Empty(t, out)
}

func TestServe_Sequential(t *testing.T) {
	s := startServer(t, func(c *config.Config) { c.Sequential = true })

	for i := 0; i < 3; i++ {
		out := roundTrip(t, s, "GET / HTTP/1.0\r\n\r\n")
		assert.True(t, strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n"))
	}
}

func TestServe_Concurrent(t *testing.T) {
	s := startServer(t, nil)

	// a stalled client must not block other connections
	stalled, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer stalled.Close()
	_, err = io.WriteString(stalled, "GET / HTTP/1.0\r\n")
	require.NoError(t, err)

	out := roundTrip(t, s, "GET / HTTP/1.0\r\n\r\n")
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n"))
}

func TestServe_Close(t *testing.T) {
	s := startServer(t, nil)
	addr := s.Addr().String()
	require.NoError(t, s.Close())

	_, err := net.DialTimeout("tcp", addr, time.Second)
	assert.Error(t, err)
}

func TestServe_ListenError(t *testing.T) {
	s := startServer(t, nil)

	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = s.Addr().(*net.TCPAddr).Port
	log, _ := logtest.NewNullLogger()
	_, err := Serve(cfg, router.NewDefault(router.Options{}), log)
	assert.Error(t, err)
}
