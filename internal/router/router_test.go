package router

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ShazimR/webserver/internal/request"
	"github.com/ShazimR/webserver/internal/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkReq(method, target string) *request.Request {
	return &request.Request{
		RequestLine: request.RequestLine{
			Method:        method,
			RequestTarget: target,
			HttpVersion:   "HTTP/1.0",
		},
	}
}

func respond(t *testing.T, r *Router, req *request.Request) string {
	t.Helper()
	var buf bytes.Buffer
	w := response.NewWriter(&buf)

	err := r.Respond(w, req)
	require.NoError(t, err)

	return buf.String()
}

func TestRouter_Index(t *testing.T) {
	r := NewDefault(Options{})

	out := respond(t, r, mkReq("GET", "/"))
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 200 OK\r\n"))
	assert.Contains(t, out, "\r\nContent-Type: text/html\r\n\r\n")
	assert.Contains(t, out, "This server is implemented with Go!")
	assert.Contains(t, out, "<!DOCTYPE html>\r\n<html>\r\n")
}

func TestRouter_NotFound(t *testing.T) {
	r := NewDefault(Options{})

	for _, p := range []string{"/nope", "/index.html", "/a/b?c=d", "*"} {
		out := respond(t, r, mkReq("GET", p))
		assert.True(t, strings.HasPrefix(out, "HTTP/1.0 404 Not Found\r\nContent-Type: text/html\r\n\r\n"), p)
		assert.Contains(t, out, "<body>"+p+" is not found</body>")
	}
}

func TestRouter_NotFoundReflectsRawPath(t *testing.T) {
	p := "/<script>alert(1)</script>"

	out := respond(t, NewDefault(Options{}), mkReq("GET", p))
	assert.Contains(t, out, p)

	out = respond(t, NewDefault(Options{EscapePaths: true}), mkReq("GET", p))
	assert.NotContains(t, out, p)
	assert.Contains(t, out, "/&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRouter_NotImplemented(t *testing.T) {
	r := NewDefault(Options{})

	for _, m := range []string{"POST", "HEAD", "PUT", "get", "Get"} {
		// method is checked before the path, so "/" does not matter
		out := respond(t, r, mkReq(m, "/"))
		assert.Equal(t, "HTTP/1.0 501 Not Implemented\r\n", out, m)
	}

	r = NewDefault(Options{StrictResponses: true})
	out := respond(t, r, mkReq("DELETE", "/missing"))
	assert.Equal(t, "HTTP/1.0 501 Not Implemented\r\n\r\n", out)
}

func TestRouter_CustomRoute(t *testing.T) {
	r := New(Options{})

	called := false
	r.GET("/hello", func(w *response.Writer, req *request.Request) error {
		called = true
		return w.WriteResponse(response.StatusOK, response.GetDefaultHeaders(), []byte("hi"))
	})

	out := respond(t, r, mkReq("GET", "/hello"))
	assert.True(t, called)
	assert.Equal(t, "HTTP/1.0 200 OK\r\nContent-Type: text/html\r\n\r\nhi", out)

	// no index route on a bare router
	out = respond(t, r, mkReq("GET", "/"))
	assert.True(t, strings.HasPrefix(out, "HTTP/1.0 404 Not Found"))
}

func TestRouter_BadRequest(t *testing.T) {
	var buf bytes.Buffer
	w := response.NewWriter(&buf)
	require.NoError(t, NewDefault(Options{}).RespondBadRequest(w))
	assert.True(t, strings.HasPrefix(buf.String(), "HTTP/1.0 400 Bad Request\r\nContent-Type: text/html\r\n\r\n"))
}
