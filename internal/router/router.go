package router

import (
	"fmt"

	"github.com/ShazimR/webserver/internal/request"
	"github.com/ShazimR/webserver/internal/response"
)

const MethodGet = "GET"

// ErrUnsupportedMethod is not fatal. It names the reason a 501 was sent.
var ErrUnsupportedMethod = fmt.Errorf("unsupported method")

type Options struct {
	// StrictResponses terminates the 501 status line with the blank line
	// that ends an HTTP header section.
	StrictResponses bool
	// EscapePaths HTML-escapes the requested path on the 404 page.
	EscapePaths bool
}

type Router struct {
	routes map[string]response.Handler
	opts   Options
}

func New(opts Options) *Router {
	return &Router{
		routes: make(map[string]response.Handler),
		opts:   opts,
	}
}

// NewDefault returns a router that serves the index page at "/".
func NewDefault(opts Options) *Router {
	r := New(opts)
	r.GET("/", indexHandler)
	return r
}

func (r *Router) GET(path string, handler response.Handler) {
	r.routes[path] = handler
}

// GetHandler picks the handler for req. The method is checked before the path.
func (r *Router) GetHandler(req *request.Request) response.Handler {
	if req.RequestLine.Method != MethodGet {
		return r.notImplementedHandler
	}

	if h, ok := r.routes[req.RequestLine.RequestTarget]; ok {
		return h
	}

	return r.notFoundHandler
}

// Respond writes exactly one response for req and flushes it.
func (r *Router) Respond(w *response.Writer, req *request.Request) error {
	if err := r.GetHandler(req)(w, req); err != nil {
		return err
	}

	return w.Flush()
}

// RespondBadRequest writes a 400 response and flushes it.
func (r *Router) RespondBadRequest(w *response.Writer) error {
	if err := w.WriteResponse(response.StatusBadRequest, response.GetDefaultHeaders(), respond400()); err != nil {
		return err
	}

	return w.Flush()
}

func indexHandler(w *response.Writer, req *request.Request) error {
	return w.WriteResponse(response.StatusOK, response.GetDefaultHeaders(), respond200())
}

func (r *Router) notFoundHandler(w *response.Writer, req *request.Request) error {
	body := respond404(req.RequestLine.RequestTarget, r.opts.EscapePaths)
	return w.WriteResponse(response.StatusNotFound, response.GetDefaultHeaders(), body)
}

// notImplementedHandler sends only the status line unless strict responses
// are enabled.
func (r *Router) notImplementedHandler(w *response.Writer, req *request.Request) error {
	if err := w.WriteStatusLine(response.StatusNotImplemented); err != nil {
		return err
	}
	if r.opts.StrictResponses {
		return w.WriteBody([]byte("\r\n"))
	}

	return nil
}
