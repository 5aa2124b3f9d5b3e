package server

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ShazimR/webserver/internal/headers"
	"github.com/ShazimR/webserver/internal/lines"
	"github.com/ShazimR/webserver/internal/request"
	"github.com/ShazimR/webserver/internal/response"
	"github.com/ShazimR/webserver/internal/router"
)

type connState int

const (
	StateReadingHeaders connState = iota
	StateDispatching
	StateClosed
)

func (s connState) String() string {
	switch s {
	case StateReadingHeaders:
		return "reading-headers"
	case StateDispatching:
		return "dispatching"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

type connOptions struct {
	maxLineLength  int
	maxHeaderLines int
	strict         bool
}

// connHandler owns one connection from the first byte read until Close.
type connHandler struct {
	conn   io.ReadWriteCloser
	lines  *lines.Reader
	block  *headers.Block
	router *router.Router
	strict bool
	log    logrus.FieldLogger
	state  connState
}

func newConnHandler(conn io.ReadWriteCloser, r *router.Router, opts connOptions, log logrus.FieldLogger) *connHandler {
	return &connHandler{
		conn:   conn,
		lines:  lines.NewReader(conn, opts.maxLineLength),
		block:  headers.NewBlock(opts.maxHeaderLines),
		router: r,
		strict: opts.strict,
		log:    log,
		state:  StateReadingHeaders,
	}
}

func (h *connHandler) serve() {
	defer h.close()

	for h.state != StateClosed {
		switch h.state {
		case StateReadingHeaders:
			h.state = h.readHeaders()

		case StateDispatching:
			h.state = h.dispatch()

		default:
			panic("entered default connection state")
		}
	}
}

func (h *connHandler) close() {
	if err := h.conn.Close(); err != nil {
		h.log.WithError(err).Debug("error closing connection")
	}
	h.log.Debug("connection closed")
}

func (h *connHandler) readHeaders() connState {
	err := request.ReadHead(h.lines, h.block)
	for _, line := range h.block.Lines() {
		h.log.WithField("line", line).Debug("received")
	}

	if errors.Is(err, lines.ErrLineTooLong) {
		h.log.WithError(err).Warn("request head rejected")
		h.badRequest()
		return StateClosed
	}
	if errors.Is(err, headers.ErrHeaderCountExceeded) {
		h.log.WithError(err).Warn("too many header lines")
		h.badRequest()
		return StateClosed
	}
	if err != nil {
		h.log.WithError(err).Info("connection closed by client")
		return StateClosed
	}

	if h.block.Len() == 0 {
		h.log.Info("no header")
		return StateClosed
	}
	if n := h.lines.Buffered(); n > 0 {
		h.log.WithField("bytes", n).Debug("ignoring data after request head")
	}

	return StateDispatching
}

func (h *connHandler) dispatch() connState {
	req, err := request.FromBlock(h.block)
	if err != nil {
		line, _ := h.block.RequestLine()
		h.log.WithError(err).WithField("line", line).Info("wrong request")
		h.badRequest()
		return StateClosed
	}

	log := h.log.WithFields(logrus.Fields{
		"method":  req.RequestLine.Method,
		"path":    req.RequestLine.RequestTarget,
		"version": req.RequestLine.HttpVersion,
	})
	fields := h.block.Fields()
	if host, ok := fields.Get("Host"); ok {
		log = log.WithField("host", host)
	}
	if ua, ok := fields.Get("User-Agent"); ok {
		log = log.WithField("user_agent", ua)
	}

	if req.RequestLine.Method != router.MethodGet {
		log.WithError(router.ErrUnsupportedMethod).Info("request")
	} else {
		log.Info("request")
	}

	err = h.router.Respond(response.NewWriter(h.conn), req)
	if isPeerGone(err) {
		return StateClosed
	}
	if err != nil {
		log.WithError(err).Error("error writing response")
	}

	return StateClosed
}

// badRequest answers with 400 when strict responses are on. Otherwise the
// connection is dropped without a reply.
func (h *connHandler) badRequest() {
	if !h.strict {
		return
	}

	err := h.router.RespondBadRequest(response.NewWriter(h.conn))
	if err != nil && !isPeerGone(err) {
		h.log.WithError(err).Error("error writing response")
	}
}

func isPeerGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, net.ErrClosed)
}
