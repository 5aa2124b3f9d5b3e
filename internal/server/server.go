package server

import (
	"net"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/ShazimR/webserver/internal/config"
	"github.com/ShazimR/webserver/internal/router"
)

type Server struct {
	closed     atomic.Bool
	listener   net.Listener
	router     *router.Router
	opts       connOptions
	sequential bool
	log        logrus.FieldLogger
}

func (s *Server) Close() error {
	s.closed.Store(true)
	return s.listener.Close()
}

func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) handle(conn net.Conn) {
	log := s.log.WithField("peer", conn.RemoteAddr().String())
	log.Info("connection established")

	newConnHandler(conn, s.router, s.opts, log).serve()
}

func (s *Server) listen() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.closed.Load() {
				return
			}
			s.log.WithError(err).Error("error accepting connection")
			continue
		}

		if s.sequential {
			s.handle(conn)
		} else {
			go s.handle(conn)
		}
	}
}

// Serve listens on cfg.Address() and handles every accepted connection with
// r. Connections are served concurrently unless cfg.Sequential is set.
func Serve(cfg config.Config, r *router.Router, log logrus.FieldLogger) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		return nil, err
	}

	server := &Server{
		listener: listener,
		router:   r,
		opts: connOptions{
			maxLineLength:  cfg.MaxLineLength,
			maxHeaderLines: cfg.MaxHeaderLines,
			strict:         cfg.StrictResponses,
		},
		sequential: cfg.Sequential,
		log:        log,
	}

	go server.listen()
	return server, nil
}
