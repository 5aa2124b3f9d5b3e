package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/ShazimR/webserver/internal/config"
	"github.com/ShazimR/webserver/internal/logging"
	"github.com/ShazimR/webserver/internal/router"
	"github.com/ShazimR/webserver/internal/server"
)

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
		os.Exit(2)
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(2)
	}

	r := router.NewDefault(router.Options{
		StrictResponses: cfg.StrictResponses,
		EscapePaths:     cfg.EscapePaths,
	})

	s, err := server.Serve(cfg, r, log)
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
	defer s.Close()
	log.WithField("addr", s.Addr().String()).Info("server started")
	fmt.Printf("open http://localhost:%d/ with your browser!\n", s.Addr().(*net.TCPAddr).Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info("server gracefully stopped")
}
