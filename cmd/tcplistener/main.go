package main

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/ShazimR/webserver/internal/config"
	"github.com/ShazimR/webserver/internal/logging"
	"github.com/ShazimR/webserver/internal/request"
)

// tcplistener prints the request head of every connection it accepts and
// closes the connection without answering.
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

	listener, err := net.Listen("tcp", cfg.Address())
	if err != nil {
		log.Fatalf("error: %v", err)
	}

	for {
		conn, err := listener.Accept()
		if err != nil {
			log.WithError(err).Error("error accepting connection")
			continue
		}

		go func(c io.ReadCloser, peer string) {
			defer c.Close()

			r, err := request.RequestFromReader(c, cfg.MaxLineLength, cfg.MaxHeaderLines)
			if err != nil {
				log.WithError(err).WithField("peer", peer).Warn("error reading request")
				return
			}

			fmt.Printf("Connection from %s\n", peer)
			fmt.Printf("Request Line:\n")
			fmt.Printf("- Method:  %s\n", r.RequestLine.Method)
			fmt.Printf("- Target:  %s\n", r.RequestLine.RequestTarget)
			fmt.Printf("- Version: %s\n", r.RequestLine.HttpVersion)
			fmt.Printf("Headers:\n")
			for _, line := range r.Headers.Lines()[1:] {
				fmt.Printf("- %s\n", line)
			}
		}(conn, conn.RemoteAddr().String())
	}
}
