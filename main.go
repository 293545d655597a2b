package main

import (
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

var (
	confPath = flag.String("config", "./ws.conf", "configuration file")
	port     = flag.Int("port", 0, "port number, overrides Listen")
	quiet    = flag.Bool("quiet", false, "discard log output")
)

func logConfig(cfg *Config) {
	log.Printf("I port number: %d", cfg.Port)
	log.Printf("I document root: %s", cfg.DocumentRoot)
	log.Printf("I index names: %v", cfg.IndexNames)
	for _, ct := range cfg.Types {
		log.Printf("I content type: %s %s", ct.Ext, ct.Type)
	}
	log.Printf("I keep-alive timeout: %v, read size: %d", cfg.KeepAliveTimeout, cfg.ReadSize)
}

// run serves on ln until the listener fails or a signal arrives on sigCh.
// After a signal it returns only once every session has been closed.
func run(srv *Server, ln net.Listener, sigCh <-chan os.Signal) error {
	quit := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		select {
		case sig := <-sigCh:
			log.Printf("I %v received, shutting down", sig)
			srv.Shutdown()
		case <-quit:
		}
	}()

	err := srv.Serve(ln)
	close(quit)
	<-finished
	return err
}

func serve(cfg *Config) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.Port))
	if err != nil {
		return err
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	log.Printf("I listening on %s", ln.Addr())
	return run(NewServer(cfg), ln, sigCh)
}

func main() {
	flag.Parse()
	if *quiet {
		log.SetOutput(io.Discard)
	}

	cfg, err := LoadConfig(*confPath)
	if err != nil {
		log.Fatalf("E unable to start server: %v", err)
	}
	if *port != 0 {
		if *port < 2 || *port > 65535 {
			log.Fatalf("E invalid port number: %d", *port)
		}
		cfg.Port = *port
	}
	logConfig(cfg)

	if err := serve(cfg); err != nil {
		log.Fatalf("E %v", err)
	}
}
