package main

import (
	"errors"
	"log"
	"net"
	"sync"
)

// Server accepts connections and hands each one to its own Worker.
type Server struct {
	cfg      *Config
	mu       sync.Mutex
	ln       net.Listener
	workers  map[*Worker]struct{}
	shutdown bool
	wg       sync.WaitGroup
}

func NewServer(cfg *Config) *Server {
	return &Server{
		cfg:     cfg,
		workers: make(map[*Worker]struct{}),
	}
}

func (s *Server) handle(conn net.Conn, w *Worker) {
	defer func() {
		s.mu.Lock()
		delete(s.workers, w)
		s.mu.Unlock()
		s.wg.Done()
	}()
	w.Start(conn) // worker takes the ownership of |conn|
}

// Serve runs the accept loop until ln fails or Shutdown is called. It
// returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			stopped := s.shutdown
			s.mu.Unlock()
			if stopped || errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Printf("W accept error: %v", err)
			continue
		}

		w := NewWorker(s.cfg)
		s.mu.Lock()
		if s.shutdown {
			s.mu.Unlock()
			conn.Close()
			return nil
		}
		s.workers[w] = struct{}{}
		s.wg.Add(1)
		s.mu.Unlock()
		go s.handle(conn, w)
	}
}

// Shutdown stops accepting, cancels every live session and waits for them
// to close their connections.
func (s *Server) Shutdown() {
	s.mu.Lock()
	s.shutdown = true
	if s.ln != nil {
		s.ln.Close()
	}
	for w := range s.workers {
		w.Cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}
