package main

import (
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"
)

// Worker serves the requests of one accepted connection, one at a time,
// until the idle deadline passes, the peer goes away or a write fails.
type Worker struct {
	cfg      *Config
	mu       sync.Mutex // guards conn against Cancel
	conn     net.Conn
	buf      []byte
	raw      []byte
	deadline time.Time
	served   int
	done     chan struct{}
	once     sync.Once
}

type stateFunc func(*Worker) stateFunc

func NewWorker(cfg *Config) *Worker {
	return &Worker{
		cfg:  cfg,
		buf:  make([]byte, cfg.ReadSize),
		done: make(chan struct{}),
	}
}

// Start runs the session on conn and returns once conn is closed.
// The worker takes the ownership of conn.
func (w *Worker) Start(conn net.Conn) {
	w.mu.Lock()
	w.conn = conn
	w.mu.Unlock()
	w.deadline = time.Now().Add(w.cfg.KeepAliveTimeout)

	for state := waitForRequest; state != nil; {
		state = state(w)
	}
}

// Cancel makes a running or not yet started session finish as soon as its
// current response is written. It is safe to call more than once.
func (w *Worker) Cancel() {
	w.once.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.conn != nil {
			w.conn.SetReadDeadline(time.Now())
		}
		w.mu.Unlock()
	})
}

func (w *Worker) cancelled() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Worker) remote() string {
	if addr := w.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "(unknown)"
}

// state funcs

func waitForRequest(w *Worker) stateFunc {
	if err := w.conn.SetReadDeadline(w.deadline); err != nil {
		log.Printf("W %s set deadline: %v", w.remote(), err)
		return finishWorker
	}
	// checked after arming the deadline so a concurrent Cancel always wins
	if w.cancelled() {
		return finishWorker
	}

	n, err := w.conn.Read(w.buf)
	if n > 0 {
		w.raw = w.buf[:n]
		return dispatchRequest
	}
	switch {
	case err == nil, errors.Is(err, io.EOF):
		log.Printf("I %s peer closed", w.remote())
	case errors.Is(err, os.ErrDeadlineExceeded):
		log.Printf("I %s idle timeout", w.remote())
	default:
		log.Printf("W %s read error: %v", w.remote(), err)
	}
	return finishWorker
}

func dispatchRequest(w *Worker) stateFunc {
	eol := w.cfg.LineEnding
	req := ParseRequest(w.raw)

	var bad *BadRequestError
	if err := ValidateRequest(req); errors.As(err, &bad) {
		log.Printf("I %s %s %s -> 400 %v", w.remote(), req.Method, req.URI, err)
		if werr := WriteBadRequest(w.conn, bad, eol); werr != nil {
			log.Printf("E %s write failed: %v", w.remote(), werr)
			return finishWorker
		}
		// an invalid request never moves the deadline
		return waitForRequest
	}

	if req.KeepAlive {
		w.deadline = time.Now().Add(w.cfg.KeepAliveTimeout)
	} else {
		w.deadline = time.Now()
	}

	res := Resolve(w.cfg, req.URI)
	defer res.Close()

	var err error
	status := 200
	switch res.Outcome {
	case NotFound:
		status = 404
		err = WriteNotFound(w.conn, req.URI, eol)
	case UnsupportedType:
		status = 501
		err = WriteNotImplemented(w.conn, req.URI, eol)
	default:
		_, err = WriteFile(w.conn, res, req.KeepAlive, eol)
	}
	if err != nil {
		log.Printf("E %s %s %s write failed: %v", w.remote(), req.Method, req.URI, err)
		return finishWorker
	}
	w.served++
	log.Printf("I %s %s %s -> %d", w.remote(), req.Method, req.URI, status)
	return waitForRequest
}

func finishWorker(w *Worker) stateFunc {
	w.mu.Lock()
	if w.conn != nil {
		w.conn.Close()
	}
	w.mu.Unlock()
	log.Printf("I worker finished after %d requests", w.served)
	return nil
}
