// Copyright (c) 2023 BVK Chaitanya

// Package httputil runs http servers whose handlers can be added and removed
// while they are serving.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"

	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/syncmap"
	"github.com/google/uuid"
)

type Server struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	wg     sync.WaitGroup

	opts Options

	nextServerID atomic.Int64
	serverMap    syncmap.Map[int64, *listener]

	mux atomic.Pointer[http.ServeMux]

	mutex      sync.Mutex
	handlerMap map[string]http.Handler
}

type listener struct {
	server *http.Server
	addr   net.Addr
}

// New creates a http server without any listeners.
func New(opts *Options) (*Server, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	s := &Server{
		ctx:        ctx,
		cancel:     cancel,
		opts:       *opts,
		handlerMap: make(map[string]http.Handler),
	}
	s.mux.Store(http.NewServeMux())
	return s, nil
}

// Close stops all listeners and waits for their serving goroutines.
func (s *Server) Close() error {
	s.cancel(os.ErrClosed)
	s.serverMap.Range(func(id int64, l *listener) bool {
		l.server.Close()
		return true
	})
	s.wg.Wait()
	return nil
}

// StartTCP starts serving on a new tcp listener and returns its id after the
// listener answers a readiness probe. A zero port in addr is updated with the
// port picked by the kernel.
func (s *Server) StartTCP(ctx context.Context, addr *net.TCPAddr) (id int64, status error) {
	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		return -1, err
	}
	defer func() {
		if status != nil {
			l.Close()
		}
	}()

	laddr, ok := l.Addr().(*net.TCPAddr)
	if !ok {
		return -1, fmt.Errorf("created listener addr is not *net.TCPAddr type")
	}
	if addr.Port == 0 {
		addr.Port = laddr.Port
	}

	probePath := "/" + uuid.New().String()
	s.AddHandler(probePath, http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		slog.Debug("received readiness probe", "addr", laddr, "remote", r.RemoteAddr)
	}))
	defer s.RemoveHandler(probePath)

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.opts.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return s.ctx
		},
	}
	defer func() {
		if status != nil {
			server.Close()
		}
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		if err := server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server failed", "addr", laddr, "err", err)
		}
	}()

	c := http.Client{Timeout: s.opts.ServerCheckTimeout}
	u := url.URL{Scheme: "http", Host: laddr.String(), Path: probePath}
	probe := func() error {
		resp, err := c.Get(u.String())
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("readiness probe returned http status %d", resp.StatusCode)
		}
		return nil
	}
	if err := ctxutil.RetryTimeout(ctx, s.opts.ServerCheckRetryInterval, s.opts.ServerCheckTimeout, probe); err != nil {
		return -1, fmt.Errorf("could not invoke readiness probe handler: %w", err)
	}

	id = s.nextServerID.Add(1) - 1
	s.serverMap.Store(id, &listener{server: server, addr: laddr})
	return id, nil
}

// Addr returns the listening address of a started listener.
func (s *Server) Addr(id int64) (net.Addr, bool) {
	l, ok := s.serverMap.Load(id)
	if !ok {
		return nil, false
	}
	return l.addr, true
}

func (s *Server) Stop(id int64) error {
	l, ok := s.serverMap.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("http server %d not found: %w", id, os.ErrNotExist)
	}
	_ = l.server.Close()
	return nil
}

// AddHandler registers a handler for a http.ServeMux pattern, replacing any
// handler previously registered for the same pattern.
func (s *Server) AddHandler(pattern string, handler http.Handler) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.handlerMap[pattern] = handler
	s.updateHandlerMux()
}

func (s *Server) RemoveHandler(pattern string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.handlerMap[pattern]; !ok {
		return false
	}
	delete(s.handlerMap, pattern)
	s.updateHandlerMux()
	return true
}

func (s *Server) updateHandlerMux() {
	m := http.NewServeMux()
	for k, v := range s.handlerMap {
		m.Handle(k, v)
	}
	s.mux.Store(m)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.Load().ServeHTTP(w, r)
}
