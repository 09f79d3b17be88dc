// Copyright (c) 2023 BVK Chaitanya

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/daemonize"
	"github.com/bvk/tradedash/dashboard"
	"github.com/bvk/tradedash/httputil"
	"github.com/bvk/tradedash/logdir"
	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/nightlyone/lockfile"
	"github.com/visvasity/cli"
)

type Serve struct {
	cmdutil.ServerFlags
	cmdutil.BackendFlags
	cmdutil.DBFlags

	background      bool
	restart         bool
	shutdownTimeout time.Duration

	logDir string

	noPprof   bool
	noDB      bool
	logLevel  string
	pingEvery time.Duration
	zone      string
}

func (c *Serve) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("serve", flag.ContinueOnError)
	c.ServerFlags.SetFlags(fset)
	c.BackendFlags.SetFlags(fset)
	c.DBFlags.SetFlags(fset)
	fset.BoolVar(&c.background, "background", false, "runs the server in background")
	fset.StringVar(&c.logDir, "log-dir", "", "directory for log files (default=logs in data directory when run in background)")
	fset.BoolVar(&c.restart, "restart", false, "when true, kills any old instance")
	fset.DurationVar(&c.shutdownTimeout, "shutdown-timeout", 30*time.Second, "max timeout for shutdown when restarting")
	fset.BoolVar(&c.noPprof, "no-pprof", false, "when true net/http/pprof handler is not registered")
	fset.BoolVar(&c.noDB, "no-db", false, "when true snapshot handlers are not served")
	fset.StringVar(&c.logLevel, "log-level", "info", "log level (debug, info, warn or error)")
	fset.DurationVar(&c.pingEvery, "ping-interval", 30*time.Second, "keep-alive ping interval for live dashboard sessions")
	fset.StringVar(&c.zone, "timezone", "Local", "timezone for the default dates interval")
	return "serve", fset, cli.CmdFunc(c.run)
}

func (c *Serve) Purpose() string {
	return "Runs the dashboard http server in foreground"
}

func (c *Serve) Description() string {
	return `
Command "serve" starts the dashboard http server. Server fetches data from the
trading backend on every request and serves the benchmark and applications
page views as JSON. Live page views are pushed over websockets on every
change.

With -background flag, server is restarted as a background process and the
command returns after the background server starts responding. Background
server writes its logs into the -log-dir directory.

Only one server can use a data directory at a time. With -restart flag, an
older instance holding the data directory lock is asked to shutdown first.
`
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func (c *Serve) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	level, err := parseLogLevel(c.logLevel)
	if err != nil {
		return err
	}

	zone, err := time.LoadLocation(c.zone)
	if err != nil {
		return fmt.Errorf("could not load timezone %q: %w", c.zone, err)
	}
	addr, err := c.ServerFlags.ListenAddr()
	if err != nil {
		return err
	}
	backend, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}

	dataDir, err := c.DBFlags.DataDir()
	if err != nil {
		return err
	}

	// Health checker for the background process initialization. We need to
	// verify that responding http server is really our child and not an older
	// instance.
	check := func(ctx context.Context, child *os.Process) (bool, error) {
		client := http.Client{Timeout: time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/pid", addr.String()))
		if err != nil {
			return true, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return true, fmt.Errorf("http status: %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, err
		}
		if pid := string(data); pid != fmt.Sprintf("%d", child.Pid) {
			return c.restart, fmt.Errorf("is another instance already running? pid mismatch: want %d got %s", child.Pid, pid)
		}
		return false, nil
	}
	if c.background {
		if err := daemonize.Daemonize(ctx, "TRADEDASH_DAEMONIZE", check); err != nil {
			return err
		}
		if len(c.logDir) == 0 {
			c.logDir = filepath.Join(dataDir, "logs")
		}
	}

	var logw io.Writer = os.Stderr
	if len(c.logDir) != 0 {
		if err := os.MkdirAll(c.logDir, 0700); err != nil {
			return fmt.Errorf("could not create log directory %q: %w", c.logDir, err)
		}
		w, err := logdir.New(c.logDir, "tradedash", nil)
		if err != nil {
			return err
		}
		defer w.Close()
		logw = w
		log.SetOutput(w)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logw, &slog.HandlerOptions{Level: level})))

	slog.Info("using data directory", "dir", dataDir, "backend", backend.BaseURL())

	lockPath := filepath.Join(dataDir, "tradedash.lock")
	flock, err := lockfile.New(lockPath)
	if err != nil {
		return fmt.Errorf("could not create lock file %q: %w", lockPath, err)
	}
	if err := flock.TryLock(); err != nil {
		if !c.restart {
			return fmt.Errorf("could not get lock on file %q: %w", lockPath, err)
		}
		owner, err := flock.GetOwner()
		if err != nil {
			return fmt.Errorf("could not get current owner of the lock file: %w", err)
		}
		if err := owner.Signal(os.Interrupt); err == nil {
			slog.Info("waiting for the previous instance to shutdown", "pid", owner.Pid)
			if err := ctxutil.RetryTimeout(ctx, time.Second, c.shutdownTimeout, flock.TryLock); err != nil {
				if err := owner.Signal(os.Kill); err != nil {
					return fmt.Errorf("could not kill current owner of the lock file: %w", err)
				}
				ctxutil.Sleep(ctx, time.Millisecond)
			}
		}
		if err := flock.TryLock(); err != nil {
			return fmt.Errorf("could not get lock on file %q after killing previous instance: %w", lockPath, err)
		}
	}
	defer flock.Unlock()

	dopts := &dashboard.Options{
		Zone:         zone,
		PingInterval: c.pingEvery,
	}
	if !c.noDB {
		db, closer, err := c.DBFlags.GetDatabase(ctx)
		if err != nil {
			return err
		}
		defer closer()
		dopts.Snapshots = store.New(db)
	}

	// Start HTTP server.
	s, err := httputil.New(nil /* opts */)
	if err != nil {
		return err
	}
	defer s.Close()

	tcpServer, err := s.StartTCP(ctx, addr)
	if err != nil {
		return fmt.Errorf("could not start http server on %s: %w", addr, err)
	}
	defer s.Stop(tcpServer)

	if !c.noPprof {
		s.AddHandler("/debug/pprof/heap", pprof.Handler("heap"))
		s.AddHandler("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		s.AddHandler("/debug/pprof/allocs", pprof.Handler("allocs"))
		s.AddHandler("/debug/pprof/block", pprof.Handler("block"))
		s.AddHandler("/debug/pprof/mutex", pprof.Handler("mutex"))
	}

	dash, err := dashboard.New(backend, dopts)
	if err != nil {
		return err
	}
	defer dash.Close()

	handlers := dash.HandlerMap()
	for k, v := range handlers {
		s.AddHandler(k, v)
	}
	defer func() {
		for k := range handlers {
			s.RemoveHandler(k)
		}
	}()

	s.AddHandler("/pid", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, fmt.Sprintf("%d", os.Getpid()))
	}))

	slog.Info("started tradedash server", "addr", addr)
	<-ctx.Done()
	slog.Info("tradedash server is shutting down")
	return nil
}
