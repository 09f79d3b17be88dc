// Copyright (c) 2023 BVK Chaitanya

// Package daemonize respawns the current program as a background process.
package daemonize

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// CheckFunc reports if the background process is initialized. When retry is
// true, the check is repeated after a second.
type CheckFunc func(ctx context.Context, child *os.Process) (retry bool, err error)

// Daemonize uses the envKey environment variable to identify if the current
// process is the parent or the background child. The variable must not be
// used by any other process. In the child, it holds the parent pid.
//
// Daemonize must be called during startup, before opening databases or
// starting servers. In the background process, standard input and outputs
// are replaced with /dev/null.
//
// Parent process waits for the check function to report the child as
// initialized and exits (i.e., never returns). An error is returned to the
// parent if the child could not be started or the check fails. Background
// process receives a nil error.
func Daemonize(ctx context.Context, envKey string, check CheckFunc) error {
	if v := os.Getenv(envKey); len(v) == 0 {
		if err := daemonizeParent(ctx, envKey, check); err != nil {
			return err
		}
		os.Exit(0)
	}
	if _, err := unix.Setsid(); err != nil {
		return fmt.Errorf("could not set session id: %w", err)
	}
	return nil
}

// IsChild returns true in the background process.
func IsChild(envKey string) bool {
	return len(os.Getenv(envKey)) != 0
}

func daemonizeParent(ctx context.Context, envKey string, check CheckFunc) error {
	binary, err := exec.LookPath(os.Args[0])
	if err != nil {
		return fmt.Errorf("failed to lookup binary: %w", err)
	}
	binaryPath, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for binary: %w", err)
	}

	file, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", os.DevNull, err)
	}
	defer file.Close()

	// Receive signal when child-process dies.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGCHLD, os.Interrupt)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("could not determine current directory: %w", err)
	}
	attr := &os.ProcAttr{
		Dir:   cwd,
		Env:   append(os.Environ(), fmt.Sprintf("%s=%d", envKey, os.Getpid())),
		Files: []*os.File{file, file, file},
	}
	child, err := os.StartProcess(binaryPath, os.Args, attr)
	if err != nil {
		return fmt.Errorf("failed to start process: %w", err)
	}
	if check == nil {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("could not initialize the background process: %w", context.Cause(ctx))
		case <-time.After(time.Second):
		}
		retry, err := check(ctx, child)
		if err == nil {
			return nil
		}
		if !retry {
			return err
		}
		slog.WarnContext(ctx, "background process not yet initialized", "pid", child.Pid, "err", err)
	}
}
