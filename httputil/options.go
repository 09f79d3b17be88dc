// Copyright (c) 2023 BVK Chaitanya

package httputil

import (
	"fmt"
	"time"
)

type Options struct {
	// ServerCheckTimeout holds the max time to wait for a started http server
	// to answer its readiness probe.
	ServerCheckTimeout time.Duration

	// ServerCheckRetryInterval holds the amount of time to wait between
	// readiness probes.
	ServerCheckRetryInterval time.Duration

	// ReadHeaderTimeout is passed to the http.Server.
	ReadHeaderTimeout time.Duration
}

func (v *Options) setDefaults() {
	if v.ServerCheckTimeout == 0 {
		v.ServerCheckTimeout = 10 * time.Second
	}
	if v.ServerCheckRetryInterval == 0 {
		v.ServerCheckRetryInterval = 100 * time.Millisecond
	}
	if v.ReadHeaderTimeout == 0 {
		v.ReadHeaderTimeout = 10 * time.Second
	}
}

func (v *Options) Check() error {
	if v.ServerCheckTimeout < 0 || v.ServerCheckRetryInterval < 0 || v.ReadHeaderTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	return nil
}
