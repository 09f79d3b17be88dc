// Copyright (c) 2023 BVK Chaitanya

package client

import (
	"fmt"
	"time"
)

type Options struct {
	// HttpClientTimeout holds the timeout for every backend request. Zero
	// value uses the default.
	HttpClientTimeout time.Duration

	// MaxQPS limits the request rate to the backend. Zero value disables
	// the limit.
	MaxQPS float64

	// MaxBurst is the number of requests allowed to exceed MaxQPS at once.
	MaxBurst int
}

func (v *Options) setDefaults() {
	if v.HttpClientTimeout == 0 {
		v.HttpClientTimeout = 30 * time.Second
	}
	if v.MaxBurst == 0 {
		v.MaxBurst = 1
	}
}

func (v *Options) Check() error {
	if v.HttpClientTimeout < 0 {
		return fmt.Errorf("http client timeout cannot be negative")
	}
	if v.MaxQPS < 0 {
		return fmt.Errorf("max qps cannot be negative")
	}
	if v.MaxBurst < 0 {
		return fmt.Errorf("max burst cannot be negative")
	}
	return nil
}
