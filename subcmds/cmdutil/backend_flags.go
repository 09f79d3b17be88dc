// Copyright (c) 2023 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/bvk/tradedash/client"
)

const defaultBackendURL = "http://127.0.0.1:3000"

type BackendFlags struct {
	backendURL  string
	HTTPTimeout time.Duration
	MaxQPS      float64
}

func (bf *BackendFlags) SetFlags(fset *flag.FlagSet) {
	fset.StringVar(&bf.backendURL, "backend-url", "", "base url of the trading backend (default="+defaultBackendURL+" or TRADEDASH_BACKEND_URL value)")
	fset.DurationVar(&bf.HTTPTimeout, "http-timeout", 30*time.Second, "http client timeout")
	fset.Float64Var(&bf.MaxQPS, "max-qps", 0, "max backend requests per second; zero disables the limit")
}

func (bf *BackendFlags) BackendURL() (*url.URL, error) {
	s := bf.backendURL
	if len(s) == 0 {
		s = os.Getenv("TRADEDASH_BACKEND_URL")
	}
	if len(s) == 0 {
		s = defaultBackendURL
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("could not parse backend url %q: %w", s, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q must use http or https: %w", s, os.ErrInvalid)
	}
	return u, nil
}

// Client returns a backend client configured by the flags.
func (bf *BackendFlags) Client() (*client.Client, error) {
	u, err := bf.BackendURL()
	if err != nil {
		return nil, err
	}
	opts := &client.Options{
		HttpClientTimeout: bf.HTTPTimeout,
		MaxQPS:            bf.MaxQPS,
	}
	return client.New(u, opts)
}
