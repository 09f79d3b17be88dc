// Copyright (c) 2023 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
)

type ServerFlags struct {
	port int
	IP   string
}

func (sf *ServerFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&sf.port, "listen-port", 0, "TCP port number for the dashboard (default=10100 or TRADEDASH_LISTEN_PORT value)")
	fset.StringVar(&sf.IP, "listen-ip", "127.0.0.1", "TCP ip address for the dashboard")
}

func (sf *ServerFlags) Port() int {
	if sf.port != 0 {
		return sf.port
	}
	if v := os.Getenv("TRADEDASH_LISTEN_PORT"); len(v) != 0 {
		if port, err := strconv.ParseInt(v, 10, 32); err == nil {
			return int(port)
		}
	}
	return 10100
}

// ListenAddr validates the flags and returns the tcp address to listen on.
func (sf *ServerFlags) ListenAddr() (*net.TCPAddr, error) {
	ip := net.ParseIP(sf.IP)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip address %q", sf.IP)
	}
	port := sf.Port()
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("invalid port number %d", port)
	}
	return &net.TCPAddr{IP: ip, Port: port}, nil
}
