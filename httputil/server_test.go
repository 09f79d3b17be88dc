// Copyright (c) 2023 BVK Chaitanya

package httputil

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"testing"
)

func TestServer(t *testing.T) {
	s, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	addr := &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)}
	id, err := s.StartTCP(context.Background(), addr)
	if err != nil {
		t.Fatal(err)
	}
	if addr.Port == 0 {
		t.Fatalf("want listener port filled in")
	}
	if a, ok := s.Addr(id); !ok || a.String() != addr.String() {
		t.Fatalf("want listener address %s, got %v", addr, a)
	}

	s.AddHandler("GET /hello/{name}", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hello "+r.PathValue("name"))
	}))

	get := func(p string) (int, string) {
		resp, err := http.Get(fmt.Sprintf("http://%s%s", addr, p))
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		data, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(data)
	}

	if code, body := get("/hello/world"); code != http.StatusOK || body != "hello world" {
		t.Fatalf("want hello world, got %d %q", code, body)
	}

	if !s.RemoveHandler("GET /hello/{name}") {
		t.Fatalf("want registered handler removed")
	}
	if s.RemoveHandler("GET /hello/{name}") {
		t.Fatalf("want false for an unknown pattern")
	}
	if code, _ := get("/hello/world"); code != http.StatusNotFound {
		t.Fatalf("want 404 after handler removal, got %d", code)
	}

	if err := s.Stop(id); err != nil {
		t.Fatal(err)
	}
	if err := s.Stop(id); err == nil {
		t.Fatalf("want error stopping an unknown listener")
	}
}
