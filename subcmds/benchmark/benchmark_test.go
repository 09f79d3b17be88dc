// Copyright (c) 2025 BVK Chaitanya

package benchmark

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bvk/tradedash/gobs"
	"github.com/visvasity/cli"
)

func runCommand(t *testing.T, cmd cli.Command, args ...string) (string, error) {
	t.Helper()
	_, fset, run := cmd.Command()
	if err := fset.Parse(args); err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	err := run(cli.WithStdout(context.Background(), &sb), fset.Args())
	return sb.String(), err
}

func TestCommands(t *testing.T) {
	var submitted *gobs.BenchmarkInput
	var deleted []string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/benchmark", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			submitted = new(gobs.BenchmarkInput)
			json.NewDecoder(r.Body).Decode(submitted)
			io.WriteString(w, `{"_id":"b9","status":"PENDING","input":{}}`)
			return
		}
		io.WriteString(w, `[{"_id":"b1","status":"COMPLETED","input":{"accountInitialAmount":5000,"dataSourceFilePath":"btc/x.csv","asset":"btc"},"output":{"finalAmount":5100,"buys":[[1590710400000,9000]],"sells":[[1590883200000,9500]]}}]`)
	})
	mux.HandleFunc("/api/benchmark/data-sources", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"eth":{"Last year":"eth/last-year.csv"},"btc":{"Last year":"btc/last-year.csv","All":"btc/all.csv"}}`)
	})
	mux.HandleFunc("/api/benchmark/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = append(deleted, r.PathValue("id"))
	})
	s := httptest.NewServer(mux)
	defer s.Close()
	t.Setenv("TRADEDASH_BACKEND_URL", s.URL)

	out, err := runCommand(t, new(List))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "b1") || !strings.Contains(out, "5100.00") {
		t.Fatalf("want benchmark row in the list, got:\n%s", out)
	}

	out, err = runCommand(t, new(DataSources), "-asset", "btc")
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 2 || !strings.Contains(lines[0], "btc/all.csv") {
		t.Fatalf("want two btc data sources in label order, got:\n%s", out)
	}

	out, err = runCommand(t, new(Submit), "-accountInitialAmount", "1000", "-asset", "eth")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "b9" {
		t.Fatalf("want new benchmark id, got %q", out)
	}
	if submitted == nil || submitted.AccountInitialAmount != 1000 || submitted.Asset != "eth" || submitted.StatisticsOptions.NumberOfPointsHold != 20000 {
		t.Fatalf("unexpected submitted input %#v", submitted)
	}

	if _, err := runCommand(t, new(Submit), "-numberOfPointsHold", "many"); err == nil {
		t.Fatalf("want error for non numeric form value")
	}

	if _, err := runCommand(t, new(Delete), "b1", "b2"); err != nil {
		t.Fatal(err)
	}
	if len(deleted) != 2 || deleted[1] != "b2" {
		t.Fatalf("want two deletes, got %v", deleted)
	}

	if _, err := runCommand(t, new(Show), "-table", "charts", "b1"); err == nil {
		t.Fatalf("want error for unknown table")
	}
}
