// Copyright (c) 2025 BVK Chaitanya

package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/page"
	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvkgo/kv/kvmemdb"
	"github.com/gorilla/websocket"
)

const benchmarksJSON = `[{
  "_id": "b1",
  "status": "COMPLETED",
  "input": {"accountInitialAmount": 5000, "dataSourceFilePath": "btc/last-year-minute.csv", "asset": "btc"},
  "output": {
    "finalAmount": 5100,
    "balances": [[1590624000000, 5000], [1590969600000, 5100]],
    "buys": [[1590710400000, 9000]],
    "sells": [[1590883200000, 9500]]
  }
}]`

func backend() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/benchmark", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			input := new(gobs.BenchmarkInput)
			json.NewDecoder(r.Body).Decode(input)
			json.NewEncoder(w).Encode(&gobs.Benchmark{ID: "b2", Input: *input, Status: "PENDING"})
			return
		}
		io.WriteString(w, benchmarksJSON)
	})
	mux.HandleFunc("/api/benchmark/data-sources", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"btc":{"Last year":"btc/last-year-minute.csv"}}`)
	})
	mux.HandleFunc("/api/benchmark/b1/state", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/api/assets/btc/prices", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":{"year":2020,"month":5,"day":29},"price":9000},{"_id":{"year":2020,"month":5,"day":30},"price":9100}]`)
	})
	mux.HandleFunc("/api/applications", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"a1","asset":"btc","accountID":"acc1"}]`)
	})
	mux.HandleFunc("/api/applications/a1/state", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/api/applications/a1/state/last", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"_id":"s1","state":[]}`)
	})
	mux.HandleFunc("/api/applications/a1/log-events", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/api/accounts/acc1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"_id":"acc1","amount":"10.5","broker":"kraken"}`)
	})
	mux.HandleFunc("/api/accounts/acc1/assets", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	})
	mux.HandleFunc("/api/accounts/acc1/buys-and-sells", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"buys":[],"sells":[]}`)
	})
	return mux
}

func newTestDashboard(t *testing.T, snaps *store.Store) (*Dashboard, *httptest.Server) {
	t.Helper()
	b := httptest.NewServer(backend())
	t.Cleanup(b.Close)

	u, err := url.Parse(b.URL)
	if err != nil {
		t.Fatal(err)
	}
	c, err := client.New(u, nil)
	if err != nil {
		t.Fatal(err)
	}
	d, err := New(c, &Options{Zone: time.UTC, ZoomDebounce: 10 * time.Millisecond, Snapshots: snaps})
	if err != nil {
		t.Fatal(err)
	}

	mux := http.NewServeMux()
	for k, v := range d.HandlerMap() {
		mux.Handle(k, v)
	}
	s := httptest.NewServer(mux)
	t.Cleanup(func() {
		d.Close()
		s.Close()
	})
	return d, s
}

func getJSON[T any](t *testing.T, u string) (int, *T) {
	t.Helper()
	resp, err := http.Get(u)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	v := new(T)
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatal(err)
		}
	}
	return resp.StatusCode, v
}

func TestBenchmarkHandlers(t *testing.T) {
	_, s := newTestDashboard(t, nil)

	code, list := getJSON[page.BenchmarkView](t, s.URL+"/dashboard/benchmarks")
	if code != http.StatusOK || len(list.Benchmarks) != 1 {
		t.Fatalf("want one benchmark, got %d %#v", code, list)
	}

	code, v := getJSON[page.BenchmarkView](t, s.URL+"/dashboard/benchmarks/b1?startDate=2020-05-29&endDate=2020-05-31&tableView=price-analysis")
	if code != http.StatusOK {
		t.Fatalf("want 200, got %d", code)
	}
	if v.Selected == nil || v.Selected.ID != "b1" {
		t.Fatalf("want b1 selected, got %#v", v.Selected)
	}
	if v.Interval.StartDate != "2020-05-29T00:00:00" || v.Interval.EndDate != "2020-05-31T00:00:00" {
		t.Fatalf("want interval from the query, got %#v", v.Interval)
	}
	if len(v.PriceAnalysis) != 2 {
		t.Fatalf("want price analysis rows, got %v", v.PriceAnalysis)
	}

	if code, _ := getJSON[page.BenchmarkView](t, s.URL+"/dashboard/benchmarks/missing"); code != http.StatusNotFound {
		t.Fatalf("want 404 for unknown benchmark, got %d", code)
	}
	if code, _ := getJSON[page.BenchmarkView](t, s.URL+"/dashboard/benchmarks/b1?startDate=yesterday"); code != http.StatusBadRequest {
		t.Fatalf("want 400 for a bad date, got %d", code)
	}
	if code, _ := getJSON[page.BenchmarkView](t, s.URL+"/dashboard/benchmarks/b1?tableView=charts"); code != http.StatusBadRequest {
		t.Fatalf("want 400 for a bad table view, got %d", code)
	}

	resp, err := http.PostForm(s.URL+"/dashboard/benchmarks", url.Values{"accountInitialAmount": {"1000"}})
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	created := new(gobs.Benchmark)
	if err := json.NewDecoder(resp.Body).Decode(created); err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusCreated || created.ID != "b2" || created.Input.AccountInitialAmount != 1000 {
		t.Fatalf("want created benchmark, got %d %#v", resp.StatusCode, created)
	}

	resp, err = http.PostForm(s.URL+"/dashboard/benchmarks", url.Values{"accountInitialAmount": {"x"}})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("want 400 for a bad form, got %d", resp.StatusCode)
	}
}

func TestApplicationHandlers(t *testing.T) {
	_, s := newTestDashboard(t, nil)

	code, v := getJSON[page.ApplicationsView](t, s.URL+"/dashboard/applications/a1?currency=USD")
	if code != http.StatusOK {
		t.Fatalf("want 200, got %d", code)
	}
	if v.Selected == nil || v.Selected.CurrentAmount != "10.50 $" {
		t.Fatalf("want amounts in USD, got %#v", v.Selected)
	}
	if code, _ := getJSON[page.ApplicationsView](t, s.URL+"/dashboard/applications/a9"); code != http.StatusNotFound {
		t.Fatalf("want 404 for unknown application, got %d", code)
	}
	if code, _ := getJSON[page.ApplicationsView](t, s.URL+"/dashboard/applications/a1?currency=GBP"); code != http.StatusBadRequest {
		t.Fatalf("want 400 for unknown currency, got %d", code)
	}
}

func TestLiveBenchmark(t *testing.T) {
	d, s := newTestDashboard(t, nil)

	wsURL := "ws" + strings.TrimPrefix(s.URL, "http") + "/dashboard/live/benchmarks/b1"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	type message struct {
		page.BenchmarkView
		Error string `json:"error"`
	}
	readUntil := func(what string, cond func(*message) bool) {
		t.Helper()
		for {
			m := new(message)
			if err := conn.ReadJSON(m); err != nil {
				t.Fatalf("could not read %s: %v", what, err)
			}
			if cond(m) {
				return
			}
		}
	}

	readUntil("selected view", func(m *message) bool { return m.Selected != nil && m.Selected.ID == "b1" })
	if d.NumSessions() != 1 {
		t.Fatalf("want one live session, got %d", d.NumSessions())
	}

	if err := conn.WriteJSON(&LiveRequest{TableView: "price-analysis"}); err != nil {
		t.Fatal(err)
	}
	readUntil("price analysis view", func(m *message) bool { return m.TableView == "price-analysis" })

	if err := conn.WriteJSON(&LiveRequest{TableView: "charts"}); err != nil {
		t.Fatal(err)
	}
	readUntil("error message", func(m *message) bool { return len(m.Error) != 0 })

	if err := conn.WriteJSON(&LiveRequest{Zoom: &page.Zoom{Min: 1590710400000, Max: 1590796800000}}); err != nil {
		t.Fatal(err)
	}
	readUntil("zoomed view", func(m *message) bool { return m.Interval != nil && m.Interval.EndDate == "2020-05-30T00:00:00" })

	d.Close()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

func TestSnapshotHandlers(t *testing.T) {
	snaps := store.New(kvmemdb.New())
	snap := &store.Snapshot{
		Name:      "first",
		Benchmark: &gobs.Benchmark{ID: "b1", Input: gobs.BenchmarkInput{AccountInitialAmount: 5000, DataSourceFilePath: "btc/x.csv"}},
		Interval:  timerange.FromMillis(1590710400000, 1590883200000),
	}
	if err := snaps.Save(context.Background(), snap); err != nil {
		t.Fatal(err)
	}
	_, s := newTestDashboard(t, snaps)

	code, list := getJSON[[]*SnapshotSummary](t, s.URL+"/dashboard/snapshots")
	if code != http.StatusOK || len(*list) != 1 {
		t.Fatalf("want one snapshot, got %d %v", code, list)
	}
	if v := (*list)[0]; v.ID != snap.ID || v.BenchmarkID != "b1" || v.StartDate != "2020-05-29T00:00:00" {
		t.Fatalf("unexpected snapshot summary %#v", v)
	}

	if code, _ := getJSON[store.Snapshot](t, s.URL+"/dashboard/snapshots/"+snap.ID); code != http.StatusOK {
		t.Fatalf("want 200 for saved snapshot, got %d", code)
	}

	req, err := http.NewRequest(http.MethodDelete, s.URL+"/dashboard/snapshots/"+snap.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("want 204 for delete, got %d", resp.StatusCode)
	}
	if code, _ := getJSON[store.Snapshot](t, s.URL+"/dashboard/snapshots/"+snap.ID); code != http.StatusNotFound {
		t.Fatalf("want 404 after delete, got %d", code)
	}
}
