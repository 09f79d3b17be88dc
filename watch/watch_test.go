// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/timerange"
	"github.com/visvasity/topic"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *client.Client {
	t.Helper()
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)

	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatal(err)
	}
	c, err := client.New(u, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestValueStaleTokens(t *testing.T) {
	v := NewValue("test", 0)
	defer v.Close()

	first := v.Begin()
	second := v.Begin()

	if !v.Finish(second, 2, nil) {
		t.Fatalf("want latest token applied")
	}
	if v.Finish(first, 1, nil) {
		t.Fatalf("want stale token dropped")
	}
	if got := v.Get(); got != 2 {
		t.Fatalf("want 2, got %d", got)
	}

	third := v.Begin()
	v.Finish(third, 0, errors.New("backend down"))
	if got := v.Get(); got != 2 {
		t.Fatalf("want previous value 2 kept on error, got %d", got)
	}
	if v.Err() == nil {
		t.Fatalf("want error recorded")
	}

	v.Set(5)
	if v.Err() != nil {
		t.Fatalf("want error cleared by Set")
	}
}

func TestValueSubscribe(t *testing.T) {
	v := NewValue("test", "initial")
	defer v.Close()

	r, err := v.Subscribe()
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	ch, err := topic.ReceiveCh(r)
	if err != nil {
		t.Fatal(err)
	}

	select {
	case x := <-ch:
		if x != "initial" {
			t.Fatalf("want initial value first, got %q", x)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for initial value")
	}

	v.Set("updated")
	select {
	case x := <-ch:
		if x != "updated" {
			t.Fatalf("want updated, got %q", x)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for update")
	}
}

func TestDebouncer(t *testing.T) {
	var mu sync.Mutex
	var calls []int

	d := NewDebouncer(20*time.Millisecond, func(v int) {
		mu.Lock()
		calls = append(calls, v)
		mu.Unlock()
	})
	defer d.Stop()

	for i := 1; i <= 5; i++ {
		d.Trigger(i)
		time.Sleep(2 * time.Millisecond)
	}
	waitFor(t, "debounced call", func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(calls) > 0
	})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 || calls[0] != 5 {
		t.Fatalf("want single call with latest value 5, got %v", calls)
	}
}

func TestDebouncerFlushAndStop(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(time.Hour, func(v int) { count.Add(int32(v)) })

	d.Trigger(3)
	d.Flush()
	if got := count.Load(); got != 3 {
		t.Fatalf("want flush to deliver pending value, got %d", got)
	}

	d.Stop()
	d.Trigger(10)
	d.Flush()
	if got := count.Load(); got != 3 {
		t.Fatalf("want triggers ignored after stop, got %d", got)
	}
}

func TestDatesInterval(t *testing.T) {
	d := NewDatesInterval(time.UTC)
	defer d.Close()

	if !d.Get().IsClosed() {
		t.Fatalf("want default interval closed")
	}

	r := timerange.FromMillis(1000, 2000)
	if changed, err := d.SetInterval(r); err != nil || !changed {
		t.Fatalf("want changed interval, got %v, %v", changed, err)
	}
	if changed, _ := d.SetInterval(timerange.FromMillis(1000, 2000)); changed {
		t.Fatalf("want unchanged for equal interval")
	}
	if _, err := d.SetInterval(timerange.FromMillis(2000, 1000)); err == nil {
		t.Fatalf("want error for inverted interval")
	}
}

func TestAssetPrices(t *testing.T) {
	var requests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/assets/btc/prices", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		io.WriteString(w, `[{"_id":{"day":29,"month":5,"year":2020},"price":2},{"_id":{"day":28,"month":5,"year":2020},"price":1}]`)
	})
	p := NewAssetPrices(newTestClient(t, mux))
	defer p.Close()

	interval := timerange.FromMillis(1590000000000, 1591000000000)
	p.SetInputs("btc", interval)
	waitFor(t, "asset prices", func() bool { return len(p.Get()) == 2 })

	if prices := p.Get(); prices[0].Value != 1 || prices[1].Value != 2 {
		t.Fatalf("want prices sorted by time, got %v", prices)
	}

	p.SetInputs("btc", interval.Clone())
	if n := requests.Load(); n != 1 {
		t.Fatalf("want no refetch for unchanged inputs, got %d requests", n)
	}

	p.SetInputs("", interval)
	if prices := p.Get(); len(prices) != 0 {
		t.Fatalf("want empty prices for empty asset, got %v", prices)
	}
}

func TestApplicationsList(t *testing.T) {
	var deleted atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/applications", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"a1","asset":"btc","accountID":"acc1"},{"_id":"a2","asset":"eth","accountID":"acc2"}]`)
	})
	mux.HandleFunc("/api/applications/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted.Store(r.URL.Path)
		}
	})
	l := NewApplicationsList(newTestClient(t, mux))
	defer l.Close()

	ctx := context.Background()
	if err := l.Refresh(ctx); err != nil {
		t.Fatal(err)
	}
	if apps := l.Get(); len(apps) != 2 {
		t.Fatalf("want 2 applications, got %d", len(apps))
	}

	if err := l.DeleteApplicationByID(ctx, "a1"); err != nil {
		t.Fatal(err)
	}
	if v, _ := deleted.Load().(string); v != "/api/applications/a1" {
		t.Fatalf("want delete request for a1, got %q", v)
	}
	apps := l.Get()
	if len(apps) != 1 || apps[0].ID != "a2" {
		t.Fatalf("want only a2 left, got %v", apps)
	}
}

func TestApplicationDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/acc1", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"_id":"acc1","amount":"1500.25","broker":"kraken"}`)
	})
	mux.HandleFunc("/api/accounts/acc1/assets", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `null`)
	})
	mux.HandleFunc("/api/applications/a1/state/last", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"_id":"s1","state":[{"Key":"average","Value":42}]}`)
	})
	mux.HandleFunc("/api/applications/a1/log-events", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"_id":"l1","eventName":"buy","message":"bought"}]`)
	})
	a := NewApplication(newTestClient(t, mux))
	defer a.Close()

	apps := []*gobs.Application{{ID: "a1", AccountID: "acc1"}}
	a.Select("a1", apps)
	waitFor(t, "application detail", func() bool { return a.Get() != nil })

	detail := a.Get()
	if detail.Account.Broker != "kraken" || detail.Account.Amount.String() != "1500.25" {
		t.Fatalf("unexpected account %#v", detail.Account)
	}
	if detail.LastState.Get("average") != 42 {
		t.Fatalf("want last state average 42, got %v", detail.LastState.State)
	}
	if detail.Assets == nil || len(detail.Assets) != 0 {
		t.Fatalf("want empty assets, got %v", detail.Assets)
	}
	if len(detail.LogEvents) != 1 {
		t.Fatalf("want one log event, got %d", len(detail.LogEvents))
	}

	a.Select("missing", apps)
	if a.Get() != nil {
		t.Fatalf("want nil detail for unknown application")
	}
	if a.ActiveID() != "missing" {
		t.Fatalf("want active id to be kept")
	}
}

func TestApplicationDetailError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	a := NewApplication(newTestClient(t, mux))
	defer a.Close()

	if err := a.Refresh(context.Background()); err != nil {
		t.Fatalf("want no error without a selection, got %v", err)
	}

	a.Select("a1", []*gobs.Application{{ID: "a1", AccountID: "acc1"}})
	waitFor(t, "fetch error", func() bool { return a.Err() != nil })
	if !errors.Is(a.Err(), client.ErrStatus) {
		t.Fatalf("want status error, got %v", a.Err())
	}
	if a.Get() != nil {
		t.Fatalf("want previous (nil) detail kept")
	}
}

func TestBenchmarksList(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/benchmark", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			io.WriteString(w, `[{"_id":"b1","status":"COMPLETED"}]`)
		case http.MethodPost:
			input := new(gobs.BenchmarkInput)
			json.NewDecoder(r.Body).Decode(input)
			json.NewEncoder(w).Encode(&gobs.Benchmark{ID: "b2", Input: *input, Status: "PENDING"})
		}
	})
	mux.HandleFunc("/api/benchmark/b1", func(w http.ResponseWriter, r *http.Request) {})
	l := NewBenchmarksList(newTestClient(t, mux))
	defer l.Close()

	l.Start()
	waitFor(t, "benchmarks", func() bool { return len(l.Get()) == 1 })

	ctx := context.Background()
	input := &gobs.BenchmarkInput{AccountInitialAmount: 5000, DataSourceFilePath: "btc/last-year-minute.csv"}
	if _, err := l.Submit(ctx, input); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Find("b2"); !ok {
		t.Fatalf("want submitted benchmark appended")
	}

	if err := l.Delete(ctx, "b1"); err != nil {
		t.Fatal(err)
	}
	list := l.Get()
	if len(list) != 1 || list[0].ID != "b2" {
		t.Fatalf("want only b2 left, got %v", list)
	}
}

func TestBenchmark(t *testing.T) {
	var query atomic.Value
	mux := http.NewServeMux()
	mux.HandleFunc("/api/benchmark/b1/state", func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.RawQuery)
		io.WriteString(w, `[{"_id":{"year":2020,"month":5,"day":28},"average":7}]`)
	})
	b := NewBenchmark(newTestClient(t, mux))
	defer b.Close()

	const day = 24 * 60 * 60 * 1000
	t0 := int64(1590624000000)
	bench := &gobs.Benchmark{
		ID: "b1",
		Output: gobs.BenchmarkOutput{
			Balances: []gobs.Pair{{Time: t0, Value: 1000}, {Time: t0 + 4*day, Value: 2000}},
			Buys:     []gobs.Pair{{Time: t0 + day, Value: 1}, {Time: t0 + 2*day, Value: 1}},
			Sells:    []gobs.Pair{{Time: t0 + 3*day, Value: 2}},
		},
	}

	interval := b.SetBenchmark(bench)
	if interval == nil || interval.BeginMillis() != t0+day || interval.EndMillis() != t0+3*day {
		t.Fatalf("want interval spanning buys and sells, got %v", interval)
	}
	if res := b.Result.Get(); len(res.Balances) != 5 {
		t.Fatalf("want gap filled balances for all days, got %v", res.Balances)
	}
	if res := b.Result.Get(); res.Assets == nil {
		t.Fatalf("want non-nil assets")
	}

	b.SetInterval(timerange.FromMillis(t0, t0+3*day))
	res := b.Result.Get()
	if len(res.Buys) != 2 || len(res.Sells) != 0 {
		t.Fatalf("want buys inside and sells outside the window, got %v %v", res.Buys, res.Sells)
	}

	waitFor(t, "benchmark state", func() bool { return len(b.State.Get().Average) == 1 })
	if q, _ := query.Load().(string); q != "endDate=2020-05-31T00%3A00%3A00&startDate=2020-05-28T00%3A00%3A00" {
		t.Fatalf("unexpected state query %q", q)
	}

	if b.SetBenchmark(&gobs.Benchmark{ID: "b2"}) != nil {
		t.Fatalf("want nil interval for benchmark without trades")
	}
	if b.SetBenchmark(nil) != nil || b.Result.Get() != nil {
		t.Fatalf("want cleared result for nil benchmark")
	}
}

func TestBenchmarkOneSidedTrades(t *testing.T) {
	b := NewBenchmark(newTestClient(t, http.NewServeMux()))
	defer b.Close()

	const day = 24 * 60 * 60 * 1000
	t0 := int64(1590624000000)
	buysOnly := &gobs.Benchmark{
		ID: "b1",
		Output: gobs.BenchmarkOutput{
			Buys:  []gobs.Pair{{Time: t0, Value: 1}, {Time: t0 + 2*day, Value: 1}},
			Sells: []gobs.Pair{},
		},
	}
	if r := b.SetBenchmark(buysOnly); r == nil || r.BeginMillis() != t0 || r.EndMillis() != t0+2*day {
		t.Fatalf("want interval spanning the buys, got %v", r)
	}

	sellsOnly := &gobs.Benchmark{
		ID: "b2",
		Output: gobs.BenchmarkOutput{
			Sells: []gobs.Pair{{Time: t0 + day, Value: 2}, {Time: t0 + 3*day, Value: 2}},
		},
	}
	if r := b.SetBenchmark(sellsOnly); r == nil || r.BeginMillis() != t0+day || r.EndMillis() != t0+3*day {
		t.Fatalf("want interval spanning the sells, got %v", r)
	}
}
