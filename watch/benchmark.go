// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"sync"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/timerange"
)

// BenchmarkResult is the selected benchmark with its series re-sliced to the
// active dates window.
type BenchmarkResult struct {
	Benchmark *gobs.Benchmark `json:"benchmark"`

	Balances []gobs.Pair  `json:"balances"`
	Buys     []gobs.Pair  `json:"buys"`
	Sells    []gobs.Pair  `json:"sells"`
	Assets   []gobs.Asset `json:"assets"`
}

func newBenchmarkResult(b *gobs.Benchmark, s *series.BenchmarkSeries) *BenchmarkResult {
	assets := b.Output.Assets
	if assets == nil {
		assets = []gobs.Asset{}
	}
	return &BenchmarkResult{
		Benchmark: b,
		Balances:  orEmpty(series.FillDatesGaps(s.Balances)),
		Buys:      orEmpty(s.Buys),
		Sells:     orEmpty(s.Sells),
		Assets:    assets,
	}
}

func orEmpty(ps []gobs.Pair) []gobs.Pair {
	if ps == nil {
		return []gobs.Pair{}
	}
	return ps
}

// Benchmark tracks the selected benchmark. Result holds the benchmark's own
// series sliced locally to the window and State holds the execution state
// fetched from the backend for the same window.
type Benchmark struct {
	Result *Value[*BenchmarkResult]
	State  *Value[*format.ApplicationState]

	client *client.Client

	cg ctxutil.CloseGroup

	mu        sync.Mutex
	benchmark *gobs.Benchmark
	interval  *timerange.Range
}

func NewBenchmark(c *client.Client) *Benchmark {
	return &Benchmark{
		Result: NewValue[*BenchmarkResult]("benchmark-result", nil),
		State:  NewValue("benchmark-state", format.NewApplicationState()),
		client: c,
	}
}

func (b *Benchmark) Close() {
	b.cg.Close()
	b.Result.Close()
	b.State.Close()
}

// Selected returns the current benchmark or nil.
func (b *Benchmark) Selected() *gobs.Benchmark {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.benchmark
}

// SetBenchmark replaces the selected benchmark and publishes its complete
// series. Returns the window spanning all of its buys and sells, which
// callers should install as the new dates interval. Returns nil when the
// benchmark has no trades.
func (b *Benchmark) SetBenchmark(bench *gobs.Benchmark) *timerange.Range {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.benchmark = bench
	b.interval = nil
	if bench == nil {
		b.Result.Set(nil)
		b.State.Set(format.NewApplicationState())
		return nil
	}

	all := &series.BenchmarkSeries{
		Balances: bench.Output.Balances,
		Buys:     bench.Output.Buys,
		Sells:    bench.Output.Sells,
	}
	b.Result.Set(newBenchmarkResult(bench, all))

	minTime, maxTime, ok := series.Bounds(bench.Output.Buys, bench.Output.Sells)
	if !ok || minTime == 0 || maxTime == 0 {
		return nil
	}
	return timerange.FromMillis(minTime, maxTime)
}

// SetInterval re-slices the benchmark series to the window and refetches the
// execution state for it.
func (b *Benchmark) SetInterval(interval *timerange.Range) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.benchmark == nil || interval == nil || interval.Equal(b.interval) {
		return
	}
	b.interval = interval.Clone()

	windowed := series.FilterBenchmarkResultByTime(&b.benchmark.Output, interval.BeginMillis(), interval.EndMillis())
	b.Result.Set(newBenchmarkResult(b.benchmark, windowed))

	if !interval.IsClosed() {
		return
	}
	token := b.State.Begin()
	fetch := b.fetcher(b.benchmark.ID, b.interval.Clone())
	b.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, b.State, token, fetch)
	})
}

// Refresh refetches the execution state for the current benchmark and
// window and waits for the result.
func (b *Benchmark) Refresh(ctx context.Context) error {
	b.mu.Lock()
	bench, interval := b.benchmark, b.interval.Clone()
	token := b.State.Begin()
	b.mu.Unlock()

	if bench == nil || interval == nil || !interval.IsClosed() {
		b.State.Finish(token, format.NewApplicationState(), nil)
		return nil
	}
	return fetchInto(ctx, b.State, token, b.fetcher(bench.ID, interval))
}

func (b *Benchmark) fetcher(id string, interval *timerange.Range) func(context.Context) (*format.ApplicationState, error) {
	return func(ctx context.Context) (*format.ApplicationState, error) {
		return b.client.GetBenchmarkState(ctx, id, interval.Begin, interval.End)
	}
}
