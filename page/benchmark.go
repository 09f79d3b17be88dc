// Copyright (c) 2025 BVK Chaitanya

package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/bvk/tradedash/watch"
	"github.com/visvasity/topic"
)

// BenchmarkSummary is the selected benchmark without its bulky output
// series.
type BenchmarkSummary struct {
	ID          string              `json:"_id"`
	Input       gobs.BenchmarkInput `json:"input"`
	FinalAmount float64             `json:"finalAmount"`
	Status      string              `json:"status"`
	CreatedAt   time.Time           `json:"createdAt"`
	CompletedAt time.Time           `json:"completedAt"`
}

// BenchmarkView is a snapshot of everything shown by the benchmark page.
type BenchmarkView struct {
	Benchmarks  []*view.BenchmarkRow    `json:"benchmarks"`
	DataSources *view.DataSourceChoices `json:"dataSources"`
	Form        *gobs.BenchmarkInput    `json:"form"`

	Selected *BenchmarkSummary `json:"selected,omitempty"`
	Interval *IntervalView     `json:"interval"`
	Chart    *view.Chart       `json:"chart,omitempty"`

	TableView       view.TableView             `json:"tableView"`
	Assets          []*view.AssetRow           `json:"assets,omitempty"`
	PriceAnalysis   []*view.PriceAnalysisRow   `json:"priceAnalysis,omitempty"`
	PriceStatistics []*view.PriceStatisticsRow `json:"priceStatistics,omitempty"`

	Errors []string `json:"errors,omitempty"`
}

// BenchmarkPage composes the data sources, the benchmarks list, the selected
// benchmark, the dates interval and the asset prices of the benchmark page.
type BenchmarkPage struct {
	opts Options

	dataSources *watch.DataSources
	benchmarks  *watch.BenchmarksList
	benchmark   *watch.Benchmark
	dates       *watch.DatesInterval
	prices      *watch.AssetPrices

	zoom *watch.Debouncer[Zoom]

	w *watcher[*BenchmarkView]

	mu        sync.Mutex
	tableView view.TableView
	asset     string
}

func NewBenchmarkPage(c *client.Client, opts *Options) (*BenchmarkPage, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	p := &BenchmarkPage{
		opts:        *opts,
		dataSources: watch.NewDataSources(c),
		benchmarks:  watch.NewBenchmarksList(c),
		benchmark:   watch.NewBenchmark(c),
		dates:       watch.NewDatesInterval(opts.Zone),
		prices:      watch.NewAssetPrices(c),
		w:           newWatcher[*BenchmarkView](),
		tableView:   view.AssetsTable,
	}
	p.zoom = watch.NewDebouncer(opts.ZoomDebounce, p.applyZoom)

	changed := p.w.changed
	if err := forward(&p.w.cg, p.dataSources.Value, changed); err != nil {
		p.Close()
		return nil, err
	}
	if err := forward(&p.w.cg, p.benchmarks.Value, changed); err != nil {
		p.Close()
		return nil, err
	}
	if err := forward(&p.w.cg, p.benchmark.Result, changed); err != nil {
		p.Close()
		return nil, err
	}
	if err := forward(&p.w.cg, p.benchmark.State, changed); err != nil {
		p.Close()
		return nil, err
	}
	if err := forward(&p.w.cg, p.dates.Value, changed); err != nil {
		p.Close()
		return nil, err
	}
	if err := forward(&p.w.cg, p.prices.Value, changed); err != nil {
		p.Close()
		return nil, err
	}
	p.w.run(p.reconcile, p.Snapshot)
	return p, nil
}

func (p *BenchmarkPage) Close() {
	p.zoom.Stop()
	p.w.close()
	p.prices.Close()
	p.dates.Close()
	p.benchmark.Close()
	p.benchmarks.Close()
	p.dataSources.Close()
}

// Start fetches the data sources and the benchmarks list in the background.
func (p *BenchmarkPage) Start() {
	p.dataSources.Start()
	p.benchmarks.Start()
}

// Subscribe returns a receiver for page view snapshots.
func (p *BenchmarkPage) Subscribe() (*topic.Receiver[*BenchmarkView], error) {
	return p.w.subscribe()
}

// reconcile pushes the dates interval into the containers that depend on it.
func (p *BenchmarkPage) reconcile() {
	interval := p.dates.Get()
	p.benchmark.SetInterval(interval)

	p.mu.Lock()
	asset := p.asset
	p.mu.Unlock()
	p.prices.SetInputs(asset, interval)
}

// Select shows the results of a benchmark from the list. The dates interval
// is reset to span the buys and sells of the benchmark.
func (p *BenchmarkPage) Select(id string) error {
	b, ok := p.benchmarks.Find(id)
	if !ok {
		return fmt.Errorf("benchmark %q not found: %w", id, os.ErrNotExist)
	}
	clone, err := gobs.Clone(b)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.asset = clone.Input.Asset
	p.mu.Unlock()

	if r := p.benchmark.SetBenchmark(clone); r != nil {
		if _, err := p.dates.SetInterval(r); err != nil {
			return err
		}
	}
	p.reconcile()
	return nil
}

// Submit creates a benchmark run from the form input.
func (p *BenchmarkPage) Submit(ctx context.Context, input *gobs.BenchmarkInput) (*gobs.Benchmark, error) {
	b, err := p.benchmarks.Submit(ctx, input)
	if err != nil {
		return nil, err
	}
	slog.Info("submitted benchmark", "id", b.ID, "dataSource", input.DataSourceFilePath)
	return b, nil
}

// Delete deletes a benchmark. Deleting the selected benchmark clears the
// selection.
func (p *BenchmarkPage) Delete(ctx context.Context, id string) error {
	if err := p.benchmarks.Delete(ctx, id); err != nil {
		return err
	}
	if sel := p.benchmark.Selected(); sel != nil && sel.ID == id {
		p.mu.Lock()
		p.asset = ""
		p.mu.Unlock()
		p.benchmark.SetBenchmark(nil)
		p.reconcile()
	}
	return nil
}

// SetInterval sets the dates interval directly, as the date pickers do.
func (p *BenchmarkPage) SetInterval(r *timerange.Range) error {
	if _, err := p.dates.SetInterval(r); err != nil {
		return err
	}
	p.reconcile()
	return nil
}

// Zoom schedules a debounced dates interval update from a chart zoom.
func (p *BenchmarkPage) Zoom(z Zoom) error {
	if err := z.Check(); err != nil {
		return err
	}
	p.zoom.Trigger(z)
	return nil
}

func (p *BenchmarkPage) applyZoom(z Zoom) {
	if err := p.SetInterval(timerange.FromMillis(z.Min, z.Max)); err != nil {
		slog.Warn("could not apply chart zoom", "min", z.Min, "max", z.Max, "err", err)
	}
}

func (p *BenchmarkPage) SetTableView(v view.TableView) error {
	if err := v.Check(); err != nil {
		return err
	}
	p.mu.Lock()
	p.tableView = v
	p.mu.Unlock()

	select {
	case p.w.changed <- struct{}{}:
	default:
	}
	return nil
}

// Sync refetches every backend value for the current inputs and waits for
// the results.
func (p *BenchmarkPage) Sync(ctx context.Context) error {
	p.zoom.Flush()
	p.reconcile()

	var errs []error
	for _, f := range []func(context.Context) error{p.dataSources.Refresh, p.benchmarks.Refresh, p.benchmark.Refresh, p.prices.Refresh} {
		errs = append(errs, f(ctx))
	}
	return errors.Join(errs...)
}

// Snapshot computes the current page view.
func (p *BenchmarkPage) Snapshot() *BenchmarkView {
	p.mu.Lock()
	tableView := p.tableView
	p.mu.Unlock()

	v := &BenchmarkView{
		Benchmarks:  view.BenchmarkRows(p.benchmarks.Get()),
		DataSources: view.NewDataSourceChoices(p.dataSources.Get(), ""),
		Form:        view.DefaultBenchmarkInput(),
		Interval:    newIntervalView(p.dates.Get()),
		TableView:   tableView,
	}
	if c := v.DataSources; len(c.ActiveDataSource) != 0 {
		v.Form.Asset = c.ActiveAsset
		v.Form.DataSourceFilePath = c.ActiveDataSource
	}

	for _, err := range []error{p.dataSources.Err(), p.benchmarks.Err(), p.benchmark.State.Err(), p.prices.Err()} {
		if err != nil {
			v.Errors = append(v.Errors, err.Error())
		}
	}

	result := p.benchmark.Result.Get()
	if result == nil {
		return v
	}

	b := result.Benchmark
	v.Selected = &BenchmarkSummary{
		ID:          b.ID,
		Input:       b.Input,
		FinalAmount: b.Output.FinalAmount,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		CompletedAt: b.CompletedAt,
	}
	if minTime, maxTime, ok := series.Bounds(b.Output.Buys, b.Output.Sells); ok {
		v.Interval.MinDate = format.Date(time.UnixMilli(minTime))
		v.Interval.MaxDate = format.Date(time.UnixMilli(maxTime))
	}

	prices := p.prices.Get()
	growth := series.Derivate(prices, 0)
	growthOfGrowth := series.Derivate(growth, 0)

	v.Chart = view.BenchmarkChart(prices, growth, growthOfGrowth, result.Balances, result.Buys, result.Sells, p.benchmark.State.Get())
	switch tableView {
	case view.AssetsTable:
		v.Assets = view.AssetRows(result.Assets)
	case view.PriceAnalysisTable:
		v.PriceAnalysis = view.PriceAnalysisRows(prices, growth, growthOfGrowth)
		v.PriceStatistics = view.PriceStatisticsRows(prices, growth, growthOfGrowth)
	}
	return v
}
