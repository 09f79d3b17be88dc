// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/timerange"
)

// fetchInto runs fetch under a token that was issued when the fetch was
// triggered. Results of fetches aborted by a close are dropped silently.
func fetchInto[T any](ctx context.Context, v *Value[T], token uint64, fetch func(context.Context) (T, error)) error {
	x, err := fetch(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}
	v.Finish(token, x, err)
	return err
}

// DatesInterval holds the active dates window for range scoped fetches.
type DatesInterval struct {
	*Value[*timerange.Range]
}

// NewDatesInterval returns an interval defaulting to the past week.
func NewDatesInterval(zone *time.Location) *DatesInterval {
	return &DatesInterval{
		Value: NewValue("dates-interval", timerange.PastWeek(zone)),
	}
}

// SetInterval updates the window. Returns false when the window is
// unchanged.
func (d *DatesInterval) SetInterval(r *timerange.Range) (bool, error) {
	if r == nil {
		return false, fmt.Errorf("dates interval cannot be nil")
	}
	if err := r.Check(); err != nil {
		return false, err
	}
	if d.Get().Equal(r) {
		return false, nil
	}
	d.Set(r.Clone())
	return true, nil
}

// AssetPrices tracks the price history of an asset in a dates window.
type AssetPrices struct {
	*Value[[]gobs.Pair]

	client *client.Client

	cg ctxutil.CloseGroup

	mu       sync.Mutex
	asset    string
	interval *timerange.Range
}

func NewAssetPrices(c *client.Client) *AssetPrices {
	return &AssetPrices{
		Value:  NewValue("asset-prices", []gobs.Pair{}),
		client: c,
	}
}

func (p *AssetPrices) Close() {
	p.cg.Close()
	p.Value.Close()
}

// SetInputs refetches prices when the asset or the window changed. An empty
// asset or an open window clears the prices.
func (p *AssetPrices) SetInputs(asset string, interval *timerange.Range) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if asset == p.asset && interval.Equal(p.interval) {
		return
	}
	p.asset, p.interval = asset, interval.Clone()
	p.startLocked()
}

// Refresh refetches prices for the current inputs and waits for the result.
func (p *AssetPrices) Refresh(ctx context.Context) error {
	p.mu.Lock()
	asset, interval := p.asset, p.interval.Clone()
	token := p.Begin()
	p.mu.Unlock()

	if len(asset) == 0 || interval == nil || !interval.IsClosed() {
		p.Finish(token, []gobs.Pair{}, nil)
		return nil
	}
	return fetchInto(ctx, p.Value, token, p.fetcher(asset, interval))
}

func (p *AssetPrices) startLocked() {
	if len(p.asset) == 0 || p.interval == nil || !p.interval.IsClosed() {
		p.Set([]gobs.Pair{})
		return
	}
	token := p.Begin()
	fetch := p.fetcher(p.asset, p.interval.Clone())
	p.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, p.Value, token, fetch)
	})
}

func (p *AssetPrices) fetcher(asset string, interval *timerange.Range) func(context.Context) ([]gobs.Pair, error) {
	return func(ctx context.Context) ([]gobs.Pair, error) {
		return p.client.GetAssetPrices(ctx, asset, interval.Begin, interval.End)
	}
}

// ApplicationsList tracks the list of applications known to the backend.
type ApplicationsList struct {
	*Value[[]*gobs.Application]

	client *client.Client

	cg ctxutil.CloseGroup
}

func NewApplicationsList(c *client.Client) *ApplicationsList {
	return &ApplicationsList{
		Value:  NewValue("applications", []*gobs.Application{}),
		client: c,
	}
}

func (l *ApplicationsList) Close() {
	l.cg.Close()
	l.Value.Close()
}

// Start fetches the list in the background.
func (l *ApplicationsList) Start() {
	token := l.Begin()
	l.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, l.Value, token, l.client.ListApplications)
	})
}

func (l *ApplicationsList) Refresh(ctx context.Context) error {
	return fetchInto(ctx, l.Value, l.Begin(), l.client.ListApplications)
}

// DeleteApplicationByID deletes an application on the backend and removes it
// from the local list.
func (l *ApplicationsList) DeleteApplicationByID(ctx context.Context, id string) error {
	if err := l.client.DeleteApplication(ctx, id); err != nil {
		return err
	}
	l.Update(func(apps []*gobs.Application) []*gobs.Application {
		return slices.DeleteFunc(slices.Clone(apps), func(a *gobs.Application) bool {
			return a.ID == id
		})
	})
	return nil
}

// ApplicationDetail holds everything shown for the selected application.
type ApplicationDetail struct {
	Application *gobs.Application    `json:"application"`
	Account     *gobs.Account        `json:"account"`
	LastState   *gobs.ExecutionState `json:"lastState"`
	Assets      []gobs.Asset        `json:"assets"`
	LogEvents   []*gobs.LogEvent     `json:"logEvents"`
}

// Application tracks the details of the selected application. Value is nil
// when nothing is selected.
type Application struct {
	*Value[*ApplicationDetail]

	client *client.Client

	cg ctxutil.CloseGroup

	mu       sync.Mutex
	activeID string
	active   *gobs.Application
}

func NewApplication(c *client.Client) *Application {
	return &Application{
		Value:  NewValue[*ApplicationDetail]("application", nil),
		client: c,
	}
}

func (a *Application) Close() {
	a.cg.Close()
	a.Value.Close()
}

// ActiveID returns the selected application id.
func (a *Application) ActiveID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.activeID
}

// Select resolves the application id against the list and refetches the
// details when the resolved application changed. Ids missing from the list
// clear the selection details.
func (a *Application) Select(id string, apps []*gobs.Application) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var app *gobs.Application
	if len(id) != 0 {
		if i := slices.IndexFunc(apps, func(v *gobs.Application) bool { return v.ID == id }); i >= 0 {
			app = apps[i]
		}
	}
	a.activeID = id
	if app == a.active {
		return
	}
	a.active = app
	if app == nil {
		a.Set(nil)
		return
	}
	token := a.Begin()
	a.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, a.Value, token, a.fetcher(app))
	})
}

func (a *Application) Refresh(ctx context.Context) error {
	a.mu.Lock()
	app := a.active
	token := a.Begin()
	a.mu.Unlock()

	if app == nil {
		a.Finish(token, nil, nil)
		return nil
	}
	return fetchInto(ctx, a.Value, token, a.fetcher(app))
}

func (a *Application) fetcher(app *gobs.Application) func(context.Context) (*ApplicationDetail, error) {
	return func(ctx context.Context) (*ApplicationDetail, error) {
		return FetchApplicationDetail(ctx, a.client, app)
	}
}

// ApplicationState tracks the aggregated execution state of an application
// in a dates window.
type ApplicationState struct {
	*Value[*format.ApplicationState]

	client *client.Client

	cg ctxutil.CloseGroup

	mu       sync.Mutex
	appID    string
	interval *timerange.Range
}

func NewApplicationState(c *client.Client) *ApplicationState {
	return &ApplicationState{
		Value:  NewValue("application-state", format.NewApplicationState()),
		client: c,
	}
}

func (s *ApplicationState) Close() {
	s.cg.Close()
	s.Value.Close()
}

func (s *ApplicationState) SetInputs(appID string, interval *timerange.Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if appID == s.appID && interval.Equal(s.interval) {
		return
	}
	s.appID, s.interval = appID, interval.Clone()
	if len(appID) == 0 || interval == nil || !interval.IsClosed() {
		s.Set(format.NewApplicationState())
		return
	}
	token := s.Begin()
	fetch := s.fetcher(appID, s.interval.Clone())
	s.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, s.Value, token, fetch)
	})
}

func (s *ApplicationState) Refresh(ctx context.Context) error {
	s.mu.Lock()
	appID, interval := s.appID, s.interval.Clone()
	token := s.Begin()
	s.mu.Unlock()

	if len(appID) == 0 || interval == nil || !interval.IsClosed() {
		s.Finish(token, format.NewApplicationState(), nil)
		return nil
	}
	return fetchInto(ctx, s.Value, token, s.fetcher(appID, interval))
}

func (s *ApplicationState) fetcher(appID string, interval *timerange.Range) func(context.Context) (*format.ApplicationState, error) {
	return func(ctx context.Context) (*format.ApplicationState, error) {
		return s.client.GetApplicationState(ctx, appID, interval.Begin, interval.End)
	}
}

// AccountBuysAndSells tracks the buy and sell events of an account.
type AccountBuysAndSells struct {
	*Value[*gobs.BuysAndSells]

	client *client.Client

	cg ctxutil.CloseGroup

	mu        sync.Mutex
	accountID string
}

func emptyBuysAndSells() *gobs.BuysAndSells {
	return &gobs.BuysAndSells{Buys: []gobs.Pair{}, Sells: []gobs.Pair{}}
}

func NewAccountBuysAndSells(c *client.Client) *AccountBuysAndSells {
	return &AccountBuysAndSells{
		Value:  NewValue("account-buys-and-sells", emptyBuysAndSells()),
		client: c,
	}
}

func (b *AccountBuysAndSells) Close() {
	b.cg.Close()
	b.Value.Close()
}

func (b *AccountBuysAndSells) SetAccount(accountID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if accountID == b.accountID {
		return
	}
	b.accountID = accountID
	if len(accountID) == 0 {
		b.Set(emptyBuysAndSells())
		return
	}
	token := b.Begin()
	b.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, b.Value, token, b.fetcher(accountID))
	})
}

func (b *AccountBuysAndSells) Refresh(ctx context.Context) error {
	b.mu.Lock()
	accountID := b.accountID
	token := b.Begin()
	b.mu.Unlock()

	if len(accountID) == 0 {
		b.Finish(token, emptyBuysAndSells(), nil)
		return nil
	}
	return fetchInto(ctx, b.Value, token, b.fetcher(accountID))
}

func (b *AccountBuysAndSells) fetcher(accountID string) func(context.Context) (*gobs.BuysAndSells, error) {
	return func(ctx context.Context) (*gobs.BuysAndSells, error) {
		return b.client.GetAccountBuysAndSells(ctx, accountID)
	}
}

// BenchmarksList tracks the benchmark runs known to the backend.
type BenchmarksList struct {
	*Value[[]*gobs.Benchmark]

	client *client.Client

	cg ctxutil.CloseGroup
}

func NewBenchmarksList(c *client.Client) *BenchmarksList {
	return &BenchmarksList{
		Value:  NewValue("benchmarks", []*gobs.Benchmark{}),
		client: c,
	}
}

func (l *BenchmarksList) Close() {
	l.cg.Close()
	l.Value.Close()
}

func (l *BenchmarksList) Start() {
	token := l.Begin()
	l.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, l.Value, token, l.client.ListBenchmarks)
	})
}

func (l *BenchmarksList) Refresh(ctx context.Context) error {
	return fetchInto(ctx, l.Value, l.Begin(), l.client.ListBenchmarks)
}

// Find returns the benchmark with the given id from the local list.
func (l *BenchmarksList) Find(id string) (*gobs.Benchmark, bool) {
	list := l.Get()
	if i := slices.IndexFunc(list, func(b *gobs.Benchmark) bool { return b.ID == id }); i >= 0 {
		return list[i], true
	}
	return nil, false
}

// Submit creates a benchmark run and appends it to the local list.
func (l *BenchmarksList) Submit(ctx context.Context, input *gobs.BenchmarkInput) (*gobs.Benchmark, error) {
	b, err := l.client.CreateBenchmark(ctx, input)
	if err != nil {
		return nil, err
	}
	l.Update(func(list []*gobs.Benchmark) []*gobs.Benchmark {
		return append(slices.Clone(list), b)
	})
	return b, nil
}

// Delete deletes a benchmark on the backend and removes it from the local
// list.
func (l *BenchmarksList) Delete(ctx context.Context, id string) error {
	if err := l.client.DeleteBenchmark(ctx, id); err != nil {
		return err
	}
	l.Update(func(list []*gobs.Benchmark) []*gobs.Benchmark {
		return slices.DeleteFunc(slices.Clone(list), func(b *gobs.Benchmark) bool {
			return b.ID == id
		})
	})
	return nil
}

// DataSources tracks the benchmark data source options.
type DataSources struct {
	*Value[gobs.DataSourceOptions]

	client *client.Client

	cg ctxutil.CloseGroup
}

func NewDataSources(c *client.Client) *DataSources {
	return &DataSources{
		Value:  NewValue("data-sources", gobs.DataSourceOptions{}),
		client: c,
	}
}

func (d *DataSources) Close() {
	d.cg.Close()
	d.Value.Close()
}

func (d *DataSources) Start() {
	token := d.Begin()
	d.cg.Go(func(ctx context.Context) {
		fetchInto(ctx, d.Value, token, d.client.GetDataSources)
	})
}

func (d *DataSources) Refresh(ctx context.Context) error {
	return fetchInto(ctx, d.Value, d.Begin(), d.client.GetDataSources)
}
