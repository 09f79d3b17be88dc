// Copyright (c) 2025 BVK Chaitanya

package page

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/bvk/tradedash/watch"
	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"
)

// applicationsMinDate is the earliest date offered by the applications
// dates filter.
var applicationsMinDate = time.Date(2020, time.July, 1, 0, 0, 0, 0, time.UTC)

// ApplicationSummary holds the cards and the statistics list of the selected
// application.
type ApplicationSummary struct {
	Application *gobs.Application `json:"application"`

	Broker        string `json:"broker,omitempty"`
	CurrentAmount string `json:"currentAmount"`
	CurrentPrice  string `json:"currentPrice"`

	Average             float64 `json:"average"`
	CurrentChange       float64 `json:"currentChange"`
	StandardDeviation   float64 `json:"standardDeviation"`
	HigherBollingerBand float64 `json:"higherBollingerBand"`
	LowerBollingerBand  float64 `json:"lowerBollingerBand"`
}

// ApplicationsView is a snapshot of everything shown by the applications
// page.
type ApplicationsView struct {
	Applications []*view.ApplicationRow `json:"applications"`

	Selected  *ApplicationSummary `json:"selected,omitempty"`
	Interval  *IntervalView       `json:"interval"`
	Chart     *view.Chart         `json:"chart,omitempty"`
	LogEvents []*view.LogEventRow `json:"logEvents,omitempty"`
	Assets    []*view.AssetRow    `json:"assets,omitempty"`

	Currency view.CurrencyUnit `json:"currency"`

	Errors []string `json:"errors,omitempty"`
}

// ApplicationsPage composes the applications list, the selected application
// details and its chart inputs.
type ApplicationsPage struct {
	opts Options

	list         *watch.ApplicationsList
	detail       *watch.Application
	dates        *watch.DatesInterval
	prices       *watch.AssetPrices
	state        *watch.ApplicationState
	buysAndSells *watch.AccountBuysAndSells

	zoom *watch.Debouncer[Zoom]

	w *watcher[*ApplicationsView]

	mu       sync.Mutex
	currency view.CurrencyUnit
}

func NewApplicationsPage(c *client.Client, opts *Options) (*ApplicationsPage, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	p := &ApplicationsPage{
		opts:         *opts,
		list:         watch.NewApplicationsList(c),
		detail:       watch.NewApplication(c),
		dates:        watch.NewDatesInterval(opts.Zone),
		prices:       watch.NewAssetPrices(c),
		state:        watch.NewApplicationState(c),
		buysAndSells: watch.NewAccountBuysAndSells(c),
		w:            newWatcher[*ApplicationsView](),
		currency:     view.EUR,
	}
	p.zoom = watch.NewDebouncer(opts.ZoomDebounce, p.applyZoom)

	changed := p.w.changed
	forwards := []func() error{
		func() error { return forward(&p.w.cg, p.list.Value, changed) },
		func() error { return forward(&p.w.cg, p.detail.Value, changed) },
		func() error { return forward(&p.w.cg, p.dates.Value, changed) },
		func() error { return forward(&p.w.cg, p.prices.Value, changed) },
		func() error { return forward(&p.w.cg, p.state.Value, changed) },
		func() error { return forward(&p.w.cg, p.buysAndSells.Value, changed) },
	}
	for _, f := range forwards {
		if err := f(); err != nil {
			p.Close()
			return nil, err
		}
	}
	p.w.run(p.reconcile, p.Snapshot)
	return p, nil
}

func (p *ApplicationsPage) Close() {
	p.zoom.Stop()
	p.w.close()
	p.buysAndSells.Close()
	p.state.Close()
	p.prices.Close()
	p.dates.Close()
	p.detail.Close()
	p.list.Close()
}

// Start fetches the applications list in the background.
func (p *ApplicationsPage) Start() {
	p.list.Start()
}

func (p *ApplicationsPage) Subscribe() (*topic.Receiver[*ApplicationsView], error) {
	return p.w.subscribe()
}

func (p *ApplicationsPage) active() *gobs.Application {
	id := p.detail.ActiveID()
	if len(id) == 0 {
		return nil
	}
	apps := p.list.Get()
	if i := slices.IndexFunc(apps, func(a *gobs.Application) bool { return a.ID == id }); i >= 0 {
		return apps[i]
	}
	return nil
}

// reconcile re-resolves the selection against the latest list and pushes
// the selected application and the dates interval into the chart inputs.
func (p *ApplicationsPage) reconcile() {
	p.detail.Select(p.detail.ActiveID(), p.list.Get())

	interval := p.dates.Get()
	var asset, appID, accountID string
	if app := p.active(); app != nil {
		asset, appID, accountID = app.Asset, app.ID, app.AccountID
	}
	p.prices.SetInputs(asset, interval)
	p.state.SetInputs(appID, interval)
	p.buysAndSells.SetAccount(accountID)
}

// Has reports if the applications list holds an application with the id.
func (p *ApplicationsPage) Has(id string) bool {
	return slices.ContainsFunc(p.list.Get(), func(a *gobs.Application) bool { return a.ID == id })
}

// Select shows the details of an application. An empty id clears the
// selection.
func (p *ApplicationsPage) Select(id string) {
	p.detail.Select(id, p.list.Get())
	p.reconcile()
}

// Delete deletes an application and clears the selection if it was
// selected.
func (p *ApplicationsPage) Delete(ctx context.Context, id string) error {
	if err := p.list.DeleteApplicationByID(ctx, id); err != nil {
		return err
	}
	if p.detail.ActiveID() == id {
		p.detail.Select("", nil)
	}
	p.reconcile()
	return nil
}

func (p *ApplicationsPage) SetInterval(r *timerange.Range) error {
	if _, err := p.dates.SetInterval(r); err != nil {
		return err
	}
	p.reconcile()
	return nil
}

func (p *ApplicationsPage) Zoom(z Zoom) error {
	if err := z.Check(); err != nil {
		return err
	}
	p.zoom.Trigger(z)
	return nil
}

func (p *ApplicationsPage) applyZoom(z Zoom) {
	if err := p.SetInterval(timerange.FromMillis(z.Min, z.Max)); err != nil {
		slog.Warn("could not apply chart zoom", "min", z.Min, "max", z.Max, "err", err)
	}
}

// ToggleCurrency switches the unit amounts are displayed in.
func (p *ApplicationsPage) ToggleCurrency() view.CurrencyUnit {
	p.mu.Lock()
	p.currency = p.currency.Toggle()
	u := p.currency
	p.mu.Unlock()

	select {
	case p.w.changed <- struct{}{}:
	default:
	}
	return u
}

// Sync refetches every backend value for the current inputs and waits for
// the results.
func (p *ApplicationsPage) Sync(ctx context.Context) error {
	p.zoom.Flush()
	if err := p.list.Refresh(ctx); err != nil {
		return err
	}
	p.reconcile()

	var errs []error
	for _, f := range []func(context.Context) error{p.detail.Refresh, p.prices.Refresh, p.state.Refresh, p.buysAndSells.Refresh} {
		errs = append(errs, f(ctx))
	}
	return errors.Join(errs...)
}

// Snapshot computes the current page view.
func (p *ApplicationsPage) Snapshot() *ApplicationsView {
	p.mu.Lock()
	currency := p.currency
	p.mu.Unlock()

	interval := newIntervalView(p.dates.Get())
	interval.MinDate = format.Date(applicationsMinDate)
	interval.MaxDate = format.Date(time.Now())

	v := &ApplicationsView{
		Applications: view.ApplicationRows(p.list.Get()),
		Interval:     interval,
		Currency:     currency,
	}
	for _, err := range []error{p.list.Err(), p.detail.Err(), p.prices.Err(), p.state.Err(), p.buysAndSells.Err()} {
		if err != nil {
			v.Errors = append(v.Errors, err.Error())
		}
	}

	detail := p.detail.Get()
	if detail == nil {
		return v
	}

	s := &ApplicationSummary{
		Application:         detail.Application,
		Average:             detail.LastState.Get("average"),
		CurrentChange:       detail.LastState.Get("currentChange"),
		StandardDeviation:   detail.LastState.Get("standardDeviation"),
		HigherBollingerBand: detail.LastState.Get("higherBollingerBand"),
		LowerBollingerBand:  detail.LastState.Get("lowerBollingerBand"),
		CurrentPrice:        currency.Amount(decimal.NewFromFloat(detail.LastState.Get("currentPrice"))),
	}
	if detail.Account != nil {
		s.Broker = detail.Account.Broker
		s.CurrentAmount = currency.Amount(detail.Account.Amount)
	}
	v.Selected = s

	prices := p.prices.Get()
	growth := series.Derivate(prices, 0)
	growthOfGrowth := series.Derivate(growth, 0)
	bs := p.buysAndSells.Get()

	v.Chart = view.ApplicationChart(prices, growth, growthOfGrowth, bs.Buys, bs.Sells, p.state.Get())
	v.LogEvents = view.LogEventRows(detail.LogEvents)
	v.Assets = view.AssetRows(detail.Assets)
	return v
}
