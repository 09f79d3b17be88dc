// Copyright (c) 2025 BVK Chaitanya

// Package dashboard serves the benchmark and applications page views as JSON
// over http and as a live feed over websockets.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/page"
	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/syncmap"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/gorilla/websocket"
)

type Options struct {
	// Zone is used for the default dates interval of the pages.
	Zone *time.Location

	// ZoomDebounce is the quiet period before a live chart zoom is applied.
	ZoomDebounce time.Duration

	// PingInterval is the period of websocket keep-alive pings.
	PingInterval time.Duration

	// Snapshots enables the snapshot handlers when non-nil.
	Snapshots *store.Store
}

func (v *Options) setDefaults() {
	if v.Zone == nil {
		v.Zone = time.Local
	}
	if v.PingInterval == 0 {
		v.PingInterval = 30 * time.Second
	}
}

func (v *Options) Check() error {
	if v.ZoomDebounce < 0 {
		return fmt.Errorf("zoom debounce cannot be negative")
	}
	if v.PingInterval < 0 {
		return fmt.Errorf("ping interval cannot be negative")
	}
	return nil
}

type Dashboard struct {
	client *client.Client

	opts Options

	cg ctxutil.CloseGroup

	upgrader websocket.Upgrader

	sessions syncmap.Map[string, *websocket.Conn]
}

func New(c *client.Client, opts *Options) (*Dashboard, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	d := &Dashboard{
		client: c,
		opts:   *opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	return d, nil
}

// Close disconnects all live sessions and waits for them to finish.
func (d *Dashboard) Close() error {
	d.sessions.Range(func(id string, conn *websocket.Conn) bool {
		conn.Close()
		return true
	})
	d.cg.Close()
	return nil
}

// NumSessions returns the number of live websocket sessions.
func (d *Dashboard) NumSessions() int {
	return d.sessions.Len()
}

func (d *Dashboard) pageOptions() *page.Options {
	return &page.Options{
		Zone:         d.opts.Zone,
		ZoomDebounce: d.opts.ZoomDebounce,
	}
}

// HandlerMap returns the dashboard handlers keyed by their http.ServeMux
// patterns.
func (d *Dashboard) HandlerMap() map[string]http.Handler {
	m := map[string]http.Handler{
		"GET /dashboard/benchmarks":         http.HandlerFunc(d.listBenchmarks),
		"POST /dashboard/benchmarks":        http.HandlerFunc(d.submitBenchmark),
		"GET /dashboard/benchmarks/{id}":    http.HandlerFunc(d.getBenchmark),
		"DELETE /dashboard/benchmarks/{id}": http.HandlerFunc(d.deleteBenchmark),

		"GET /dashboard/applications":         http.HandlerFunc(d.listApplications),
		"GET /dashboard/applications/{id}":    http.HandlerFunc(d.getApplication),
		"DELETE /dashboard/applications/{id}": http.HandlerFunc(d.deleteApplication),

		"GET /dashboard/live/benchmarks/{id}":   http.HandlerFunc(d.liveBenchmark),
		"GET /dashboard/live/applications/{id}": http.HandlerFunc(d.liveApplication),
	}
	if d.opts.Snapshots != nil {
		m["GET /dashboard/snapshots"] = http.HandlerFunc(d.listSnapshots)
		m["GET /dashboard/snapshots/{id}"] = http.HandlerFunc(d.getSnapshot)
		m["DELETE /dashboard/snapshots/{id}"] = http.HandlerFunc(d.deleteSnapshot)
	}
	return m
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("could not write json response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, os.ErrNotExist):
		status = http.StatusNotFound
	case errors.Is(err, os.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, client.ErrStatus), errors.Is(err, client.ErrMalformed):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	slog.Warn("dashboard request failed", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// parseInterval reads the optional startDate and endDate query parameters.
func parseInterval(r *http.Request) (*timerange.Range, error) {
	return intervalFromQuery(r.URL.Query())
}

func intervalFromQuery(q url.Values) (*timerange.Range, error) {
	start, end := q.Get("startDate"), q.Get("endDate")
	if len(start) == 0 && len(end) == 0 {
		return nil, nil
	}
	var v timerange.Range
	if len(start) != 0 {
		t, err := format.ParseDateTime(start)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w: %w", err, os.ErrInvalid)
		}
		v.Begin = t
	}
	if len(end) != 0 {
		t, err := format.ParseDateTime(end)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w: %w", err, os.ErrInvalid)
		}
		v.End = t
	}
	if err := v.Check(); err != nil {
		return nil, fmt.Errorf("%w: %w", err, os.ErrInvalid)
	}
	return &v, nil
}

func (d *Dashboard) listBenchmarks(w http.ResponseWriter, r *http.Request) {
	p, err := page.NewBenchmarkPage(d.client, d.pageOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer p.Close()

	if err := p.Sync(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (d *Dashboard) getBenchmark(w http.ResponseWriter, r *http.Request) {
	interval, err := parseInterval(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tableView := view.AssetsTable
	if v := r.URL.Query().Get("tableView"); len(v) != 0 {
		tableView = view.TableView(v)
	}
	if err := tableView.Check(); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", err, os.ErrInvalid))
		return
	}

	p, err := page.NewBenchmarkPage(d.client, d.pageOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer p.Close()

	ctx := r.Context()
	if err := p.Sync(ctx); err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.Select(r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	if interval != nil {
		if err := p.SetInterval(interval); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if err := p.SetTableView(tableView); err != nil {
		writeError(w, r, err)
		return
	}
	if err := p.Sync(ctx); err != nil {
		// View carries the fetch errors for the client.
		slog.Warn("could not refresh all benchmark page values", "id", r.PathValue("id"), "err", err)
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (d *Dashboard) submitBenchmark(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", err, os.ErrInvalid))
		return
	}
	input, err := view.ParseBenchmarkForm(r.PostForm)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %w", err, os.ErrInvalid))
		return
	}
	b, err := d.client.CreateBenchmark(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("submitted benchmark", "id", b.ID, "dataSource", input.DataSourceFilePath)
	writeJSON(w, http.StatusCreated, b)
}

func (d *Dashboard) deleteBenchmark(w http.ResponseWriter, r *http.Request) {
	if err := d.client.DeleteBenchmark(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (d *Dashboard) listApplications(w http.ResponseWriter, r *http.Request) {
	p, err := page.NewApplicationsPage(d.client, d.pageOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer p.Close()

	if err := p.Sync(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (d *Dashboard) getApplication(w http.ResponseWriter, r *http.Request) {
	interval, err := parseInterval(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	currency := view.EUR
	if v := r.URL.Query().Get("currency"); len(v) != 0 {
		currency = view.CurrencyUnit(v)
	}
	if currency != view.EUR && currency != view.USD {
		writeError(w, r, fmt.Errorf("unknown currency %q: %w", currency, os.ErrInvalid))
		return
	}

	p, err := page.NewApplicationsPage(d.client, d.pageOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer p.Close()

	ctx := r.Context()
	if err := p.Sync(ctx); err != nil {
		writeError(w, r, err)
		return
	}
	id := r.PathValue("id")
	if !p.Has(id) {
		writeError(w, r, fmt.Errorf("application %q not found: %w", id, os.ErrNotExist))
		return
	}
	p.Select(id)
	if interval != nil {
		if err := p.SetInterval(interval); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if currency == view.USD {
		p.ToggleCurrency()
	}
	if err := p.Sync(ctx); err != nil {
		slog.Warn("could not refresh all application page values", "id", id, "err", err)
	}
	writeJSON(w, http.StatusOK, p.Snapshot())
}

func (d *Dashboard) deleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := d.client.DeleteApplication(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SnapshotSummary is a snapshot without its series.
type SnapshotSummary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	BenchmarkID string    `json:"benchmarkID"`
	StartDate   string    `json:"startDate,omitempty"`
	EndDate     string    `json:"endDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (d *Dashboard) listSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := d.opts.Snapshots.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	list := make([]*SnapshotSummary, 0, len(snaps))
	for _, s := range snaps {
		v := &SnapshotSummary{
			ID:          s.ID,
			Name:        s.Name,
			BenchmarkID: s.Benchmark.ID,
			CreatedAt:   s.CreatedAt,
		}
		if s.Interval != nil {
			if !s.Interval.Begin.IsZero() {
				v.StartDate = format.DateTime(s.Interval.Begin)
			}
			if !s.Interval.End.IsZero() {
				v.EndDate = format.DateTime(s.Interval.End)
			}
		}
		list = append(list, v)
	}
	writeJSON(w, http.StatusOK, list)
}

func (d *Dashboard) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := d.opts.Snapshots.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (d *Dashboard) deleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := d.opts.Snapshots.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
