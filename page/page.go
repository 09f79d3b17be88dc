// Copyright (c) 2025 BVK Chaitanya

// Package page assembles the reactive containers and the view builders into
// the benchmark and applications pages. Each page reconciles the inputs of
// its containers whenever one of them changes and publishes a fresh view
// snapshot on a topic.
package page

import (
	"context"
	"fmt"
	"time"

	"github.com/bvk/tradedash/ctxutil"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/watch"
	"github.com/visvasity/topic"
)

type Options struct {
	// Zone is used to compute the default dates interval. Defaults to the
	// local timezone.
	Zone *time.Location

	// ZoomDebounce is the quiet period before a chart zoom updates the dates
	// interval.
	ZoomDebounce time.Duration
}

func (v *Options) setDefaults() {
	if v.Zone == nil {
		v.Zone = time.Local
	}
	if v.ZoomDebounce == 0 {
		v.ZoomDebounce = watch.DefaultZoomDebounce
	}
}

func (v *Options) Check() error {
	if v.ZoomDebounce < 0 {
		return fmt.Errorf("zoom debounce cannot be negative")
	}
	return nil
}

// IntervalView is the dates filter. Min and max dates bound the date
// pickers.
type IntervalView struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	MinDate   string `json:"minDate,omitempty"`
	MaxDate   string `json:"maxDate,omitempty"`
}

func newIntervalView(r *timerange.Range) *IntervalView {
	v := new(IntervalView)
	if r == nil {
		return v
	}
	if !r.Begin.IsZero() {
		v.StartDate = format.DateTime(r.Begin)
	}
	if !r.End.IsZero() {
		v.EndDate = format.DateTime(r.End)
	}
	return v
}

// Zoom is a chart zoom selection in milliseconds since the epoch.
type Zoom struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func (z Zoom) Check() error {
	if z.Min <= 0 || z.Max <= 0 {
		return fmt.Errorf("zoom bounds must be positive")
	}
	if z.Max < z.Min {
		return fmt.Errorf("zoom max %d is less than min %d", z.Max, z.Min)
	}
	return nil
}

// forward signals changed on every update of v until the group is closed.
func forward[T any](cg *ctxutil.CloseGroup, v *watch.Value[T], changed chan<- struct{}) error {
	r, err := v.Subscribe()
	if err != nil {
		return err
	}
	ch, err := topic.ReceiveCh(r)
	if err != nil {
		r.Close()
		return err
	}
	cg.Go(func(ctx context.Context) {
		defer r.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				select {
				case changed <- struct{}{}:
				default:
				}
			}
		}
	})
	return nil
}

// watcher publishes a view snapshot after reconciling inputs whenever any
// forwarded value changes.
type watcher[V any] struct {
	cg ctxutil.CloseGroup

	changed chan struct{}

	views *topic.Topic[V]
}

func newWatcher[V any]() *watcher[V] {
	return &watcher[V]{
		changed: make(chan struct{}, 1),
		views:   topic.New[V](),
	}
}

func (w *watcher[V]) run(reconcile func(), snapshot func() V) {
	w.cg.Go(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case <-w.changed:
				reconcile()
				w.views.Send(snapshot())
			}
		}
	})
}

func (w *watcher[V]) close() {
	w.cg.Close()
	w.views.Close()
}

func (w *watcher[V]) subscribe() (*topic.Receiver[V], error) {
	return topic.Subscribe(w.views, 1, true)
}
