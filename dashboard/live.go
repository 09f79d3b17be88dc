// Copyright (c) 2025 BVK Chaitanya

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bvk/tradedash/page"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/visvasity/topic"
)

// LiveRequest is a message from a live dashboard client. Only one field is
// expected to be set per message.
type LiveRequest struct {
	Zoom *page.Zoom `json:"zoom,omitempty"`

	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`

	TableView view.TableView `json:"tableView,omitempty"`

	ToggleCurrency bool `json:"toggleCurrency,omitempty"`
}

// LiveError is sent to a live client when its request cannot be applied.
type LiveError struct {
	Error string `json:"error"`
}

type livePage[V any] interface {
	Subscribe() (*topic.Receiver[V], error)
	Snapshot() V
	Zoom(page.Zoom) error
	SetInterval(*timerange.Range) error
}

func (d *Dashboard) liveBenchmark(w http.ResponseWriter, r *http.Request) {
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
	if err := p.Select(r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}

	apply := func(req *LiveRequest) error {
		if len(req.TableView) != 0 {
			return p.SetTableView(req.TableView)
		}
		if req.ToggleCurrency {
			return fmt.Errorf("benchmark page has no currency: %w", os.ErrInvalid)
		}
		return nil
	}
	serveLive[*page.BenchmarkView](d, w, r, p, apply)
}

func (d *Dashboard) liveApplication(w http.ResponseWriter, r *http.Request) {
	p, err := page.NewApplicationsPage(d.client, d.pageOptions())
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer p.Close()

	id := r.PathValue("id")
	if err := p.Sync(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	if !p.Has(id) {
		writeError(w, r, fmt.Errorf("application %q not found: %w", id, os.ErrNotExist))
		return
	}
	p.Select(id)

	apply := func(req *LiveRequest) error {
		if req.ToggleCurrency {
			p.ToggleCurrency()
			return nil
		}
		if len(req.TableView) != 0 {
			return fmt.Errorf("applications page has no table views: %w", os.ErrInvalid)
		}
		return nil
	}
	serveLive[*page.ApplicationsView](d, w, r, p, apply)
}

// serveLive upgrades the request to a websocket and pushes page views on
// every change until the client disconnects or the dashboard is closed.
// Zoom and dates requests are handled here; apply handles the page specific
// requests.
func serveLive[V any](d *Dashboard, w http.ResponseWriter, r *http.Request, p livePage[V], apply func(*LiveRequest) error) {
	recv, err := p.Subscribe()
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer recv.Close()

	views, err := topic.ReceiveCh(recv)
	if err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		slog.Warn("could not upgrade to websocket", "path", r.URL.Path, "err", err)
		return
	}
	defer conn.Close()

	id := uuid.New().String()
	d.sessions.Store(id, conn)
	defer d.sessions.Delete(id)

	slog.Info("started live dashboard session", "session", id, "path", r.URL.Path, "remote", r.RemoteAddr)
	defer slog.Info("finished live dashboard session", "session", id)

	ctx, cancel := context.WithCancelCause(d.cg.Context())
	defer cancel(nil)

	errCh := make(chan error, 1)
	reader := func(ctx context.Context) {
		defer cancel(os.ErrClosed)

		for ctx.Err() == nil {
			req := new(LiveRequest)
			if err := conn.ReadJSON(req); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, net.ErrClosed) {
					slog.Warn("could not read live request", "session", id, "err", err)
				}
				return
			}
			if err := applyLive(p, req, apply); err != nil {
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}
	readerDone := make(chan struct{})
	if !d.cg.Go(func(ctx context.Context) {
		defer close(readerDone)
		reader(ctx)
	}) {
		return
	}
	defer func() {
		conn.Close()
		<-readerDone
	}()

	ping := time.NewTicker(d.opts.PingInterval)
	defer ping.Stop()

	if err := conn.WriteJSON(p.Snapshot()); err != nil {
		slog.Warn("could not send initial live view", "session", id, "err", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			return

		case v, ok := <-views:
			if !ok {
				return
			}
			if err := conn.WriteJSON(v); err != nil {
				slog.Warn("could not send live view", "session", id, "err", err)
				return
			}

		case err := <-errCh:
			if err := conn.WriteJSON(&LiveError{Error: err.Error()}); err != nil {
				return
			}

		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(time.Second)); err != nil {
				slog.Warn("could not ping live client", "session", id, "err", err)
				return
			}
		}
	}
}

func applyLive[V any](p livePage[V], req *LiveRequest, apply func(*LiveRequest) error) error {
	if req.Zoom != nil {
		return p.Zoom(*req.Zoom)
	}
	if len(req.StartDate) != 0 || len(req.EndDate) != 0 {
		q := make(url.Values)
		if len(req.StartDate) != 0 {
			q["startDate"] = []string{req.StartDate}
		}
		if len(req.EndDate) != 0 {
			q["endDate"] = []string{req.EndDate}
		}
		r, err := intervalFromQuery(q)
		if err != nil {
			return err
		}
		return p.SetInterval(r)
	}
	return apply(req)
}
