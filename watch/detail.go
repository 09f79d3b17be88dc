// Copyright (c) 2025 BVK Chaitanya

package watch

import (
	"context"
	"fmt"

	"github.com/bvk/tradedash/client"
	"github.com/bvk/tradedash/gobs"
	"golang.org/x/sync/errgroup"
)

// FetchApplicationDetail fetches the account, last execution state, held
// assets and log events of an application in parallel.
func FetchApplicationDetail(ctx context.Context, c *client.Client, app *gobs.Application) (*ApplicationDetail, error) {
	if app == nil {
		return nil, fmt.Errorf("application cannot be nil")
	}

	detail := &ApplicationDetail{
		Application: app,
		Assets:      []gobs.Asset{},
		LogEvents:   []*gobs.LogEvent{},
	}

	g, gctx := errgroup.WithContext(ctx)
	if len(app.AccountID) != 0 {
		g.Go(func() (err error) {
			detail.Account, err = c.GetAccount(gctx, app.AccountID)
			return err
		})
		g.Go(func() (err error) {
			detail.Assets, err = c.GetAccountAssets(gctx, app.AccountID)
			return err
		})
	}
	g.Go(func() (err error) {
		detail.LastState, err = c.GetApplicationLastState(gctx, app.ID)
		return err
	})
	g.Go(func() (err error) {
		detail.LogEvents, err = c.GetApplicationLogEvents(gctx, app.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("could not fetch application %q details: %w", app.ID, err)
	}
	return detail, nil
}
