// Copyright (c) 2023 BVK Chaitanya

package client

import (
	"context"
	"fmt"
	"time"

	"github.com/bvk/tradedash/api"
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
)

func (c *Client) ListBenchmarks(ctx context.Context) ([]*gobs.Benchmark, error) {
	resp, err := Get[[]*gobs.Benchmark](ctx, c, api.BenchmarksPath, nil)
	if err != nil {
		return nil, err
	}
	return nonNil(*resp), nil
}

// CreateBenchmark submits a new benchmark run and returns the record created
// by the backend.
func (c *Client) CreateBenchmark(ctx context.Context, input *gobs.BenchmarkInput) (*gobs.Benchmark, error) {
	if err := input.Check(); err != nil {
		return nil, fmt.Errorf("invalid benchmark input: %w", err)
	}
	return Post[gobs.Benchmark](ctx, c, api.BenchmarksPath, input)
}

func (c *Client) DeleteBenchmark(ctx context.Context, id string) error {
	if len(id) == 0 {
		return fmt.Errorf("benchmark id cannot be empty")
	}
	return Delete(ctx, c, api.BenchmarkPath(id))
}

func (c *Client) GetDataSources(ctx context.Context) (gobs.DataSourceOptions, error) {
	resp, err := Get[gobs.DataSourceOptions](ctx, c, api.DataSourcesPath, nil)
	if err != nil {
		return nil, err
	}
	if *resp == nil {
		return gobs.DataSourceOptions{}, nil
	}
	return *resp, nil
}

// GetBenchmarkState fetches the execution state buckets of a benchmark in the
// given window and returns them as time sorted series.
func (c *Client) GetBenchmarkState(ctx context.Context, id string, start, end time.Time) (*format.ApplicationState, error) {
	resp, err := Get[[]gobs.StateBucket](ctx, c, api.BenchmarkStatePath(id), api.DateRangeQuery(start, end))
	if err != nil {
		return nil, err
	}
	return format.ApplicationExecutionState(*resp).Sort(), nil
}

func (c *Client) ListApplications(ctx context.Context) ([]*gobs.Application, error) {
	resp, err := Get[[]*gobs.Application](ctx, c, api.ApplicationsPath, nil)
	if err != nil {
		return nil, err
	}
	return nonNil(*resp), nil
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	if len(id) == 0 {
		return fmt.Errorf("application id cannot be empty")
	}
	return Delete(ctx, c, api.ApplicationPath(id))
}

// GetApplicationLastState returns the most recent execution state of an
// application. Returns nil without an error when the backend has no state.
func (c *Client) GetApplicationLastState(ctx context.Context, id string) (*gobs.ExecutionState, error) {
	resp, err := Get[*gobs.ExecutionState](ctx, c, api.ApplicationLastStatePath(id), nil)
	if err != nil {
		return nil, err
	}
	return *resp, nil
}

func (c *Client) GetApplicationState(ctx context.Context, id string, start, end time.Time) (*format.ApplicationState, error) {
	resp, err := Get[[]gobs.StateBucket](ctx, c, api.ApplicationStatePath(id), api.DateRangeQuery(start, end))
	if err != nil {
		return nil, err
	}
	return format.ApplicationExecutionState(*resp).Sort(), nil
}

func (c *Client) GetApplicationLogEvents(ctx context.Context, id string) ([]*gobs.LogEvent, error) {
	resp, err := Get[[]*gobs.LogEvent](ctx, c, api.ApplicationLogEventsPath(id), nil)
	if err != nil {
		return nil, err
	}
	return nonNil(*resp), nil
}

func (c *Client) GetAccount(ctx context.Context, id string) (*gobs.Account, error) {
	return Get[gobs.Account](ctx, c, api.AccountPath(id), nil)
}

// GetAccountAssets returns the lots held by an account. A null response is
// treated as an empty list.
func (c *Client) GetAccountAssets(ctx context.Context, id string) ([]gobs.Asset, error) {
	resp, err := Get[[]gobs.Asset](ctx, c, api.AccountAssetsPath(id), nil)
	if err != nil {
		return nil, err
	}
	return nonNil(*resp), nil
}

func (c *Client) GetAccountBuysAndSells(ctx context.Context, id string) (*gobs.BuysAndSells, error) {
	resp, err := Get[gobs.BuysAndSells](ctx, c, api.AccountBuysAndSellsPath(id), nil)
	if err != nil {
		return nil, err
	}
	resp.Buys = series.SortByTime(nonNil(resp.Buys))
	resp.Sells = series.SortByTime(nonNil(resp.Sells))
	return resp, nil
}

// GetAssetPrices returns the price history of an asset in the given window
// sorted by ascending time.
func (c *Client) GetAssetPrices(ctx context.Context, asset string, start, end time.Time) ([]gobs.Pair, error) {
	if len(asset) == 0 {
		return nil, fmt.Errorf("asset name cannot be empty")
	}
	resp, err := Get[[]gobs.PriceBucket](ctx, c, api.AssetPricesPath(asset), api.DateRangeQuery(start, end))
	if err != nil {
		return nil, err
	}
	for i, b := range *resp {
		if err := b.ID.Check(); err != nil {
			return nil, &DecodeError{Path: api.AssetPricesPath(asset), Err: fmt.Errorf("bucket %d: %w", i, err)}
		}
	}
	return series.SortByTime(format.AssetPrices(*resp)), nil
}

func nonNil[T any](vs []T) []T {
	if vs == nil {
		return []T{}
	}
	return vs
}
