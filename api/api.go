// Copyright (c) 2023 BVK Chaitanya

// Package api defines the backend REST endpoints consumed by the dashboard.
package api

import (
	"net/url"
	"strings"
	"time"

	"github.com/bvk/tradedash/format"
)

const (
	AccountsPath = "/api/accounts"
	AssetsPath   = "/api/assets"

	BenchmarksPath  = "/api/benchmark"
	DataSourcesPath = "/api/benchmark/data-sources"

	ApplicationsPath = "/api/applications"
)

// escapedPath appends each element to the prefix as a single escaped path
// segment.
func escapedPath(prefix string, elems ...string) string {
	var sb strings.Builder
	sb.WriteString(prefix)
	for _, e := range elems {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(e))
	}
	return sb.String()
}

func BenchmarkPath(id string) string {
	return escapedPath(BenchmarksPath, id)
}

func BenchmarkStatePath(id string) string {
	return escapedPath(BenchmarksPath, id, "state")
}

func ApplicationPath(id string) string {
	return escapedPath(ApplicationsPath, id)
}

func ApplicationStatePath(id string) string {
	return escapedPath(ApplicationsPath, id, "state")
}

func ApplicationLastStatePath(id string) string {
	return escapedPath(ApplicationsPath, id, "state", "last")
}

func ApplicationLogEventsPath(id string) string {
	return escapedPath(ApplicationsPath, id, "log-events")
}

func AccountPath(id string) string {
	return escapedPath(AccountsPath, id)
}

func AccountAssetsPath(id string) string {
	return escapedPath(AccountsPath, id, "assets")
}

func AccountBuysAndSellsPath(id string) string {
	return escapedPath(AccountsPath, id, "buys-and-sells")
}

func AssetPricesPath(asset string) string {
	return escapedPath(AssetsPath, asset, "prices")
}

// DateRangeQuery returns the startDate/endDate query parameters for a range
// scoped call.
func DateRangeQuery(start, end time.Time) url.Values {
	return url.Values{
		"startDate": []string{format.DateTime(start)},
		"endDate":   []string{format.DateTime(end)},
	}
}
