// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"bytes"
	"math"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/shopspring/decimal"
)

func TestAssetRow(t *testing.T) {
	sold := &gobs.Asset{
		Amount:    0.5,
		BuyPrice:  8000,
		SellPrice: 8800,
		BuyTime:   time.Date(2020, 5, 28, 10, 0, 0, 0, time.UTC),
		SellTime:  time.Date(2020, 5, 29, 10, 0, 0, 0, time.UTC),
		Sold:      true,
	}
	row := NewAssetRow(sold)
	if row.Profit != "400.00" {
		t.Fatalf("want profit 400.00, got %s", row.Profit)
	}
	if row.Return != "10.00%" {
		t.Fatalf("want return 10.00%%, got %s", row.Return)
	}
	if row.SellTime != "2020-05-29T10:00:00Z" || row.SellPrice != "8800" {
		t.Fatalf("want sell columns for sold lot, got %q %q", row.SellTime, row.SellPrice)
	}

	unsold := &gobs.Asset{Amount: 1, BuyPrice: 100, SellPrice: 0}
	row = NewAssetRow(unsold)
	if row.SellTime != "" || row.SellPrice != "" {
		t.Fatalf("want blank sell columns for unsold lot, got %q %q", row.SellTime, row.SellPrice)
	}
	if row.Profit != "-100.00" || row.Return != "-100.00%" {
		t.Fatalf("want -100.00 and -100.00%%, got %s %s", row.Profit, row.Return)
	}

	var buf bytes.Buffer
	if err := WriteAssetsTable(&buf, AssetRows([]gobs.Asset{*sold, *unsold})); err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Fatalf("want header and two rows, got %d lines:\n%s", lines, buf.String())
	}
}

func TestPriceAnalysisRows(t *testing.T) {
	prices := []gobs.Pair{{Time: 3, Value: 30}, {Time: 1, Value: 10}, {Time: 2, Value: 20}}
	growth := []gobs.Pair{{Time: 2, Value: 10}, {Time: 3, Value: 10}, {Time: 99, Value: 1}}
	gog := []gobs.Pair{{Time: 3, Value: 0}}

	rows := PriceAnalysisRows(prices, growth, gog)
	if len(rows) != 3 {
		t.Fatalf("want 3 rows, got %d", len(rows))
	}
	if rows[0].Time != 1 || rows[0].Growth != nil || rows[0].GrowthOfGrowth != nil {
		t.Fatalf("want first row without growth values, got %#v", rows[0])
	}
	if rows[2].Growth == nil || *rows[2].Growth != 10 || rows[2].GrowthOfGrowth == nil || *rows[2].GrowthOfGrowth != 0 {
		t.Fatalf("want joined growth values on last row, got %#v", rows[2])
	}
	if rows[0].Date != "1970-01-01T00:00:00" {
		t.Fatalf("unexpected date %q", rows[0].Date)
	}
}

func TestPriceStatisticsRows(t *testing.T) {
	prices := []gobs.Pair{{Time: 1, Value: 1}, {Time: 2, Value: 2}, {Time: 3, Value: 3}}
	rows := PriceStatisticsRows(prices, nil, nil)
	if rows[0].Average != 2 || math.Abs(rows[0].StandardDeviation-math.Sqrt(2.0/3)) > 1e-12 {
		t.Fatalf("unexpected price statistics %#v", rows[0].Statistics)
	}
	if rows[1].Average != 0 || rows[1].StandardDeviation != 0 {
		t.Fatalf("want zero statistics for empty growth, got %#v", rows[1].Statistics)
	}
}

func TestBenchmarkRows(t *testing.T) {
	b := &gobs.Benchmark{
		ID:     "b1",
		Status: "COMPLETED",
		Input:  gobs.BenchmarkInput{AccountInitialAmount: 5000, DataSourceFilePath: "btc/x.csv"},
		Output: gobs.BenchmarkOutput{
			FinalAmount:  5100,
			Buys:         []gobs.Pair{{Time: 1}, {Time: 2}},
			Sells:        []gobs.Pair{{Time: 3}},
			SellsPending: 1,
		},
	}
	rows := BenchmarkRows([]*gobs.Benchmark{b})
	if rows[0].AssetsBought != 2 || rows[0].AssetsSold != 1 || rows[0].AssetsPending != 1 {
		t.Fatalf("unexpected row %#v", rows[0])
	}
	var buf bytes.Buffer
	if err := WriteBenchmarksTable(&buf, rows); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "5100.00") {
		t.Fatalf("want fixed final amount in table, got:\n%s", buf.String())
	}
}

func TestBenchmarkChart(t *testing.T) {
	state := format.NewApplicationState()
	c := BenchmarkChart(nil, nil, nil, nil, nil, nil, state)
	if len(c.Series) != 11 {
		t.Fatalf("want 11 series, got %d", len(c.Series))
	}
	for _, s := range c.Series {
		if s.Data == nil {
			t.Fatalf("series %q has nil data", s.Name)
		}
	}
	if s := c.Find("Growth"); s == nil || s.Visible || s.YAxis != GrowthAxis {
		t.Fatalf("want hidden growth series on growth axis, got %#v", s)
	}
	if s := c.Find("Buys"); s == nil || s.Kind != Scatter {
		t.Fatalf("want scatter buys series, got %#v", s)
	}

	c = BenchmarkChart(nil, nil, nil, nil, nil, nil, nil)
	if len(c.Series) != 6 {
		t.Fatalf("want 6 series without state, got %d", len(c.Series))
	}

	state.AccountAmount = []gobs.Pair{{Time: 1, Value: 10}}
	c = ApplicationChart(nil, nil, nil, nil, nil, state)
	if s := c.Find("Balance"); len(s.Data) != 1 {
		t.Fatalf("want account amount charted as balance, got %v", s.Data)
	}
}

func TestParseBenchmarkForm(t *testing.T) {
	in, err := ParseBenchmarkForm(url.Values{})
	if err != nil {
		t.Fatal(err)
	}
	if *in != *DefaultBenchmarkInput() {
		t.Fatalf("want defaults for empty form, got %#v", in)
	}

	values := BenchmarkFormValues(DefaultBenchmarkInput())
	values.Set("accountInitialAmount", "1000")
	values.Set("numberOfPointsHold", "500")
	values.Set("asset", "eth")
	in, err = ParseBenchmarkForm(values)
	if err != nil {
		t.Fatal(err)
	}
	if in.AccountInitialAmount != 1000 || in.StatisticsOptions.NumberOfPointsHold != 500 || in.Asset != "eth" {
		t.Fatalf("unexpected input %#v", in)
	}
	if in.DecisionMakerOptions.GrowthDecreaseLimit != -100 {
		t.Fatalf("want -100 growth decrease limit, got %v", in.DecisionMakerOptions.GrowthDecreaseLimit)
	}

	if _, err := ParseBenchmarkForm(url.Values{"maximumBuyAmount": {"abc"}}); err == nil {
		t.Fatalf("want error for non numeric value")
	}
	if _, err := ParseBenchmarkForm(url.Values{"accountInitialAmount": {"-5"}}); err == nil {
		t.Fatalf("want error for negative amount")
	}
}

func TestDataSourceChoices(t *testing.T) {
	opts := gobs.DataSourceOptions{
		"eth": {"Last year": "eth/last-year.csv"},
		"btc": {"Last year": "btc/last-year-minute.csv", "All": "btc/all.csv"},
	}
	c := NewDataSourceChoices(opts, "")
	if c.ActiveAsset != "btc" {
		t.Fatalf("want default asset btc, got %q", c.ActiveAsset)
	}
	if len(c.Assets) != 2 || c.Assets[0].Value != "btc" {
		t.Fatalf("unexpected assets %v", c.Assets)
	}
	if len(c.DataSources) != 2 || c.ActiveDataSource != "btc/all.csv" {
		t.Fatalf("want first data source selected, got %v %q", c.DataSources, c.ActiveDataSource)
	}

	c = NewDataSourceChoices(opts, "doge")
	if len(c.DataSources) != 0 || c.ActiveDataSource != "" {
		t.Fatalf("want no data sources for unknown asset, got %v", c.DataSources)
	}
	if c := NewDataSourceChoices(nil, ""); c.Assets == nil || c.ActiveAsset != "" {
		t.Fatalf("want empty choices without options, got %#v", c)
	}
}

func TestViewState(t *testing.T) {
	if err := TableView("charts").Check(); err == nil {
		t.Fatalf("want error for unknown table view")
	}
	if EUR.Toggle() != USD || USD.Toggle() != EUR {
		t.Fatalf("toggle must alternate units")
	}
	if got := EUR.Amount(decimal.RequireFromString("1500.257")); got != "1500.26 €" {
		t.Fatalf("want 1500.26 €, got %q", got)
	}
}
