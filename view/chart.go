// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
)

type SeriesKind string

const (
	Line    SeriesKind = "line"
	Scatter SeriesKind = "scatter"
)

// Y axis indices. Prices use the primary axis, balances and growth series
// use the secondary axes on the opposite side.
const (
	PriceAxis   = 0
	BalanceAxis = 1
	GrowthAxis  = 2
)

type ChartSeries struct {
	Name    string      `json:"name"`
	Kind    SeriesKind  `json:"kind"`
	YAxis   int         `json:"yAxis"`
	Visible bool        `json:"visible"`
	Color   string      `json:"color"`
	Data    []gobs.Pair `json:"data"`
}

// Chart is a time-series chart description. Data points are `[time, value]`
// pairs in ascending time order.
type Chart struct {
	Title  string         `json:"title"`
	Series []*ChartSeries `json:"series"`
}

// Find returns the series with the given name or nil.
func (c *Chart) Find(name string) *ChartSeries {
	for _, s := range c.Series {
		if s.Name == name {
			return s
		}
	}
	return nil
}

func nonNil(ps []gobs.Pair) []gobs.Pair {
	if ps == nil {
		return []gobs.Pair{}
	}
	return ps
}

func tradeSeries(prices, growth, growthOfGrowth, balances, buys, sells []gobs.Pair) []*ChartSeries {
	return []*ChartSeries{
		{Name: "Prices", Kind: Line, YAxis: PriceAxis, Visible: true, Color: "rgba(83, 83, 223, .5)", Data: nonNil(prices)},
		{Name: "Growth", Kind: Line, YAxis: GrowthAxis, Color: "#FFA000", Data: nonNil(growth)},
		{Name: "Growth of growth", Kind: Line, YAxis: GrowthAxis, Color: "#FFF176", Data: nonNil(growthOfGrowth)},
		{Name: "Balance", Kind: Line, YAxis: BalanceAxis, Visible: true, Color: "rgba(83, 223, 223, .5)", Data: nonNil(balances)},
		{Name: "Buys", Kind: Scatter, YAxis: PriceAxis, Visible: true, Color: "rgba(83, 223, 83, .5)", Data: nonNil(buys)},
		{Name: "Sells", Kind: Scatter, YAxis: PriceAxis, Visible: true, Color: "rgba(223, 83, 83, .5)", Data: nonNil(sells)},
	}
}

func stateSeries(state *format.ApplicationState) []*ChartSeries {
	if state == nil {
		return nil
	}
	return []*ChartSeries{
		{Name: "Average", Kind: Line, YAxis: PriceAxis, Color: "#000", Data: nonNil(state.Average)},
		{Name: "L Bollinger", Kind: Line, YAxis: PriceAxis, Color: "#ccc", Data: nonNil(state.LowerBollingerBand)},
		{Name: "H Bollinger", Kind: Line, YAxis: PriceAxis, Color: "#ccc", Data: nonNil(state.HigherBollingerBand)},
		{Name: "Standard Deviation", Kind: Line, YAxis: PriceAxis, Color: "#FFF176", Data: nonNil(state.StandardDeviation)},
		{Name: "Current Change", Kind: Line, YAxis: GrowthAxis, Color: "#FFF176", Data: nonNil(state.CurrentChange)},
	}
}

// BenchmarkChart builds the benchmark result chart. Execution state series
// are appended hidden when state is non-nil.
func BenchmarkChart(prices, growth, growthOfGrowth, balances, buys, sells []gobs.Pair, state *format.ApplicationState) *Chart {
	c := &Chart{
		Title:  "Benchmark",
		Series: tradeSeries(prices, growth, growthOfGrowth, balances, buys, sells),
	}
	c.Series = append(c.Series, stateSeries(state)...)
	return c
}

// ApplicationChart builds the live application chart. Account amount from
// the execution state is charted as the balance.
func ApplicationChart(prices, growth, growthOfGrowth, buys, sells []gobs.Pair, state *format.ApplicationState) *Chart {
	var balances []gobs.Pair
	if state != nil {
		balances = state.AccountAmount
	}
	c := &Chart{
		Title:  "Application",
		Series: tradeSeries(prices, growth, growthOfGrowth, balances, buys, sells),
	}
	c.Series = append(c.Series, stateSeries(state)...)
	return c
}
