// Copyright (c) 2025 BVK Chaitanya

// Package view builds the table rows, chart series and form values shown by
// the dashboard pages and the command line.
package view

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/bvk/tradedash/format"
	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
	"github.com/shopspring/decimal"
)

var d100 = decimal.NewFromInt(100)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// AssetRow is a trade lot with its derived profit and return. Sell columns
// are blank for unsold lots.
type AssetRow struct {
	Amount    string `json:"amount"`
	BuyTime   string `json:"buyTime"`
	BuyPrice  string `json:"buyPrice"`
	SellTime  string `json:"sellTime"`
	SellPrice string `json:"sellPrice"`
	Profit    string `json:"profit"`
	Return    string `json:"return"`
}

// NewAssetRow computes the profit as (sell-buy)*amount and the return as a
// percentage of the buy value, both fixed to two decimal places.
func NewAssetRow(a *gobs.Asset) *AssetRow {
	amount := decimal.NewFromFloat(a.Amount)
	bought := decimal.NewFromFloat(a.BuyPrice).Mul(amount)
	sold := decimal.NewFromFloat(a.SellPrice).Mul(amount)
	profit := sold.Sub(bought)

	row := &AssetRow{
		Amount:   formatFloat(a.Amount),
		BuyTime:  formatTime(a.BuyTime),
		BuyPrice: formatFloat(a.BuyPrice),
		Profit:   profit.StringFixed(2),
	}
	if bought.IsZero() {
		row.Return = "NaN%"
	} else {
		row.Return = profit.Div(bought).Mul(d100).StringFixed(2) + "%"
	}
	if a.Sold {
		row.SellTime = formatTime(a.SellTime)
		row.SellPrice = formatFloat(a.SellPrice)
	}
	return row
}

func AssetRows(assets []gobs.Asset) []*AssetRow {
	rows := make([]*AssetRow, 0, len(assets))
	for i := range assets {
		rows = append(rows, NewAssetRow(&assets[i]))
	}
	return rows
}

func WriteAssetsTable(w io.Writer, rows []*AssetRow) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Amount\tBuy Time\tBuy Price\tSell Time\tSell Price\tProfit\tReturn\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", r.Amount, r.BuyTime, r.BuyPrice, r.SellTime, r.SellPrice, r.Profit, r.Return)
	}
	return tw.Flush()
}

type ApplicationRow struct {
	ID        string `json:"id"`
	Asset     string `json:"asset"`
	AccountID string `json:"accountID"`
}

func ApplicationRows(apps []*gobs.Application) []*ApplicationRow {
	rows := make([]*ApplicationRow, 0, len(apps))
	for _, a := range apps {
		rows = append(rows, &ApplicationRow{ID: a.ID, Asset: a.Asset, AccountID: a.AccountID})
	}
	return rows
}

func WriteApplicationsTable(w io.Writer, rows []*ApplicationRow) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "ID\tAsset\tAccount\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.ID, r.Asset, r.AccountID)
	}
	return tw.Flush()
}

type LogEventRow struct {
	ID        string `json:"id"`
	EventName string `json:"eventName"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

func LogEventRows(events []*gobs.LogEvent) []*LogEventRow {
	rows := make([]*LogEventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, &LogEventRow{
			ID:        e.ID,
			EventName: e.EventName,
			Message:   e.Message,
			CreatedAt: formatTime(e.CreatedAt),
		})
	}
	return rows
}

func WriteLogEventsTable(w io.Writer, rows []*LogEventRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID\tEvent Name\tMessage\tCreated At\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.ID, r.EventName, r.Message, r.CreatedAt)
	}
	return tw.Flush()
}

// PriceAnalysisRow joins a price with the growth and growth of growth values
// at the same timestamp. Growth fields are nil when no derivative point
// exists for the timestamp.
type PriceAnalysisRow struct {
	Time           int64    `json:"time"`
	Date           string   `json:"date"`
	Price          float64  `json:"price"`
	Growth         *float64 `json:"growth,omitempty"`
	GrowthOfGrowth *float64 `json:"growthOfGrowth,omitempty"`
}

// PriceAnalysisRows returns one row per price point in ascending time order.
func PriceAnalysisRows(prices, growth, growthOfGrowth []gobs.Pair) []*PriceAnalysisRow {
	byTime := make(map[int64]*PriceAnalysisRow, len(prices))
	for _, p := range prices {
		byTime[p.Time] = &PriceAnalysisRow{
			Time:  p.Time,
			Date:  format.DateTimeMillis(p.Time),
			Price: p.Value,
		}
	}
	for _, g := range growth {
		if row, ok := byTime[g.Time]; ok {
			v := g.Value
			row.Growth = &v
		}
	}
	for _, g := range growthOfGrowth {
		if row, ok := byTime[g.Time]; ok {
			v := g.Value
			row.GrowthOfGrowth = &v
		}
	}

	rows := make([]*PriceAnalysisRow, 0, len(byTime))
	for _, row := range byTime {
		rows = append(rows, row)
	}
	slices.SortFunc(rows, func(a, b *PriceAnalysisRow) int {
		return cmp.Compare(a.Time, b.Time)
	})
	return rows
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func WritePriceAnalysisTable(w io.Writer, rows []*PriceAnalysisRow) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Date\tPrice\tGrowth\tGrowth of Growth\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", r.Date, formatFloat(r.Price), optional(r.Growth), optional(r.GrowthOfGrowth))
	}
	return tw.Flush()
}

// PriceStatisticsRow holds the population average and standard deviation of
// one metric.
type PriceStatisticsRow struct {
	Metric string `json:"metric"`
	series.Statistics
}

func PriceStatisticsRows(prices, growth, growthOfGrowth []gobs.Pair) []*PriceStatisticsRow {
	return []*PriceStatisticsRow{
		{Metric: "Price", Statistics: series.GetStatistics(series.Values(prices))},
		{Metric: "Growth", Statistics: series.GetStatistics(series.Values(growth))},
		{Metric: "Growth of Growth", Statistics: series.GetStatistics(series.Values(growthOfGrowth))},
	}
}

func WritePriceStatisticsTable(w io.Writer, rows []*PriceStatisticsRow) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Metric\tAverage\tStd\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", r.Metric, formatFloat(r.Average), formatFloat(r.StandardDeviation))
	}
	return tw.Flush()
}

// BenchmarkRow summarizes a benchmark run for the benchmarks list.
type BenchmarkRow struct {
	ID            string  `json:"id"`
	Points        int     `json:"points"`
	DataSource    string  `json:"dataSource"`
	InitialAmount float64 `json:"initialAmount"`
	FinalAmount   float64 `json:"finalAmount"`
	AssetsBought  int     `json:"assetsBought"`
	AssetsSold    int     `json:"assetsSold"`
	AssetsPending int     `json:"assetsPending"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	CompletedAt   string  `json:"completedAt"`
}

func BenchmarkRows(benchmarks []*gobs.Benchmark) []*BenchmarkRow {
	rows := make([]*BenchmarkRow, 0, len(benchmarks))
	for _, b := range benchmarks {
		rows = append(rows, &BenchmarkRow{
			ID:            b.ID,
			Points:        b.Input.StatisticsOptions.NumberOfPointsHold,
			DataSource:    b.Input.DataSourceFilePath,
			InitialAmount: b.Input.AccountInitialAmount,
			FinalAmount:   b.Output.FinalAmount,
			AssetsBought:  len(b.Output.Buys),
			AssetsSold:    len(b.Output.Sells),
			AssetsPending: b.Output.SellsPending,
			Status:        b.Status,
			CreatedAt:     formatTime(b.CreatedAt),
			CompletedAt:   formatTime(b.CompletedAt),
		})
	}
	return rows
}

func WriteBenchmarksTable(w io.Writer, rows []*BenchmarkRow) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "ID\tPoints\tData Source\tInitial Amount\tFinal Amount\tBought\tSold\tPending\tStatus\tCreated At\tCompleted At\t\n")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\t%s\t\n", r.ID, r.Points, r.DataSource,
			decimal.NewFromFloat(r.InitialAmount).StringFixed(2), decimal.NewFromFloat(r.FinalAmount).StringFixed(2),
			r.AssetsBought, r.AssetsSold, r.AssetsPending, r.Status, r.CreatedAt, r.CompletedAt)
	}
	return tw.Flush()
}

// WriteApplicationStateTable prints the execution state series side by side,
// one row per bucket.
func WriteApplicationStateTable(w io.Writer, s *format.ApplicationState) error {
	tw := newTabWriter(w)
	fmt.Fprintf(tw, "Date\tAverage\tStd\tChange\tLower Band\tHigher Band\tAccount Amount\t\n")
	at := func(ps []gobs.Pair, i int) string {
		if i < len(ps) {
			return formatFloat(ps[i].Value)
		}
		return ""
	}
	for i, p := range s.Average {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", format.DateTimeMillis(p.Time), formatFloat(p.Value),
			at(s.StandardDeviation, i), at(s.CurrentChange, i), at(s.LowerBollingerBand, i), at(s.HigherBollingerBand, i), at(s.AccountAmount, i))
	}
	return tw.Flush()
}
