// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/bvk/tradedash/gobs"
)

const (
	DefaultAsset      = "btc"
	DefaultDataSource = "btc/last-year-minute.csv"
)

// DefaultBenchmarkInput returns the initial values of the benchmark form.
func DefaultBenchmarkInput() *gobs.BenchmarkInput {
	return &gobs.BenchmarkInput{
		DecisionMakerOptions: gobs.DecisionMakerOptions{
			MaximumBuyAmount:         0.1,
			MinimumProfitPerSold:     0.02,
			MinimumPriceDropToBuy:    0.01,
			MinutesToCollectNewPoint: 15,
			GrowthIncreaseLimit:      100,
			GrowthDecreaseLimit:      -100,
		},
		StatisticsOptions: gobs.StatisticsOptions{
			NumberOfPointsHold: 20000,
		},
		CollectorOptions: gobs.CollectorOptions{
			PriceVariationDetection: 0.01,
		},
		AccountInitialAmount: 5000,
		Asset:                DefaultAsset,
		DataSourceFilePath:   DefaultDataSource,
	}
}

// BenchmarkFormFields lists the form field names in display order.
var BenchmarkFormFields = []string{
	"maximumBuyAmount",
	"minimumProfitPerSold",
	"minimumPriceDropToBuy",
	"minutesToCollectNewPoint",
	"growthIncreaseLimit",
	"growthDecreaseLimit",
	"numberOfPointsHold",
	"priceVariationDetection",
	"accountInitialAmount",
	"asset",
	"dataSourceFilePath",
}

// BenchmarkFormValues renders a benchmark input as form values.
func BenchmarkFormValues(in *gobs.BenchmarkInput) url.Values {
	f := func(v float64) []string { return []string{strconv.FormatFloat(v, 'f', -1, 64)} }
	return url.Values{
		"maximumBuyAmount":         f(in.DecisionMakerOptions.MaximumBuyAmount),
		"minimumProfitPerSold":     f(in.DecisionMakerOptions.MinimumProfitPerSold),
		"minimumPriceDropToBuy":    f(in.DecisionMakerOptions.MinimumPriceDropToBuy),
		"minutesToCollectNewPoint": f(in.DecisionMakerOptions.MinutesToCollectNewPoint),
		"growthIncreaseLimit":      f(in.DecisionMakerOptions.GrowthIncreaseLimit),
		"growthDecreaseLimit":      f(in.DecisionMakerOptions.GrowthDecreaseLimit),
		"numberOfPointsHold":       []string{strconv.Itoa(in.StatisticsOptions.NumberOfPointsHold)},
		"priceVariationDetection":  f(in.CollectorOptions.PriceVariationDetection),
		"accountInitialAmount":     f(in.AccountInitialAmount),
		"asset":                    []string{in.Asset},
		"dataSourceFilePath":       []string{in.DataSourceFilePath},
	}
}

// ParseBenchmarkForm coerces submitted form values into a benchmark input.
// Missing or empty fields keep their default values.
func ParseBenchmarkForm(values url.Values) (*gobs.BenchmarkInput, error) {
	in := DefaultBenchmarkInput()

	floats := map[string]*float64{
		"maximumBuyAmount":         &in.DecisionMakerOptions.MaximumBuyAmount,
		"minimumProfitPerSold":     &in.DecisionMakerOptions.MinimumProfitPerSold,
		"minimumPriceDropToBuy":    &in.DecisionMakerOptions.MinimumPriceDropToBuy,
		"minutesToCollectNewPoint": &in.DecisionMakerOptions.MinutesToCollectNewPoint,
		"growthIncreaseLimit":      &in.DecisionMakerOptions.GrowthIncreaseLimit,
		"growthDecreaseLimit":      &in.DecisionMakerOptions.GrowthDecreaseLimit,
		"priceVariationDetection":  &in.CollectorOptions.PriceVariationDetection,
		"accountInitialAmount":     &in.AccountInitialAmount,
	}
	for name, dst := range floats {
		s := strings.TrimSpace(values.Get(name))
		if len(s) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q must be a number: %w", name, err)
		}
		*dst = v
	}

	if s := strings.TrimSpace(values.Get("numberOfPointsHold")); len(s) != 0 {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("field %q must be a number: %w", "numberOfPointsHold", err)
		}
		in.StatisticsOptions.NumberOfPointsHold = int(v)
	}
	if s := strings.TrimSpace(values.Get("asset")); len(s) != 0 {
		in.Asset = s
	}
	if s := strings.TrimSpace(values.Get("dataSourceFilePath")); len(s) != 0 {
		in.DataSourceFilePath = s
	}

	if err := in.Check(); err != nil {
		return nil, err
	}
	return in, nil
}

// Option is a select box choice.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DataSourceChoices holds the asset and data source select boxes of the
// benchmark form.
type DataSourceChoices struct {
	Assets           []Option `json:"assets"`
	ActiveAsset      string   `json:"activeAsset"`
	DataSources      []Option `json:"dataSources"`
	ActiveDataSource string   `json:"activeDataSource"`
}

// NewDataSourceChoices lists the assets and the data sources of the active
// asset, in label order. An empty asset selects the default asset and the
// first data source of the active asset is selected.
func NewDataSourceChoices(opts gobs.DataSourceOptions, asset string) *DataSourceChoices {
	c := &DataSourceChoices{
		Assets:      []Option{},
		DataSources: []Option{},
	}
	if opts == nil {
		return c
	}

	assets := make([]string, 0, len(opts))
	for a := range opts {
		assets = append(assets, a)
	}
	slices.Sort(assets)
	for _, a := range assets {
		c.Assets = append(c.Assets, Option{Label: a, Value: a})
	}

	if len(asset) == 0 {
		asset = DefaultAsset
	}
	c.ActiveAsset = asset

	sources := opts[asset]
	labels := make([]string, 0, len(sources))
	for label := range sources {
		labels = append(labels, label)
	}
	slices.Sort(labels)
	for _, label := range labels {
		c.DataSources = append(c.DataSources, Option{Label: label, Value: sources[label]})
	}
	if len(c.DataSources) > 0 {
		c.ActiveDataSource = c.DataSources[0].Value
	}
	return c
}
