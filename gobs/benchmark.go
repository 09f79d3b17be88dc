// Copyright (c) 2023 BVK Chaitanya

package gobs

import (
	"fmt"
	"time"
)

type DecisionMakerOptions struct {
	MaximumBuyAmount         float64 `json:"maximumBuyAmount"`
	MaximumFIATBuyAmount     float64 `json:"maximumFIATBuyAmount,omitempty"`
	MinimumProfitPerSold     float64 `json:"minimumProfitPerSold"`
	MinimumPriceDropToBuy    float64 `json:"minimumPriceDropToBuy"`
	MinutesToCollectNewPoint float64 `json:"minutesToCollectNewPoint"`
	GrowthIncreaseLimit      float64 `json:"growthIncreaseLimit"`
	GrowthDecreaseLimit      float64 `json:"growthDecreaseLimit"`
}

type StatisticsOptions struct {
	NumberOfPointsHold int `json:"numberOfPointsHold"`
}

type CollectorOptions struct {
	PriceVariationDetection float64 `json:"priceVariationDetection"`
	NewPriceTimeRate        int     `json:"newPriceTimeRate,omitempty"`
}

type NotificationOptions struct {
	Receiver string `json:"receiver,omitempty"`
	Sender   string `json:"sender,omitempty"`
}

// BenchmarkInput holds the strategy configuration submitted for a backtest.
type BenchmarkInput struct {
	DecisionMakerOptions DecisionMakerOptions `json:"decisionMakerOptions"`
	StatisticsOptions    StatisticsOptions    `json:"statisticsOptions"`
	CollectorOptions     CollectorOptions     `json:"collectorOptions"`
	AccountInitialAmount float64              `json:"accountInitialAmount"`
	DataSourceFilePath   string               `json:"dataSourceFilePath"`
	Asset                string               `json:"asset"`
}

func (v *BenchmarkInput) Check() error {
	if v.AccountInitialAmount <= 0 {
		return fmt.Errorf("account initial amount must be positive")
	}
	if len(v.DataSourceFilePath) == 0 {
		return fmt.Errorf("data source file path cannot be empty")
	}
	if v.StatisticsOptions.NumberOfPointsHold < 0 {
		return fmt.Errorf("number of points to hold cannot be negative")
	}
	if v.DecisionMakerOptions.GrowthIncreaseLimit < 0 {
		return fmt.Errorf("growth increase limit cannot be negative")
	}
	if v.DecisionMakerOptions.GrowthDecreaseLimit > 0 {
		return fmt.Errorf("growth decrease limit cannot be positive")
	}
	return nil
}

// BenchmarkOutput holds the result of a finished backtest.
type BenchmarkOutput struct {
	FinalAmount float64 `json:"finalAmount"`

	Balances []Pair `json:"balances"`
	Buys     []Pair `json:"buys"`
	Sells    []Pair `json:"sells"`

	Assets []Asset `json:"assets"`

	SellsPending        int     `json:"sellsPending,omitempty"`
	AssetsAmountPending float64 `json:"assetsAmountPending,omitempty"`
	AssetsValuePending  float64 `json:"assetsValuePending,omitempty"`
	LastPrice           float64 `json:"lastPrice,omitempty"`
}

type Benchmark struct {
	ID          string          `json:"_id"`
	Input       BenchmarkInput  `json:"input"`
	Output      BenchmarkOutput `json:"output"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt time.Time       `json:"completedAt"`
}

func (b *Benchmark) Check() error {
	if len(b.ID) == 0 {
		return fmt.Errorf("benchmark id cannot be empty")
	}
	return nil
}

// DataSourceOptions maps an asset name to data source labels and their file
// paths on the backend.
type DataSourceOptions map[string]map[string]string
