// Copyright (c) 2025 BVK Chaitanya

package view

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TableView selects the table shown under the benchmark chart.
type TableView string

const (
	AssetsTable        TableView = "assets"
	PriceAnalysisTable TableView = "price-analysis"
)

func (v TableView) Check() error {
	switch v {
	case AssetsTable, PriceAnalysisTable:
		return nil
	}
	return fmt.Errorf("unknown table view %q", string(v))
}

// CurrencyUnit is the unit amounts are displayed in.
type CurrencyUnit string

const (
	EUR CurrencyUnit = "EUR"
	USD CurrencyUnit = "USD"
)

func (u CurrencyUnit) Symbol() string {
	switch u {
	case USD:
		return "$"
	default:
		return "€"
	}
}

// Toggle returns the other currency unit.
func (u CurrencyUnit) Toggle() CurrencyUnit {
	if u == USD {
		return EUR
	}
	return USD
}

// Amount formats an amount with two decimals followed by the unit symbol.
func (u CurrencyUnit) Amount(v decimal.Decimal) string {
	return v.StringFixed(2) + " " + u.Symbol()
}
