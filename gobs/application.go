// Copyright (c) 2023 BVK Chaitanya

package gobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ApplicationOptions struct {
	NotificationOptions  NotificationOptions  `json:"notificationOptions"`
	StatisticsOptions    StatisticsOptions    `json:"statisticsOptions"`
	DecisionMakerOptions DecisionMakerOptions `json:"decisionMakerOptions"`
	CollectorOptions     CollectorOptions     `json:"collectorOptions"`
}

// Application is a running instance of the trading strategy linked to an
// exchange account.
type Application struct {
	ID        string             `json:"_id"`
	Asset     string             `json:"asset"`
	AccountID string             `json:"accountID"`
	Options   ApplicationOptions `json:"options"`
}

func (a *Application) Check() error {
	if len(a.ID) == 0 {
		return fmt.Errorf("application id cannot be empty")
	}
	return nil
}

// Asset is a single trade lot.
type Asset struct {
	ID        string    `json:"_id"`
	Amount    float64   `json:"amount"`
	BuyTime   time.Time `json:"buyTime"`
	SellTime  time.Time `json:"sellTime"`
	BuyPrice  float64   `json:"buyPrice"`
	SellPrice float64   `json:"sellPrice"`
	Sold      bool      `json:"sold"`
}

type Account struct {
	ID     string          `json:"_id"`
	Amount decimal.Decimal `json:"amount"`
	Broker string          `json:"broker"`
}

func (a *Account) Check() error {
	if len(a.ID) == 0 {
		return fmt.Errorf("account id cannot be empty")
	}
	return nil
}

type LogEvent struct {
	ID        string    `json:"_id"`
	EventName string    `json:"eventName"`
	Message   string    `json:"message"`
	Notified  bool      `json:"notified"`
	CreatedAt time.Time `json:"createdAt"`
}

type BuysAndSells struct {
	Buys  []Pair `json:"buys"`
	Sells []Pair `json:"sells"`
}

// ExecutionState is the most recent statistical snapshot of an application.
// Backend sends the state as a list of {Key, Value} entries which is folded
// into a map here.
type ExecutionState struct {
	ID          string             `json:"_id"`
	ExecutionID string             `json:"executionId"`
	Date        time.Time          `json:"date"`
	State       map[string]float64 `json:"state"`
}

type stateEntry struct {
	Key   string
	Value any
}

func (s *ExecutionState) UnmarshalJSON(data []byte) error {
	var v struct {
		ID          string          `json:"_id"`
		ExecutionID string          `json:"executionId"`
		Date        time.Time       `json:"date"`
		State       json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.ID, s.ExecutionID, s.Date = v.ID, v.ExecutionID, v.Date
	s.State = make(map[string]float64)
	if len(v.State) == 0 || string(v.State) == "null" {
		return nil
	}

	// Accept both the list form and an already folded object.
	var entries []stateEntry
	if err := json.Unmarshal(v.State, &entries); err != nil {
		var m map[string]any
		if err := json.Unmarshal(v.State, &m); err != nil {
			return fmt.Errorf("execution state is neither a list nor an object: %w", err)
		}
		for k, x := range m {
			entries = append(entries, stateEntry{Key: k, Value: x})
		}
	}
	for _, e := range entries {
		if f, ok := e.Value.(float64); ok {
			s.State[e.Key] = f
		}
	}
	return nil
}

// Get returns the named state value or zero.
func (s *ExecutionState) Get(key string) float64 {
	if s == nil || s.State == nil {
		return 0
	}
	return s.State[key]
}
