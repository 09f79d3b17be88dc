// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"encoding/json"
	"testing"
)

func TestPairJSON(t *testing.T) {
	var ps []Pair
	if err := json.Unmarshal([]byte(`[[1590624000000, 9507.5], [1590710400000.0, -1]]`), &ps); err != nil {
		t.Fatal(err)
	}
	if len(ps) != 2 {
		t.Fatalf("want 2 pairs, got %d", len(ps))
	}
	if ps[0].Time != 1590624000000 || ps[0].Value != 9507.5 {
		t.Fatalf("unexpected first pair %v", ps[0])
	}
	if ps[1].Time != 1590710400000 || ps[1].Value != -1 {
		t.Fatalf("unexpected second pair %v", ps[1])
	}

	data, err := json.Marshal(ps[0])
	if err != nil {
		t.Fatal(err)
	}
	if s := string(data); s != "[1590624000000,9507.5]" {
		t.Fatalf("want [1590624000000,9507.5], got %s", s)
	}

	var bad Pair
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &bad); err == nil {
		t.Fatalf("want error for three element pair")
	}
}

func TestExecutionStateListForm(t *testing.T) {
	data := `{"_id":"a","executionId":"b","date":"2020-05-28T00:00:00Z","state":[{"Key":"average","Value":10.5},{"Key":"currentPrice","Value":9000},{"Key":"label","Value":"x"}]}`
	var s ExecutionState
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		t.Fatal(err)
	}
	if v := s.Get("average"); v != 10.5 {
		t.Fatalf("want 10.5, got %v", v)
	}
	if v := s.Get("currentPrice"); v != 9000 {
		t.Fatalf("want 9000, got %v", v)
	}
	if _, ok := s.State["label"]; ok {
		t.Fatalf("non-numeric entries must be skipped")
	}
}

func TestExecutionStateObjectForm(t *testing.T) {
	var s ExecutionState
	if err := json.Unmarshal([]byte(`{"_id":"a","state":{"average":3}}`), &s); err != nil {
		t.Fatal(err)
	}
	if v := s.Get("average"); v != 3 {
		t.Fatalf("want 3, got %v", v)
	}

	var empty *ExecutionState
	if v := empty.Get("average"); v != 0 {
		t.Fatalf("want zero from nil state, got %v", v)
	}
}

func TestDateIDTime(t *testing.T) {
	var id DateID
	if err := json.Unmarshal([]byte(`{"day":28,"month":5,"year":2020}`), &id); err != nil {
		t.Fatal(err)
	}
	if v := id.UnixMilli(); v != 1590624000000 {
		t.Fatalf("want 1590624000000, got %d", v)
	}

	if err := json.Unmarshal([]byte(`{"day":28,"month":5,"year":2020,"hour":1,"minute":30}`), &id); err != nil {
		t.Fatal(err)
	}
	if v := id.UnixMilli(); v != 1590624000000+90*60*1000 {
		t.Fatalf("want hour/minute offset, got %d", v)
	}

	if err := (DateID{Year: 2020, Month: 13, Day: 1}).Check(); err == nil {
		t.Fatalf("want error for month 13")
	}
}

func TestBenchmarkInputCheck(t *testing.T) {
	in := &BenchmarkInput{
		AccountInitialAmount: 5000,
		DataSourceFilePath:   "btc/last-year-minute.csv",
		Asset:                "btc",
	}
	if err := in.Check(); err != nil {
		t.Fatal(err)
	}
	in.DecisionMakerOptions.GrowthDecreaseLimit = 10
	if err := in.Check(); err == nil {
		t.Fatalf("want error for positive decrease limit")
	}
}
