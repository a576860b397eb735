package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestComputeHandle(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	h1 := ComputeHandle(42, createdAt, "Opening Keynote Quiz")
	h2 := ComputeHandle(42, createdAt, "Opening Keynote Quiz")

	if h1 != h2 {
		t.Fatalf("handle not deterministic: %s vs %s", h1, h2)
	}
	if len(h1) != 12 {
		t.Fatalf("expected 12-char handle, got %d (%s)", len(h1), h1)
	}
	for _, c := range h1 {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			t.Fatalf("handle contains non-hex character %q in %s", c, h1)
		}
	}
}

func TestComputeHandleVariesByInput(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	base := ComputeHandle(42, createdAt, "Opening Keynote Quiz")

	if got := ComputeHandle(43, createdAt, "Opening Keynote Quiz"); got == base {
		t.Errorf("different id produced same handle %s", got)
	}
	if got := ComputeHandle(42, createdAt.Add(time.Second), "Opening Keynote Quiz"); got == base {
		t.Errorf("different timestamp produced same handle %s", got)
	}
	if got := ComputeHandle(42, createdAt, "Closing Keynote Quiz"); got == base {
		t.Errorf("different title produced same handle %s", got)
	}
}

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", ``, 0},
		{"null", `null`, 0},
		{"empty object", `{}`, 0},
		{"numeric time limit", `{"timeLimit": 30}`, 30},
		{"string time limit", `{"timeLimit": "45"}`, 45},
		{"double encoded", `"{\"timeLimit\": 20}"`, 20},
		{"unrelated keys", `{"shuffle": true}`, 0},
		{"garbage string time limit", `{"timeLimit": "soon"}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw json.RawMessage
			if tt.raw != "" {
				raw = json.RawMessage(tt.raw)
			}
			got := ParseSettings(raw)
			if got.TimeLimitMinutes != tt.want {
				t.Errorf("ParseSettings(%s).TimeLimitMinutes = %d, want %d", tt.raw, got.TimeLimitMinutes, tt.want)
			}
		})
	}
}

func TestFormCategoryValid(t *testing.T) {
	for _, c := range []FormCategory{FormCategoryQuiz, FormCategoryPoll, FormCategoryFeedback, FormCategoryAttendance} {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if FormCategory("survey").Valid() {
		t.Error("expected unknown category to be invalid")
	}
}

func TestAnswerSetValues(t *testing.T) {
	a := AnswerSet{
		"1": "Paris",
		"2": []interface{}{"Go", "Rust"},
		"3": float64(4),
	}

	if got := a.StringValue(1); got != "Paris" {
		t.Errorf("StringValue(1) = %q", got)
	}
	if got := a.StringValue(3); got != "4" {
		t.Errorf("StringValue(3) = %q, want 4", got)
	}
	if got := a.Values(2); len(got) != 2 || got[0] != "Go" || got[1] != "Rust" {
		t.Errorf("Values(2) = %v", got)
	}
	if a.Has(4) {
		t.Error("Has(4) = true for missing answer")
	}
	if got := a.Values(9); got != nil {
		t.Errorf("Values(9) = %v, want nil", got)
	}
}
