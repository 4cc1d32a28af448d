package main

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Name,Price",
		"Maize,0.42",
		"Soybean Meal, 0.68",
		"Wheat Bran,abc",
		"OnlyOneField",
		`"Fish Meal, dried",1.05`,
	}, "\n")

	records, err := parseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("parseCSV returned error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 usable rows, got %d: %+v", len(records), records)
	}
	if records[0].Name != "Maize" || records[0].PricePerKg != 0.42 {
		t.Fatalf("unexpected first record: %+v", records[0])
	}
	if records[2].Name != "Fish Meal, dried" || records[2].PricePerKg != 1.05 {
		t.Fatalf("unexpected quoted record: %+v", records[2])
	}
}

func TestParsePriceLines(t *testing.T) {
	t.Parallel()

	text := strings.Join([]string{
		"Supplier Price List (June)",
		"Maize  0.42",
		"Soybean Meal; 0,68",
		"Oyster Shell, 0.25",
		"Contact: sales@example.com",
		"",
	}, "\n")

	records := parsePriceLines(text)
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}
	if records[1].Name != "Soybean Meal" || records[1].PricePerKg != 0.68 {
		t.Fatalf("expected comma decimal to normalize, got %+v", records[1])
	}
}

func TestParsePrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"0.42", 0.42, true},
		{"0,68", 0.68, true},
		{" 1.00 ", 1.00, true},
		{"-1", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := parsePrice(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parsePrice(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}
