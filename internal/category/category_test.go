package category_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/tally/internal/category"
)

func TestAll_Order(t *testing.T) {
	want := []category.Category{
		category.Housing,
		category.Transportation,
		category.Food,
		category.Shopping,
		category.Entertainment,
		category.Services,
		category.Income,
		category.Other,
	}

	assert.Equal(t, want, category.All())

	// Mutating the returned slice must not leak into later calls.
	got := category.All()
	got[0] = "Mutated"
	assert.Equal(t, category.Housing, category.All()[0])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   category.Category
		wantOK bool
	}{
		{name: "Canonical", input: "Shopping", want: category.Shopping, wantOK: true},
		{name: "Upper", input: "SHOPPING", want: category.Shopping, wantOK: true},
		{name: "Lower", input: "shopping", want: category.Shopping, wantOK: true},
		{name: "Whitespace", input: "  Food\n", want: category.Food, wantOK: true},
		{name: "Unknown", input: "Groceries", wantOK: false},
		{name: "Empty", input: "", wantOK: false},
		{name: "Sentence", input: "Category: Food", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := category.Parse(tt.input)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  category.Category
	}{
		{name: "ExactMatch", input: "Entertainment", want: category.Entertainment},
		{name: "ExactMatchCaseFolded", input: "iNcOmE", want: category.Income},
		{name: "RentInProse", input: "I think this might be related to rent payments", want: category.Housing},
		{name: "HousingInProse", input: "Probably Housing costs.", want: category.Housing},
		{name: "TransportInProse", input: "this looks like transport costs", want: category.Transportation},
		{name: "TransportationWithPunctuation", input: "Transportation.", want: category.Transportation},
		{name: "HousingBeatsTransport", input: "rent for the transport depot", want: category.Housing},
		{name: "Unrecognized", input: "Miscellaneous Stuff", want: category.Other},
		{name: "FoodProseHasNoRule", input: "This is food", want: category.Other},
		{name: "Empty", input: "", want: category.Other},
		{name: "NonASCII", input: "食べ物 🍔", want: category.Other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, category.Normalize(tt.input))
		})
	}
}

func TestNormalize_AlwaysValid(t *testing.T) {
	inputs := []string{
		"",
		" ",
		strings.Repeat("x", 100_000),
		"\x00\xff\xfe",
		"Ünïcödé",
		"OTHER",
		"rent",
	}

	for _, in := range inputs {
		assert.True(t, category.IsValid(category.Normalize(in)), "input %q", in)
	}
}

func TestIsValid(t *testing.T) {
	for _, c := range category.All() {
		assert.True(t, category.IsValid(c))
	}

	assert.False(t, category.IsValid("shopping"))
	assert.False(t, category.IsValid(""))
}
