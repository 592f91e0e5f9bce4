package model

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestDeriveSpecies(t *testing.T) {
	proteins := NewStringSet("10.p1", "10.p2", "20.p1")

	species := DeriveSpecies(proteins)

	if got, want := species.Sorted(), []string{"10", "20"}; !slices.Equal(got, want) {
		t.Fatalf("species = %v, want %v", got, want)
	}
	if !species.ContainsAll([]string{"10"}) {
		t.Errorf("expected species set to contain 10")
	}
	if species.ContainsAll([]string{"10", "30"}) {
		t.Errorf("subset test should fail when 30 is missing")
	}
}

func TestSpeciesOf(t *testing.T) {
	tests := []struct {
		protein string
		want    string
	}{
		{"10.p1", "10"},
		{"562.NP_415077.1", "562"},
		{"noseparator", "noseparator"},
		{".leading", ""},
	}
	for _, tt := range tests {
		t.Run(tt.protein, func(t *testing.T) {
			if got := SpeciesOf(tt.protein); got != tt.want {
				t.Errorf("SpeciesOf(%q) = %q, want %q", tt.protein, got, tt.want)
			}
		})
	}
}

func TestParseStringency(t *testing.T) {
	for _, raw := range []string{"low", "medium", "high"} {
		s, err := ParseStringency(raw)
		if err != nil {
			t.Fatalf("ParseStringency(%q): %v", raw, err)
		}
		if s.String() != raw {
			t.Errorf("round trip %q -> %q", raw, s.String())
		}
	}

	if _, err := ParseStringency("HIGH"); err == nil {
		t.Errorf("expected error for upper-case level")
	}
	if _, err := ParseStringency(""); err == nil {
		t.Errorf("expected error for empty level")
	}
}

func TestStringencyMatchesIndependentFlags(t *testing.T) {
	g := &Group{StringencyHigh: true, StringencyMedium: false, StringencyLow: false}

	if !StringencyHigh.Matches(g) {
		t.Errorf("high should match")
	}
	if StringencyMedium.Matches(g) || StringencyLow.Matches(g) {
		t.Errorf("high must not imply medium or low")
	}
}

func TestStringSetJSONIsSorted(t *testing.T) {
	g := Group{ID: "VOG0001", Proteins: NewStringSet("20.p1", "10.p2", "10.p1")}
	g.Species = DeriveSpecies(g.Proteins)

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Proteins []string `json:"proteins"`
		Species  []string `json:"species"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want := []string{"10.p1", "10.p2", "20.p1"}; !slices.Equal(decoded.Proteins, want) {
		t.Errorf("proteins = %v, want %v", decoded.Proteins, want)
	}
	if want := []string{"10", "20"}; !slices.Equal(decoded.Species, want) {
		t.Errorf("species = %v, want %v", decoded.Species, want)
	}
}
