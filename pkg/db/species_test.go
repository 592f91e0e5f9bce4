package db

import (
	"errors"
	"slices"
	"testing"

	"github.com/yumyai/vogapi/internal/testutil"
	"github.com/yumyai/vogapi/pkg/model"
)

func loadTestSpecies(t *testing.T) *SpeciesTable {
	t.Helper()
	table, err := LoadSpecies(testutil.WriteDataset(t))
	if err != nil {
		t.Fatalf("LoadSpecies: %v", err)
	}
	return table
}

func speciesIDs(seq func(func(model.Species) bool)) []int {
	var ids []int
	for s := range seq {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSpeciesGet(t *testing.T) {
	table := loadTestSpecies(t)

	got, err := table.Get(5)
	if err != nil {
		t.Fatalf("Get(5): %v", err)
	}
	want := model.Species{ID: 5, Name: "Mimivirus", Phage: false, Source: "RefSeq", Version: 2}
	if got != want {
		t.Errorf("Get(5) = %+v, want %+v", got, want)
	}

	phage, err := table.Get(10)
	if err != nil {
		t.Fatalf("Get(10): %v", err)
	}
	if !phage.Phage {
		t.Errorf("species 10 should be flagged phage")
	}

	if _, err := table.Get(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(999) err = %v, want ErrNotFound", err)
	}
}

func TestSpeciesFind(t *testing.T) {
	table := loadTestSpecies(t)
	yes, no := true, false
	mimi, upperPhage, nothing := "mimi", "PHAGE", "zzz"

	tests := []struct {
		name   string
		filter SpeciesFilter
		want   []int
	}{
		{"no filters keeps table order", SpeciesFilter{}, []int{5, 10, 20, 30}},
		{"name is case-insensitive substring", SpeciesFilter{Name: &mimi}, []int{5, 30}},
		{"phage true", SpeciesFilter{Phage: &yes}, []int{10, 20}},
		{"phage false", SpeciesFilter{Phage: &no}, []int{5, 30}},
		{"name and phage intersect", SpeciesFilter{Name: &upperPhage, Phage: &yes}, []int{10, 20}},
		{"name and phage disjoint", SpeciesFilter{Name: &mimi, Phage: &yes}, nil},
		{"no match", SpeciesFilter{Name: &nothing}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := speciesIDs(table.Find(tt.filter)); !slices.Equal(got, tt.want) {
				t.Errorf("Find = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpeciesFindStopsEarly(t *testing.T) {
	table := loadTestSpecies(t)

	var seen int
	for range table.Find(SpeciesFilter{}) {
		seen++
		break
	}
	if seen != 1 {
		t.Errorf("seen = %d, want 1", seen)
	}
}

func TestLoadSpeciesMalformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"non-integer id", "#h\th\th\th\th\nMimivirus\tfive\tphage\tRefSeq\t2\n"},
		{"non-integer version", "#h\th\th\th\th\nMimivirus\t5\tphage\tRefSeq\tv2\n"},
		{"missing column", "#h\th\th\th\th\nMimivirus\t5\tphage\tRefSeq\n"},
		{"duplicate id", "#h\th\th\th\th\nA\t5\tphage\tRefSeq\t1\nB\t5\tphage\tRefSeq\t1\n"},
		{"empty file", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.WriteDataset(t)
			testutil.Overwrite(t, dir, SpeciesFile, tt.content)

			_, err := LoadSpecies(dir)
			if err == nil {
				t.Fatalf("expected error")
			}
			var terr *TableError
			if !errors.As(err, &terr) {
				t.Errorf("expected *TableError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadSpeciesQuotedName(t *testing.T) {
	dir := testutil.WriteDataset(t)
	testutil.Overwrite(t, dir, SpeciesFile,
		"#SpeciesName\tTaxonID\tPhage/Nonphage\tSource\tVersion\n"+
			"\"Mimivirus\" strain A\t5\tnonphage\tRefSeq\t2\n"+
			"Escherichia phage T4\t10\tphage\tRefSeq\t1\n"+
			"Enterobacteria phage lambda\t20\tphage\tGenBank\t3\n")

	table, err := LoadSpecies(dir)
	if err != nil {
		t.Fatalf("LoadSpecies: %v", err)
	}
	if table.Len() != 3 {
		t.Fatalf("Len = %d, want 3", table.Len())
	}

	got, err := table.Get(5)
	if err != nil {
		t.Fatalf("Get(5): %v", err)
	}
	if got.Name != `"Mimivirus" strain A` {
		t.Errorf("name = %q", got.Name)
	}
	if _, err := table.Get(20); err != nil {
		t.Errorf("row after the quoted name was lost: %v", err)
	}
}

func TestLoadSpeciesCRLF(t *testing.T) {
	dir := testutil.WriteDataset(t)
	testutil.Overwrite(t, dir, SpeciesFile,
		"#SpeciesName\tTaxonID\tPhage/Nonphage\tSource\tVersion\r\n"+
			"Mimivirus\t5\tnonphage\tRefSeq\t2\r\n")

	table, err := LoadSpecies(dir)
	if err != nil {
		t.Fatalf("LoadSpecies: %v", err)
	}
	if got, err := table.Get(5); err != nil || got.Version != 2 {
		t.Errorf("Get(5) = %+v, %v", got, err)
	}
}
