// Domain types served by the API. Everything here is loaded once and never
// mutated afterwards.

package model

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Sequence is a protein, gene or aligned record read from a FASTA file.
type Sequence struct {
	ID          string `json:"id"`
	Seq         string `json:"seq"`
	Description string `json:"description"`
}

type Species struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Phage   bool   `json:"phage"`
	Source  string `json:"source"`
	Version int    `json:"version"`
}

// Group is one orthologous group joined from the members, annotations, lca
// and virusonly tables.
//
// ProteinCount and SpeciesCount are the values declared by the source files.
// They are not reconciled with len(Proteins) or len(Species) and may differ.
type Group struct {
	ID               string    `json:"id"`
	Description      string    `json:"description"`
	Categories       string    `json:"categories"`
	ProteinCount     int       `json:"protein_count"`
	Proteins         StringSet `json:"proteins"`
	SpeciesCount     int       `json:"species_count"`
	Species          StringSet `json:"species"`
	GenomesInGroup   int       `json:"genomes_in_group"`
	GenomesTotal     int       `json:"genomes_total"`
	Ancestors        []string  `json:"ancestors"`
	StringencyHigh   bool      `json:"stringency_high"`
	StringencyMedium bool      `json:"stringency_medium"`
	StringencyLow    bool      `json:"stringency_low"`
}

// Clone returns a copy that shares no sets or slices with g.
func (g *Group) Clone() Group {
	c := *g
	c.Proteins = maps.Clone(g.Proteins)
	c.Species = maps.Clone(g.Species)
	c.Ancestors = slices.Clone(g.Ancestors)
	return c
}

// SpeciesOf returns the species id encoded in a protein id ("<species>.<protein>").
func SpeciesOf(proteinID string) string {
	species, _, _ := strings.Cut(proteinID, ".")
	return species
}

// DeriveSpecies builds the species set of a group from its protein ids.
func DeriveSpecies(proteins StringSet) StringSet {
	species := make(StringSet, len(proteins))
	for p := range proteins {
		species[SpeciesOf(p)] = struct{}{}
	}
	return species
}

// StringSet is an unordered set of identifiers. It marshals as a sorted
// array so responses are stable.
type StringSet map[string]struct{}

func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// ContainsAll is a subset test: every item must be present.
func (s StringSet) ContainsAll(items []string) bool {
	for _, it := range items {
		if !s.Has(it) {
			return false
		}
	}
	return true
}

func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*s = NewStringSet(items...)
	return nil
}

// Stringency selects one of the three independent virus-only flags of a group.
type Stringency int

const (
	StringencyLow Stringency = iota
	StringencyMedium
	StringencyHigh
)

func (s Stringency) String() string {
	switch s {
	case StringencyLow:
		return "low"
	case StringencyMedium:
		return "medium"
	case StringencyHigh:
		return "high"
	default:
		return fmt.Sprintf("Stringency(%d)", int(s))
	}
}

func ParseStringency(raw string) (Stringency, error) {
	switch raw {
	case "low":
		return StringencyLow, nil
	case "medium":
		return StringencyMedium, nil
	case "high":
		return StringencyHigh, nil
	default:
		return 0, fmt.Errorf("invalid stringency %q: want low, medium or high", raw)
	}
}

// Matches reports whether the group carries the flag for this level. The
// levels are not nested: high does not imply medium or low.
func (s Stringency) Matches(g *Group) bool {
	switch s {
	case StringencyLow:
		return g.StringencyLow
	case StringencyMedium:
		return g.StringencyMedium
	case StringencyHigh:
		return g.StringencyHigh
	default:
		return false
	}
}
