package db

import (
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/model"
)

const (
	MembersFile     = "vog.members.tsv"
	AnnotationsFile = "vog.annotations.tsv"
	LCAFile         = "vog.lca.tsv"
	VirusOnlyFile   = "vog.virusonly.tsv"
)

var (
	membersColumns     = []string{"group", "protein_count", "species_count", "categories", "proteins"}
	annotationsColumns = []string{"group", "protein_count", "species_count", "categories", "description"}
	lcaColumns         = []string{"group", "genomes_in_group", "genomes_total", "ancestors"}
	virusOnlyColumns   = []string{"group", "stringency_high", "stringency_medium", "stringency_low"}
)

// Per-source rows before the join.
type (
	membersRow struct {
		proteinCount int
		speciesCount int
		categories   string
		proteins     model.StringSet
	}
	lcaRow struct {
		genomesInGroup int
		genomesTotal   int
		ancestors      []string
	}
	virusOnlyRow struct {
		high, medium, low bool
	}
)

// GroupTable is the inner join of the four group tables on group id, in the
// row order of the members table. Groups missing from any of the sources
// are dropped.
type GroupTable struct {
	rows     []*model.Group
	byID     map[string]int
	proteins *SequenceDB
}

// GroupFilter narrows Find. Nil or empty fields do not filter.
type GroupFilter struct {
	Description *string
	Species     []string
	Stringency  *model.Stringency
}

// LoadGroups reads and joins the group tables under dir. proteins serves
// the per-group sequence files.
func LoadGroups(dir string, proteins *SequenceDB) (*GroupTable, error) {
	start := time.Now()

	memberIDs, members, err := loadMembers(filepath.Join(dir, MembersFile))
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	descriptions, err := loadAnnotations(filepath.Join(dir, AnnotationsFile))
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	lca, err := loadLCA(filepath.Join(dir, LCAFile))
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}
	virusOnly, err := loadVirusOnly(filepath.Join(dir, VirusOnlyFile))
	if err != nil {
		return nil, fmt.Errorf("load groups: %w", err)
	}

	table := joinGroups(memberIDs, members, descriptions, lca, virusOnly)
	table.proteins = proteins

	if dropped := len(memberIDs) - len(table.rows); dropped > 0 {
		logger.Warn("Groups missing from annotation, lca or virusonly tables were dropped",
			zap.Int("dropped", dropped))
	}
	logger.Info("Loaded groups",
		zap.String("dir", dir),
		zap.Int("rows", len(table.rows)),
		zap.Duration("took", time.Since(start)),
	)
	return table, nil
}

// joinGroups probes every members row against the other three sources.
func joinGroups(
	order []string,
	members map[string]membersRow,
	descriptions map[string]string,
	lca map[string]lcaRow,
	virusOnly map[string]virusOnlyRow,
) *GroupTable {
	table := &GroupTable{
		rows: make([]*model.Group, 0, len(order)),
		byID: make(map[string]int, len(order)),
	}

	for _, id := range order {
		m := members[id]
		desc, ok := descriptions[id]
		if !ok {
			continue
		}
		l, ok := lca[id]
		if !ok {
			continue
		}
		v, ok := virusOnly[id]
		if !ok {
			continue
		}

		table.byID[id] = len(table.rows)
		table.rows = append(table.rows, &model.Group{
			ID:               id,
			Description:      desc,
			Categories:       m.categories,
			ProteinCount:     m.proteinCount,
			Proteins:         m.proteins,
			SpeciesCount:     m.speciesCount,
			Species:          model.DeriveSpecies(m.proteins),
			GenomesInGroup:   l.genomesInGroup,
			GenomesTotal:     l.genomesTotal,
			Ancestors:        l.ancestors,
			StringencyHigh:   v.high,
			StringencyMedium: v.medium,
			StringencyLow:    v.low,
		})
	}
	return table
}

func loadMembers(path string) ([]string, map[string]membersRow, error) {
	var order []string
	out := make(map[string]membersRow)

	err := readTable(path, membersColumns, func(r *row) error {
		id := r.Str(0)
		m := membersRow{
			proteinCount: r.Int(1),
			speciesCount: r.Int(2),
			categories:   r.Str(3),
			proteins:     model.NewStringSet(strings.Split(r.Str(4), ",")...),
		}
		if err := r.Err(); err != nil {
			return err
		}
		if _, dup := out[id]; dup {
			return r.duplicate(0)
		}
		out[id] = m
		order = append(order, id)
		return nil
	})
	return order, out, err
}

func loadAnnotations(path string) (map[string]string, error) {
	out := make(map[string]string)
	err := readTable(path, annotationsColumns, func(r *row) error {
		id := r.Str(0)
		if _, dup := out[id]; dup {
			return r.duplicate(0)
		}
		out[id] = r.Str(4)
		return nil
	})
	return out, err
}

func loadLCA(path string) (map[string]lcaRow, error) {
	out := make(map[string]lcaRow)
	err := readTable(path, lcaColumns, func(r *row) error {
		id := r.Str(0)
		l := lcaRow{
			genomesInGroup: r.Int(1),
			genomesTotal:   r.Int(2),
			// An empty field splits into [""]; consumers rely on that shape.
			ancestors: strings.Split(r.Str(3), ";"),
		}
		if err := r.Err(); err != nil {
			return err
		}
		if _, dup := out[id]; dup {
			return r.duplicate(0)
		}
		out[id] = l
		return nil
	})
	return out, err
}

func loadVirusOnly(path string) (map[string]virusOnlyRow, error) {
	out := make(map[string]virusOnlyRow)
	err := readTable(path, virusOnlyColumns, func(r *row) error {
		id := r.Str(0)
		v := virusOnlyRow{
			high:   r.Bool(1),
			medium: r.Bool(2),
			low:    r.Bool(3),
		}
		if err := r.Err(); err != nil {
			return err
		}
		if _, dup := out[id]; dup {
			return r.duplicate(0)
		}
		out[id] = v
		return nil
	})
	return out, err
}

func (t *GroupTable) Get(id string) (model.Group, error) {
	i, ok := t.byID[id]
	if !ok {
		return model.Group{}, notFound("group", id)
	}
	return t.rows[i].Clone(), nil
}

// Find yields groups matching every supplied filter, in members table order.
// Like Get, it hands out copies; the table itself is never exposed.
func (t *GroupTable) Find(f GroupFilter) iter.Seq[model.Group] {
	var needle string
	if f.Description != nil {
		needle = strings.ToLower(*f.Description)
	}

	return func(yield func(model.Group) bool) {
		for _, g := range t.rows {
			if f.Description != nil && !strings.Contains(strings.ToLower(g.Description), needle) {
				continue
			}
			if len(f.Species) > 0 && !g.Species.ContainsAll(f.Species) {
				continue
			}
			if f.Stringency != nil && !f.Stringency.Matches(g) {
				continue
			}
			if !yield(g.Clone()) {
				return
			}
		}
	}
}

// Proteins returns the member sequences of a group from faa/<id>.faa.
func (t *GroupTable) Proteins(id string) ([]model.Sequence, error) {
	return t.proteins.ListForGroup(id)
}

// Alignment returns the aligned member sequences from raw_algs/<id>.msa.
func (t *GroupTable) Alignment(id string) ([]model.Sequence, error) {
	return t.proteins.AlignmentForGroup(id)
}

func (t *GroupTable) Len() int {
	return len(t.rows)
}

// All yields every joined group in table order.
func (t *GroupTable) All() iter.Seq[model.Group] {
	return t.Find(GroupFilter{})
}
