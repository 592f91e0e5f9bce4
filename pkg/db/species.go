package db

import (
	"fmt"
	"iter"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/model"
)

const SpeciesFile = "vog.species.list"

var speciesColumns = []string{"name", "id", "phage", "source", "version"}

// SpeciesTable is the species listing keyed by taxon id. Rows keep the
// order of the source file.
type SpeciesTable struct {
	rows []model.Species
	byID map[int]int // id -> index into rows
}

// SpeciesFilter narrows Find. Nil fields do not filter.
type SpeciesFilter struct {
	Name  *string
	Phage *bool
}

func LoadSpecies(dir string) (*SpeciesTable, error) {
	start := time.Now()
	path := filepath.Join(dir, SpeciesFile)

	table := &SpeciesTable{byID: make(map[int]int)}
	err := readTable(path, speciesColumns, func(r *row) error {
		s := model.Species{
			Name:    r.Str(0),
			ID:      r.Int(1),
			Phage:   r.Str(2) == "phage",
			Source:  r.Str(3),
			Version: r.Int(4),
		}
		if err := r.Err(); err != nil {
			return err
		}
		if _, dup := table.byID[s.ID]; dup {
			return r.duplicate(1)
		}
		table.byID[s.ID] = len(table.rows)
		table.rows = append(table.rows, s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load species: %w", err)
	}

	logger.Info("Loaded species",
		zap.String("file", path),
		zap.Int("rows", len(table.rows)),
		zap.Duration("took", time.Since(start)),
	)
	return table, nil
}

func (t *SpeciesTable) Get(id int) (model.Species, error) {
	i, ok := t.byID[id]
	if !ok {
		return model.Species{}, notFound("species", strconv.Itoa(id))
	}
	return t.rows[i], nil
}

// Find yields species matching every supplied filter, in table order.
func (t *SpeciesTable) Find(f SpeciesFilter) iter.Seq[model.Species] {
	var needle string
	if f.Name != nil {
		needle = strings.ToLower(*f.Name)
	}

	return func(yield func(model.Species) bool) {
		for _, s := range t.rows {
			if f.Phage != nil && s.Phage != *f.Phage {
				continue
			}
			if f.Name != nil && !strings.Contains(strings.ToLower(s.Name), needle) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

func (t *SpeciesTable) Len() int {
	return len(t.rows)
}
