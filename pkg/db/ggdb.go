package db

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/yumyai/vogapi/internal/util"
	"github.com/yumyai/vogapi/logger"
)

// VogDB composes the species, group and sequence indices over one data
// directory. Each index is built at most once, on first access or by
// Preload, and reused for the life of the process.
type VogDB struct {
	Dir string

	proteins *SequenceDB
	genes    *SequenceDB

	speciesOnce sync.Once
	species     atomic.Pointer[SpeciesTable]
	speciesErr  error

	groupsOnce sync.Once
	groups     atomic.Pointer[GroupTable]
	groupsErr  error
}

// RequiredFiles are the files that must exist under the data directory.
var RequiredFiles = []string{
	SpeciesFile,
	MembersFile,
	AnnotationsFile,
	LCAFile,
	VirusOnlyFile,
	ProteinsFile,
	GenesFile,
}

func NewVogDB(dir string) (*VogDB, error) {
	if !util.DirExists(dir) {
		return nil, fmt.Errorf("data directory %s does not exist", dir)
	}

	var errs []error
	for _, name := range RequiredFiles {
		if !util.FileExists(filepath.Join(dir, name)) {
			errs = append(errs, fmt.Errorf("missing %s", filepath.Join(dir, name)))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &VogDB{
		Dir:      dir,
		proteins: NewProteinDB(dir),
		genes:    NewGeneDB(dir),
	}, nil
}

func (vdb *VogDB) Species() (*SpeciesTable, error) {
	vdb.speciesOnce.Do(func() {
		var t *SpeciesTable
		t, vdb.speciesErr = LoadSpecies(vdb.Dir)
		vdb.species.Store(t)
	})
	return vdb.species.Load(), vdb.speciesErr
}

func (vdb *VogDB) Groups() (*GroupTable, error) {
	vdb.groupsOnce.Do(func() {
		var t *GroupTable
		t, vdb.groupsErr = LoadGroups(vdb.Dir, vdb.proteins)
		vdb.groups.Store(t)
	})
	return vdb.groups.Load(), vdb.groupsErr
}

// Proteins is the protein store. Its bulk index is built on the first Get.
func (vdb *VogDB) Proteins() *SequenceDB {
	return vdb.proteins
}

// Genes is the gene store. Its bulk index is built on the first Get.
func (vdb *VogDB) Genes() *SequenceDB {
	return vdb.genes
}

// Preload builds every index concurrently and returns the first failure.
func (vdb *VogDB) Preload(ctx context.Context) error {
	start := time.Now()
	var g errgroup.Group

	g.Go(func() error {
		_, err := vdb.Species()
		return err
	})
	g.Go(func() error {
		_, err := vdb.Groups()
		return err
	})
	g.Go(vdb.proteins.Build)
	g.Go(vdb.genes.Build)

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		// Builds keep running in the background; their result is cached.
		return ctx.Err()
	}

	logger.Info("Preloaded indices", zap.Duration("took", time.Since(start)))
	return nil
}

// Stats counts loaded rows. Indices that are not built yet report zero.
type Stats struct {
	Species  int `json:"species"`
	Groups   int `json:"groups"`
	Proteins int `json:"proteins"`
	Genes    int `json:"genes"`
}

func (vdb *VogDB) Stats() Stats {
	var s Stats
	if t := vdb.species.Load(); t != nil {
		s.Species = t.Len()
	}
	if t := vdb.groups.Load(); t != nil {
		s.Groups = t.Len()
	}
	s.Proteins = vdb.proteins.Len()
	s.Genes = vdb.genes.Len()
	return s
}

func (vdb *VogDB) Close() error {
	return errors.Join(vdb.proteins.Close(), vdb.genes.Close())
}
