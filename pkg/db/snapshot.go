package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const snapshotSchema = `
CREATE TABLE species (
	id      INTEGER PRIMARY KEY,
	name    TEXT NOT NULL,
	phage   INTEGER NOT NULL,
	source  TEXT NOT NULL,
	version INTEGER NOT NULL
);
CREATE TABLE vog_groups (
	id                TEXT PRIMARY KEY,
	description       TEXT NOT NULL,
	categories        TEXT NOT NULL,
	protein_count     INTEGER NOT NULL,
	species_count     INTEGER NOT NULL,
	genomes_in_group  INTEGER NOT NULL,
	genomes_total     INTEGER NOT NULL,
	ancestors         TEXT NOT NULL,
	stringency_high   INTEGER NOT NULL,
	stringency_medium INTEGER NOT NULL,
	stringency_low    INTEGER NOT NULL
);
CREATE TABLE group_proteins (
	group_id   TEXT NOT NULL REFERENCES vog_groups(id),
	protein_id TEXT NOT NULL,
	PRIMARY KEY (group_id, protein_id)
);
CREATE TABLE group_species (
	group_id   TEXT NOT NULL REFERENCES vog_groups(id),
	species_id TEXT NOT NULL,
	PRIMARY KEY (group_id, species_id)
);
CREATE INDEX group_species_by_species ON group_species(species_id);
`

// ExportSQLite writes the species and joined group tables into a new SQLite
// database at path. An existing file is refused unless overwrite is set.
func ExportSQLite(ctx context.Context, vdb *VogDB, path string, overwrite bool) error {
	start := time.Now()

	species, err := vdb.Species()
	if err != nil {
		return err
	}
	groups, err := vdb.Groups()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("%s already exists", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old snapshot: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return fmt.Errorf("create dirs: %w", err)
	}

	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer sqldb.Close()

	if _, err := sqldb.ExecContext(ctx, snapshotSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	tx, err := sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := insertSpecies(ctx, tx, species); err != nil {
		return err
	}
	if err := insertGroups(ctx, tx, groups); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	logger.Info("Exported snapshot",
		zap.String("path", path),
		zap.Int("species", species.Len()),
		zap.Int("groups", groups.Len()),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func insertSpecies(ctx context.Context, tx *sql.Tx, species *SpeciesTable) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO species (id, name, phage, source, version) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare species: %w", err)
	}
	defer stmt.Close()

	for s := range species.Find(SpeciesFilter{}) {
		if _, err := stmt.ExecContext(ctx, s.ID, s.Name, s.Phage, s.Source, s.Version); err != nil {
			return fmt.Errorf("insert species %d: %w", s.ID, err)
		}
	}
	return nil
}

func insertGroups(ctx context.Context, tx *sql.Tx, groups *GroupTable) error {
	groupStmt, err := tx.PrepareContext(ctx, `INSERT INTO vog_groups (
		id, description, categories, protein_count, species_count,
		genomes_in_group, genomes_total, ancestors,
		stringency_high, stringency_medium, stringency_low
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare vog_groups: %w", err)
	}
	defer groupStmt.Close()

	proteinStmt, err := tx.PrepareContext(ctx, `INSERT INTO group_proteins (group_id, protein_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare group_proteins: %w", err)
	}
	defer proteinStmt.Close()

	speciesStmt, err := tx.PrepareContext(ctx, `INSERT INTO group_species (group_id, species_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare group_species: %w", err)
	}
	defer speciesStmt.Close()

	for g := range groups.All() {
		if _, err := groupStmt.ExecContext(ctx,
			g.ID, g.Description, g.Categories, g.ProteinCount, g.SpeciesCount,
			g.GenomesInGroup, g.GenomesTotal, strings.Join(g.Ancestors, ";"),
			g.StringencyHigh, g.StringencyMedium, g.StringencyLow,
		); err != nil {
			return fmt.Errorf("insert group %s: %w", g.ID, err)
		}
		for _, p := range g.Proteins.Sorted() {
			if _, err := proteinStmt.ExecContext(ctx, g.ID, p); err != nil {
				return fmt.Errorf("insert protein %s of %s: %w", p, g.ID, err)
			}
		}
		for _, s := range g.Species.Sorted() {
			if _, err := speciesStmt.ExecContext(ctx, g.ID, s); err != nil {
				return fmt.Errorf("insert species %s of %s: %w", s, g.ID, err)
			}
		}
	}
	return nil
}
