package db

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/yumyai/vogapi/internal/util"
	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/model"
)

const (
	ProteinsFile = "vog.proteins.all.fa"
	GenesFile    = "vog.genes.all.fa"

	groupMembersDir   = "faa"
	groupMembersExt   = ".faa"
	groupAlignmentDir = "raw_algs"
	groupAlignmentExt = ".msa"
)

// SequenceDB serves records out of one bulk FASTA file and, for proteins,
// the per-group member and alignment files next to it.
//
// The bulk file is indexed (id -> byte span) on the first Get and kept open
// afterwards. Records are read back with positional reads so Get is safe
// for concurrent use.
type SequenceDB struct {
	Dir  string
	Kind string // "protein" or "gene", used in errors and logs

	bulkPath string
	perGroup bool

	once  sync.Once
	err   error
	file  *os.File
	spans map[string]span
	order []string
	count atomic.Int64
}

// NewProteinDB serves vog.proteins.all.fa plus faa/ and raw_algs/.
func NewProteinDB(dir string) *SequenceDB {
	return &SequenceDB{
		Dir:      dir,
		Kind:     "protein",
		bulkPath: filepath.Join(dir, ProteinsFile),
		perGroup: true,
	}
}

// NewGeneDB serves vog.genes.all.fa. There are no per-group gene files.
func NewGeneDB(dir string) *SequenceDB {
	return &SequenceDB{
		Dir:      dir,
		Kind:     "gene",
		bulkPath: filepath.Join(dir, GenesFile),
	}
}

// Build indexes the bulk file. It runs once; later calls return the first
// outcome.
func (seqdb *SequenceDB) Build() error {
	seqdb.once.Do(func() {
		seqdb.err = seqdb.build()
	})
	return seqdb.err
}

func (seqdb *SequenceDB) build() error {
	start := time.Now()

	fh, err := os.Open(seqdb.bulkPath)
	if err != nil {
		return fmt.Errorf("open %s fasta: %w", seqdb.Kind, err)
	}
	gz, err := isGzip(fh, seqdb.bulkPath)
	if err != nil {
		_ = fh.Close()
		return fmt.Errorf("read %s: %w", seqdb.bulkPath, err)
	}
	if gz {
		_ = fh.Close()
		return fmt.Errorf("%s: compressed fasta cannot be indexed, decompress it first", seqdb.bulkPath)
	}

	spans, order, err := indexFasta(fh)
	if err != nil {
		_ = fh.Close()
		return fmt.Errorf("index %s: %w", seqdb.bulkPath, err)
	}

	var size uint64
	if info, err := fh.Stat(); err == nil {
		size = uint64(info.Size())
	}

	seqdb.file = fh
	seqdb.spans = spans
	seqdb.order = order
	seqdb.count.Store(int64(len(spans)))

	logger.Info("Indexed sequences",
		zap.String("kind", seqdb.Kind),
		zap.String("file", seqdb.bulkPath),
		zap.Int("records", len(spans)),
		zap.String("size", humanize.Bytes(size)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Get returns the record with exactly this identifier.
func (seqdb *SequenceDB) Get(id string) (model.Sequence, error) {
	if err := seqdb.Build(); err != nil {
		return model.Sequence{}, err
	}

	sp, ok := seqdb.spans[id]
	if !ok {
		return model.Sequence{}, notFound(seqdb.Kind, id)
	}

	records, err := ParseFasta(io.NewSectionReader(seqdb.file, sp.offset, sp.length))
	if err != nil {
		return model.Sequence{}, fmt.Errorf("read %s %q: %w", seqdb.Kind, id, err)
	}
	if len(records) != 1 || records[0].ID != id {
		return model.Sequence{}, fmt.Errorf("read %s %q: index out of sync with %s", seqdb.Kind, id, seqdb.bulkPath)
	}
	return records[0], nil
}

// IDs lists indexed identifiers in file order.
func (seqdb *SequenceDB) IDs() ([]string, error) {
	if err := seqdb.Build(); err != nil {
		return nil, err
	}
	return seqdb.order, nil
}

// Len is the number of indexed records, zero before Build.
func (seqdb *SequenceDB) Len() int {
	return int(seqdb.count.Load())
}

// ListForGroup parses faa/<group>.faa. The file is read on every call.
func (seqdb *SequenceDB) ListForGroup(groupID string) ([]model.Sequence, error) {
	return seqdb.readGroupFile("group proteins", groupID, groupMembersDir, groupMembersExt)
}

// AlignmentForGroup parses raw_algs/<group>.msa. The file is read on every call.
func (seqdb *SequenceDB) AlignmentForGroup(groupID string) ([]model.Sequence, error) {
	return seqdb.readGroupFile("group alignment", groupID, groupAlignmentDir, groupAlignmentExt)
}

func (seqdb *SequenceDB) readGroupFile(kind, groupID, dir, ext string) ([]model.Sequence, error) {
	if !seqdb.perGroup || !util.SafeName(groupID) {
		return nil, notFound(kind, groupID)
	}

	path, ok := seqdb.groupFilePath(dir, groupID+ext)
	if !ok {
		return nil, notFound(kind, groupID)
	}

	rc, err := openFasta(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, notFound(kind, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer rc.Close()

	records, err := ParseFasta(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// groupFilePath prefers the plain file and falls back to a gzipped copy.
func (seqdb *SequenceDB) groupFilePath(dir, name string) (string, bool) {
	plain := filepath.Join(seqdb.Dir, dir, name)
	if util.FileExists(plain) {
		return plain, true
	}
	if util.FileExists(plain + ".gz") {
		return plain + ".gz", true
	}
	return "", false
}

// Close releases the bulk file handle. It waits for a Build in progress; a
// store closed before its first Build stays unusable.
func (seqdb *SequenceDB) Close() error {
	seqdb.once.Do(func() {
		seqdb.err = fmt.Errorf("%s store is closed", seqdb.Kind)
	})
	if seqdb.file == nil {
		return nil
	}
	return seqdb.file.Close()
}
