package db

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/yumyai/vogapi/internal/testutil"
	"github.com/yumyai/vogapi/pkg/model"
)

func TestSequenceDBGet(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)
	t.Cleanup(func() { proteins.Close() })

	if proteins.Len() != 0 {
		t.Fatalf("index should not be built before the first Get")
	}

	tests := []struct {
		id   string
		want model.Sequence
	}{
		{"10.p1", model.Sequence{ID: "10.p1", Seq: "MKVLAAGT", Description: "major capsid protein [Escherichia phage T4]"}},
		{"10.p2", model.Sequence{ID: "10.p2", Seq: "MSTNQ"}},
		{"20.p1", model.Sequence{ID: "20.p1", Seq: "MAAA", Description: "portal protein"}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, err := proteins.Get(tt.id)
			if err != nil {
				t.Fatalf("Get(%q): %v", tt.id, err)
			}
			if got != tt.want {
				t.Errorf("Get(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}

	if proteins.Len() != 3 {
		t.Errorf("Len = %d, want 3", proteins.Len())
	}

	_, err := proteins.Get("99.p1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want ErrNotFound", err)
	}
}

func TestSequenceDBGenes(t *testing.T) {
	dir := testutil.WriteDataset(t)
	genes := NewGeneDB(dir)
	t.Cleanup(func() { genes.Close() })

	got, err := genes.Get("10.p1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Seq != "ATGAAAGTT" || got.Description != "gp23" {
		t.Errorf("gene = %+v", got)
	}

	ids, err := genes.IDs()
	if err != nil {
		t.Fatalf("IDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "10.p1" || ids[1] != "20.p1" {
		t.Errorf("IDs = %v", ids)
	}

	if _, err := genes.ListForGroup("VOG0001"); !errors.Is(err, ErrNotFound) {
		t.Errorf("gene store has no per-group files, got %v", err)
	}
}

func TestSequenceDBConcurrentGet(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)
	t.Cleanup(func() { proteins.Close() })

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := proteins.Get("20.p1")
			if err != nil {
				errs <- err
				return
			}
			if rec.Seq != "MAAA" {
				errs <- errors.New("wrong sequence " + rec.Seq)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSequenceDBBuildMissingFile(t *testing.T) {
	proteins := NewProteinDB(t.TempDir())

	if err := proteins.Build(); err == nil {
		t.Fatalf("expected error for missing bulk file")
	}
	// The failure is remembered.
	if _, err := proteins.Get("10.p1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get after failed build = %v, want load error", err)
	}
}

func TestSequenceDBRejectsGzipBulk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ProteinsFile), []byte{0x1f, 0x8b, 0x08, 0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewProteinDB(dir).Build(); err == nil {
		t.Fatalf("expected error for compressed bulk file")
	}
}

func TestListForGroup(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)

	got, err := proteins.ListForGroup("VOG0001")
	if err != nil {
		t.Fatalf("ListForGroup: %v", err)
	}
	want := []model.Sequence{
		{ID: "10.p1", Seq: "MKVLAAGT", Description: "major capsid protein"},
		{ID: "10.p2", Seq: "MSTNQ"},
		{ID: "20.p1", Seq: "MAAA", Description: "portal protein"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListForGroupGzip(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)

	got, err := proteins.ListForGroup("VOG0002")
	if err != nil {
		t.Fatalf("ListForGroup: %v", err)
	}
	if len(got) != 2 || got[0].ID != "20.p2" || got[0].Description != "helicase" || got[1].Seq != "MRRR" {
		t.Errorf("records = %+v", got)
	}
}

func TestAlignmentForGroup(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)

	got, err := proteins.AlignmentForGroup("VOG0001")
	if err != nil {
		t.Fatalf("AlignmentForGroup: %v", err)
	}
	wantSeqs := []string{"MKVLAAGT", "MS--TN-Q", "MA--A-A-"}
	if len(got) != len(wantSeqs) {
		t.Fatalf("got %d records, want %d", len(got), len(wantSeqs))
	}
	for i, s := range wantSeqs {
		if got[i].Seq != s {
			t.Errorf("record %d seq = %q, want %q", i, got[i].Seq, s)
		}
	}
}

func TestGroupFilesNotFound(t *testing.T) {
	dir := testutil.WriteDataset(t)
	proteins := NewProteinDB(dir)

	for _, id := range []string{"VOG0003", "../vog.species.list", "", "faa/VOG0001"} {
		if _, err := proteins.ListForGroup(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListForGroup(%q) err = %v, want ErrNotFound", id, err)
		}
		if _, err := proteins.AlignmentForGroup(id); !errors.Is(err, ErrNotFound) {
			t.Errorf("AlignmentForGroup(%q) err = %v, want ErrNotFound", id, err)
		}
	}
}

func TestSequenceDBCloseBeforeBuild(t *testing.T) {
	proteins := NewProteinDB(testutil.WriteDataset(t))
	if err := proteins.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := proteins.Get("10.p1"); err == nil {
		t.Errorf("Get after Close should fail")
	}
}

func TestSequenceDBCloseDuringBuild(t *testing.T) {
	proteins := NewProteinDB(testutil.WriteDataset(t))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = proteins.Build()
	}()
	if err := proteins.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	wg.Wait()

	// Whichever ran first, no open handle is left behind.
	if proteins.file != nil {
		if err := proteins.file.Close(); !errors.Is(err, os.ErrClosed) {
			t.Errorf("bulk file still open after Close: %v", err)
		}
	}
}
