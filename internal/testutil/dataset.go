// Package testutil writes a miniature VOG data directory for package tests.
package testutil

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

// Visible groups after the join are VOG0001, VOG0002 and VOG0003.
// VOG0004 has no lca row, VOG0005 no annotation, VOG0006 no virusonly row.
var Files = map[string]string{
	"vog.species.list": "#SpeciesName\tTaxonID\tPhage/Nonphage\tSource\tVersion\n" +
		"Mimivirus\t5\tnonphage\tRefSeq\t2\n" +
		"Escherichia phage T4\t10\tphage\tRefSeq\t1\n" +
		"Enterobacteria phage lambda\t20\tphage\tGenBank\t3\n" +
		"Acanthamoeba polyphaga mimivirus\t30\tnonphage\tRefSeq\t1\n",

	"vog.members.tsv": "#GroupName\tProteinCount\tSpeciesCount\tFunctionalCategory\tProteinIDs\n" +
		"VOG0001\t3\t2\tXrXs\t10.p1,10.p2,20.p1\n" +
		"VOG0002\t2\t2\tXr\t20.p2,30.p1\n" +
		"VOG0003\t5\t9\tXh\t10.p3\n" +
		"VOG0004\t1\t1\tXu\t30.p2\n" +
		"VOG0005\t1\t1\tXu\t5.p1\n" +
		"VOG0006\t1\t1\tXu\t5.p2\n",

	"vog.annotations.tsv": "#GroupName\tProteinCount\tSpeciesCount\tFunctionalCategory\tConsensusFunctionalDescription\n" +
		"VOG0001\t3\t2\tXrXs\tMajor capsid protein\n" +
		"VOG0002\t2\t2\tXr\tDNA polymerase\n" +
		"VOG0003\t5\t9\tXh\tCapsid assembly scaffolding\n" +
		"VOG0004\t1\t1\tXu\ttail fiber\n" +
		"VOG0006\t1\t1\tXu\tterminase large subunit\n",

	"vog.lca.tsv": "#GroupName\tGenomesInGroup\tGenomesTotal\tAncestors\n" +
		"VOG0001\t2\t4\tViruses;Caudovirales;Myoviridae\n" +
		"VOG0002\t2\t4\tViruses\n" +
		"VOG0003\t1\t4\t\n" +
		"VOG0005\t1\t4\tViruses\n" +
		"VOG0006\t1\t4\tViruses\n",

	"vog.virusonly.tsv": "#GroupName\tStringencyHigh\tStringencyMedium\tStringencyLow\n" +
		"VOG0001\tTrue\tFalse\tTrue\n" +
		"VOG0002\tFalse\tTrue\tFalse\n" +
		"VOG0003\tTrue\tTrue\tTrue\n" +
		"VOG0004\tTrue\tTrue\tTrue\n" +
		"VOG0005\tFalse\tFalse\tTrue\n",

	"vog.proteins.all.fa": ">10.p1 major capsid protein [Escherichia phage T4]\n" +
		"MKVL\n" +
		"AAGT\n" +
		">10.p2\n" +
		"MSTN Q\n" +
		">20.p1  portal protein\n" +
		"MAAA\n" +
		"\n",

	"vog.genes.all.fa": ">10.p1 gp23\n" +
		"ATGAAA\n" +
		"GTT\n" +
		">20.p1\n" +
		"ATGGCC\n",

	"faa/VOG0001.faa": ">10.p1 major capsid protein\n" +
		"MKVL\n" +
		"AAGT\n" +
		">10.p2\n" +
		"MSTN\tQ\n" +
		">20.p1 portal protein\n" +
		"MAAA\n",

	"raw_algs/VOG0001.msa": ">10.p1\n" +
		"MKVLAAGT\n" +
		">10.p2\n" +
		"MS--TN-Q\n" +
		">20.p1\n" +
		"MA--A-A-\n",
}

// GzipFiles are written compressed, under the name plus ".gz".
var GzipFiles = map[string]string{
	"faa/VOG0002.faa": ">20.p2 helicase\n" +
		"MQQQ\n" +
		">30.p1\n" +
		"MRRR\n",
}

// WriteDataset materializes Files and GzipFiles into a fresh temp directory.
func WriteDataset(tb testing.TB) string {
	tb.Helper()
	dir := tb.TempDir()
	for name, content := range Files {
		writeFile(tb, filepath.Join(dir, name), []byte(content))
	}
	for name, content := range GzipFiles {
		var buf bytes.Buffer
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write([]byte(content)); err != nil {
			tb.Fatalf("gzip %s: %v", name, err)
		}
		if err := zw.Close(); err != nil {
			tb.Fatalf("gzip %s: %v", name, err)
		}
		writeFile(tb, filepath.Join(dir, name+".gz"), buf.Bytes())
	}
	return dir
}

// Overwrite replaces one file of an existing dataset directory.
func Overwrite(tb testing.TB, dir, name, content string) {
	tb.Helper()
	writeFile(tb, filepath.Join(dir, name), []byte(content))
}

func writeFile(tb testing.TB, path string, content []byte) {
	tb.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		tb.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
}
