package db

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yumyai/vogapi/pkg/model"
)

func TestParseFasta(t *testing.T) {
	input := "garbage before the first header\n" +
		">seq1 first record\n" +
		"AC GT\n" +
		"  TT\t\n" +
		">seq2\n" +
		"\n" +
		"MK-L\n" +
		">seq3   spaced   description  \r\n" +
		"AAA\r\n"

	got, err := ParseFasta(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseFasta: %v", err)
	}

	want := []model.Sequence{
		{ID: "seq1", Seq: "ACGTTT", Description: "first record"},
		{ID: "seq2", Seq: "MK-L"},
		{ID: "seq3", Seq: "AAA", Description: "spaced   description"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseFastaEmpty(t *testing.T) {
	got, err := ParseFasta(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseFasta: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no records, got %+v", got)
	}
}

func TestSplitHeader(t *testing.T) {
	tests := []struct {
		line, id, desc string
	}{
		{">10.p1", "10.p1", ""},
		{">10.p1 capsid", "10.p1", "capsid"},
		{">10.p1\tcapsid protein ", "10.p1", "capsid protein"},
		{">", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			id, desc := splitHeader(tt.line)
			if id != tt.id || desc != tt.desc {
				t.Errorf("splitHeader(%q) = (%q, %q), want (%q, %q)", tt.line, id, desc, tt.id, tt.desc)
			}
		})
	}
}

func TestIndexFasta(t *testing.T) {
	input := ">a one\nAAAA\nCC\n>b\nGG\n>c\n"

	spans, order, err := indexFasta(strings.NewReader(input))
	if err != nil {
		t.Fatalf("indexFasta: %v", err)
	}

	if strings.Join(order, ",") != "a,b,c" {
		t.Errorf("order = %v", order)
	}
	for id, wantText := range map[string]string{
		"a": ">a one\nAAAA\nCC\n",
		"b": ">b\nGG\n",
		"c": ">c\n",
	} {
		sp := spans[id]
		if got := input[sp.offset : sp.offset+sp.length]; got != wantText {
			t.Errorf("span %s = %q, want %q", id, got, wantText)
		}
	}
}

func TestIndexFastaDuplicate(t *testing.T) {
	_, _, err := indexFasta(strings.NewReader(">a\nAA\n>a\nCC\n"))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestWriteFasta(t *testing.T) {
	records := []model.Sequence{
		{ID: "x", Description: "desc", Seq: strings.Repeat("A", 61)},
		{ID: "y", Seq: "MK"},
	}
	var buf bytes.Buffer
	if err := WriteFasta(&buf, records); err != nil {
		t.Fatalf("WriteFasta: %v", err)
	}

	want := ">x desc\n" + strings.Repeat("A", 60) + "\nA\n>y\nMK\n"
	if buf.String() != want {
		t.Errorf("WriteFasta = %q, want %q", buf.String(), want)
	}

	back, err := ParseFasta(&buf)
	if err != nil {
		t.Fatalf("ParseFasta: %v", err)
	}
	if len(back) != 2 || back[0] != records[0] || back[1] != records[1] {
		t.Errorf("re-parsed records differ: %+v", back)
	}
}
