package render

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yumyai/vogapi/pkg/model"
)

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusOK, model.Species{ID: 5, Name: "Mimivirus", Source: "RefSeq", Version: 2})

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}

	var got model.Species
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != 5 || got.Name != "Mimivirus" || got.Phage {
		t.Errorf("decoded = %+v", got)
	}
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, http.StatusNotFound, `species "999" not found`)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	want := `{"error":"species \"999\" not found"}` + "\n"
	if rr.Body.String() != want {
		t.Errorf("body = %q, want %q", rr.Body.String(), want)
	}
}

func TestFasta(t *testing.T) {
	rr := httptest.NewRecorder()
	Fasta(rr, http.StatusOK,
		model.Sequence{ID: "10.p1", Description: "gp23", Seq: "MKVL"},
		model.Sequence{ID: "10.p2", Seq: "MSTNQ"},
	)

	if ct := rr.Header().Get("Content-Type"); ct != FastaContentType {
		t.Errorf("content type = %q", ct)
	}
	want := ">10.p1 gp23\nMKVL\n>10.p2\nMSTNQ\n"
	if rr.Body.String() != want {
		t.Errorf("body = %q, want %q", rr.Body.String(), want)
	}
}
