package handler

import (
	"net/http"

	vogdb "github.com/yumyai/vogapi/pkg/db"
	"github.com/yumyai/vogapi/pkg/handler/request"
	"github.com/yumyai/vogapi/pkg/model"
	"github.com/yumyai/vogapi/pkg/render"
)

// GetProtein serves GET /proteins/{id}.
func (dbctx *DBContext) GetProtein(w http.ResponseWriter, r *http.Request) {
	dbctx.getSequence(w, r, dbctx.DB.Proteins())
}

// GetGene serves GET /genes/{id}.
func (dbctx *DBContext) GetGene(w http.ResponseWriter, r *http.Request) {
	dbctx.getSequence(w, r, dbctx.DB.Genes())
}

func (dbctx *DBContext) getSequence(w http.ResponseWriter, r *http.Request, store *vogdb.SequenceDB) {
	format, err := request.FormatQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	rec, err := store.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSequences(w, format, false, rec)
}

// writeSequences renders one record as an object, or a list as an array.
func writeSequences(w http.ResponseWriter, format request.Format, list bool, records ...model.Sequence) {
	switch {
	case format == request.FormatFasta:
		render.Fasta(w, http.StatusOK, records...)
	case list:
		if records == nil {
			records = []model.Sequence{}
		}
		render.JSON(w, http.StatusOK, records)
	default:
		render.JSON(w, http.StatusOK, records[0])
	}
}
