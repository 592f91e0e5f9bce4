package handler

import (
	"net/http"
	"slices"

	"github.com/yumyai/vogapi/pkg/handler/request"
	"github.com/yumyai/vogapi/pkg/model"
	"github.com/yumyai/vogapi/pkg/render"
)

// ListGroups serves GET /groups?description=&species=&stringency=.
func (dbctx *DBContext) ListGroups(w http.ResponseWriter, r *http.Request) {
	filter, err := request.GroupQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	groups, err := dbctx.DB.Groups()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, slices.AppendSeq(make([]model.Group, 0), groups.Find(filter)))
}

// GetGroup serves GET /groups/{id}.
func (dbctx *DBContext) GetGroup(w http.ResponseWriter, r *http.Request) {
	groups, err := dbctx.DB.Groups()
	if err != nil {
		writeError(w, r, err)
		return
	}

	g, err := groups.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, g)
}

// GetGroupProteins serves GET /groups/{id}/proteins from faa/<id>.faa.
func (dbctx *DBContext) GetGroupProteins(w http.ResponseWriter, r *http.Request) {
	dbctx.groupSequences(w, r, false)
}

// GetGroupAlignment serves GET /groups/{id}/alignment from raw_algs/<id>.msa.
func (dbctx *DBContext) GetGroupAlignment(w http.ResponseWriter, r *http.Request) {
	dbctx.groupSequences(w, r, true)
}

func (dbctx *DBContext) groupSequences(w http.ResponseWriter, r *http.Request, aligned bool) {
	format, err := request.FormatQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	groups, err := dbctx.DB.Groups()
	if err != nil {
		writeError(w, r, err)
		return
	}

	id := r.PathValue("id")
	var records []model.Sequence
	if aligned {
		records, err = groups.Alignment(id)
	} else {
		records, err = groups.Proteins(id)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeSequences(w, format, true, records...)
}
