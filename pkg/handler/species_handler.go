package handler

import (
	"net/http"
	"slices"
	"strconv"

	vogdb "github.com/yumyai/vogapi/pkg/db"
	"github.com/yumyai/vogapi/pkg/handler/request"
	"github.com/yumyai/vogapi/pkg/model"
	"github.com/yumyai/vogapi/pkg/render"
)

// ListSpecies serves GET /species?name=&phage=.
func (dbctx *DBContext) ListSpecies(w http.ResponseWriter, r *http.Request) {
	filter, err := request.SpeciesQuery(r)
	if err != nil {
		badRequest(w, err)
		return
	}

	species, err := dbctx.DB.Species()
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.JSON(w, http.StatusOK, slices.AppendSeq(make([]model.Species, 0), species.Find(filter)))
}

// GetSpecies serves GET /species/{id}. An id that is not an integer cannot
// name any species, so it is a 404 rather than a 400.
func (dbctx *DBContext) GetSpecies(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, r, &vogdb.NotFoundError{Kind: "species", ID: raw})
		return
	}

	species, err := dbctx.DB.Species()
	if err != nil {
		writeError(w, r, err)
		return
	}

	s, err := species.Get(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, http.StatusOK, s)
}
