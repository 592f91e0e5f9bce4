package handler

// DI for all handlers.

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	vogdb "github.com/yumyai/vogapi/pkg/db"
	"github.com/yumyai/vogapi/pkg/middle"
	"github.com/yumyai/vogapi/pkg/render"
)

type DBContext struct {
	DB      *vogdb.VogDB
	Version string
}

// writeError maps not-found errors to 404 and anything else to a logged 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, vogdb.ErrNotFound) {
		render.Error(w, http.StatusNotFound, err.Error())
		return
	}
	middle.LoggerFrom(r.Context(), nil).Error("Request failed",
		zap.String("path", r.URL.EscapedPath()),
		zap.Error(err),
	)
	render.Error(w, http.StatusInternalServerError, "internal server error")
}

func badRequest(w http.ResponseWriter, err error) {
	render.Error(w, http.StatusBadRequest, err.Error())
}
