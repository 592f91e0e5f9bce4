// Handler for miscellaneous endpoints such as health check

package handler

import (
	"net/http"
	"time"

	"github.com/yumyai/vogapi/pkg/render"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Version   string    `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Species   int       `json:"species"`
	Groups    int       `json:"groups"`
}

// HealthCheck reports row counts of the indices built so far. A lazily
// started server reports zero until the first query touches an index.
func (dbctx *DBContext) HealthCheck(w http.ResponseWriter, r *http.Request) {
	stats := dbctx.DB.Stats()
	render.JSON(w, http.StatusOK, HealthResponse{
		Health:    "ok",
		Version:   dbctx.Version,
		Timestamp: time.Now(),
		Species:   stats.Species,
		Groups:    stats.Groups,
	})
}
