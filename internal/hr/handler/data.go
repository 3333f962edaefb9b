package handler

import (
	"net/http"
	"time"

	"github.com/rh-insights/rh-insights-backend/internal/hr/domain"
	"github.com/rh-insights/rh-insights-backend/internal/hr/store"
	"github.com/rh-insights/rh-insights-backend/pkg/httputil"
	"github.com/rh-insights/rh-insights-backend/pkg/logger"
)

// DataHandler exposes the raw application blob for backup and restore.
type DataHandler struct {
	store  *store.Store
	logger *logger.Logger
}

func NewDataHandler(st *store.Store, log *logger.Logger) *DataHandler {
	return &DataHandler{store: st, logger: log}
}

// Get returns the full snapshot. The session field is never included.
func (h *DataHandler) Get(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, h.store.Snapshot())
}

// Replace overwrites the full snapshot with the posted blob. Used by
// the restore-from-backup flow.
func (h *DataHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var snap domain.Snapshot
	if err := httputil.DecodeJSON(r, &snap); err != nil {
		httputil.ErrorLocalized(w, r, err)
		return
	}
	snap.CurrentUser = nil

	h.store.Replace(snap)
	h.logger.Warn().Str("actor", httputil.GetUserEmail(r.Context())).Msg("snapshot replaced from upload")
	httputil.JSON(w, http.StatusOK, h.store.Snapshot())
}

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	httputil.JSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
