package http

import (
	"net/http"

	"github.com/MKhiriev/go-session-gate/internal/logger"
	"github.com/MKhiriev/go-session-gate/internal/utils"
	"github.com/MKhiriev/go-session-gate/models"
)

type dashboardResponse struct {
	User    *models.User        `json:"user"`
	Display models.DisplayState `json:"display"`
}

// dashboard renders the signed-in landing state: the session user plus the
// current display name resolution. RequireAuth has already admitted the
// request, so the user is expected to be present.
func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	user, err := h.sessions.CurrentUser()
	if err != nil {
		log.Err(err).Msg("session state unavailable")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, dashboardResponse{
		User:    user,
		Display: h.names.Display(),
	}, http.StatusOK)
}
