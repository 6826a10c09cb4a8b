package http

import (
	"net/http"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
	"github.com/MKhiriev/go-photo-sync/internal/utils"
)

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteJSON(w, healthResponse{Status: "ok", Version: h.info.BuildVersion()}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.health").Msg("error writing health response")
	}
}

func (h *Handler) version(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(h.info.String()))
}
