package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/brailledoc/internal/pipeline"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.stats.Extract == nil && s.stats.Translate == nil {
		jsonError(w, "stats unavailable", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]pipeline.StatsSnapshot{}
	if s.stats.Extract != nil {
		resp["extract"] = s.stats.Extract.Snapshot()
	}
	if s.stats.Translate != nil {
		resp["translate"] = s.stats.Translate.Snapshot()
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
