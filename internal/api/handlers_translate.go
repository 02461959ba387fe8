package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/brailledoc/internal/record"
)

const maxTranslateBody = 16 << 20

type translateRequest struct {
	Records json.RawMessage `json:"records"`
	Text    *string         `json:"text"`
}

type droppedEntry struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if s.translator == nil {
		jsonError(w, "braille engine unavailable", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxTranslateBody)
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var (
		recs []record.Structured
		bad  []*record.EntryError
	)
	switch {
	case len(req.Records) > 0:
		var err error
		recs, bad, err = record.DecodeStructured(req.Records)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	case req.Text != nil:
		recs = []record.Structured{{ID: "text", Content: *req.Text}}
	default:
		jsonError(w, "records or text is required", http.StatusBadRequest)
		return
	}

	out, failures := s.translator.Translate(recs)
	if out == nil {
		out = []record.Braille{}
	}

	dropped := make([]droppedEntry, 0, len(bad)+len(failures))
	for _, b := range bad {
		dropped = append(dropped, droppedEntry{ID: b.Name(), Error: b.Err.Error()})
	}
	for _, f := range failures {
		dropped = append(dropped, droppedEntry{ID: f.ID, Error: f.Err.Error()})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"records": out,
		"dropped": len(dropped),
		"errors":  dropped,
	})
}
