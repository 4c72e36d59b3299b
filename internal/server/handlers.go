package server

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// Handlers holds the HTTP request handlers for the summary API
type Handlers struct {
	controller *Controller
}

// NewHandlers creates the handler set for a controller
func NewHandlers(ctrl *Controller) *Handlers {
	return &Handlers{controller: ctrl}
}

// summaryResponse is the JSON shape of one stored summary
type summaryResponse struct {
	Series string             `json:"series"`
	Values map[string]float64 `json:"values"`
	Labels map[string]string  `json:"labels"`
}

// GetHealth reports service health
func (h *Handlers) GetHealth(w http.ResponseWriter, req *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

// GetSeries lists the series with stored summaries
func (h *Handlers) GetSeries(w http.ResponseWriter, req *http.Request) {
	names, err := h.controller.db.ListSeries()
	if err != nil {
		h.controller.logger.Errorf("error listing series: %v", err)
		http.Error(w, "error listing series", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	h.writeJSON(w, map[string][]string{"series": names})
}

// GetSummary returns the latest stored GxG summary for one series.
// Missing statistics are omitted from the values map.
func (h *Handlers) GetSummary(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)
	seriesName := vars["series"]

	fields, err := h.controller.db.GetSummary(seriesName)
	if err != nil {
		h.controller.logger.Errorf("error fetching summary for %s: %v", seriesName, err)
		http.Error(w, "error fetching summary", http.StatusInternalServerError)
		return
	}
	if len(fields) == 0 {
		http.Error(w, "series not found", http.StatusNotFound)
		return
	}

	resp := summaryResponse{
		Series: seriesName,
		Values: make(map[string]float64),
		Labels: make(map[string]string),
	}
	for _, f := range fields {
		switch {
		case f.Text.Valid:
			resp.Labels[f.Name] = f.Text.String
		case f.Value.Valid:
			resp.Values[f.Name] = f.Value.Float64
		}
	}

	h.writeJSON(w, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.controller.logger.Errorf("error encoding response: %v", err)
	}
}
