package config

import (
	"encoding/json"
	"net/http"

	coreconfig "neobio_balance/pkg/core/config"
	"neobio_balance/pkg/core/defaults"
)

type Response struct {
	Config         coreconfig.Config `json:"config"`
	DefaultsSource defaults.Source   `json:"defaults_source"`
	StoreBackend   string            `json:"store_backend"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config       coreconfig.Config
	StoreBackend string // "postgres", "file" or "disabled"
}

// NewHandler creates a new config handler
func NewHandler(cfg coreconfig.Config, storeBackend string) *Handler {
	return &Handler{
		Config:       cfg,
		StoreBackend: storeBackend,
	}
}

func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	source := defaults.SourceHardcoded
	if p := h.Config.Provider(); p != nil {
		source = p.Source()
	}

	resp := Response{
		Config:         h.Config,
		DefaultsSource: source,
		StoreBackend:   h.StoreBackend,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
