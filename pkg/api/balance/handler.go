package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	corebalance "neobio_balance/pkg/core/balance"
	"neobio_balance/pkg/core/config"
	"neobio_balance/pkg/core/defaults"
	"neobio_balance/pkg/core/format"
	"neobio_balance/pkg/core/report"
	"neobio_balance/pkg/core/store"
	"neobio_balance/pkg/core/utils"
)

const (
	maxBodyBytes   = 1 << 20
	maxUploadBytes = 10 << 20
	defaultListMax = 20
)

// Handler holds dependencies for balance endpoints
type Handler struct {
	Config   config.Config
	Provider defaults.Provider // nil means the hardcoded table
	Runs     *store.RunRepo    // nil disables run history
}

// NewHandler creates a new balance handler
func NewHandler(cfg config.Config, provider defaults.Provider, runs *store.RunRepo) *Handler {
	return &Handler{
		Config:   cfg,
		Provider: provider,
		Runs:     runs,
	}
}

type DefaultsResponse struct {
	Defaults    defaults.Defaults `json:"defaults"`
	PrecoEtanol float64           `json:"preco_etanol"`
	Source      defaults.Source   `json:"source"`
	Warning     string            `json:"warning,omitempty"`
}

type ComputeResponse struct {
	RunID     string             `json:"run_id,omitempty"`
	Source    defaults.Source    `json:"source"`
	Warning   string             `json:"warning,omitempty"`
	Inputs    corebalance.Inputs `json:"inputs"`
	Result    corebalance.Result `json:"result"`
	Formatted map[string]string  `json:"formatted"`
}

func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// preflight handles CORS and method checks; it returns false when the request is done.
func preflight(w http.ResponseWriter, r *http.Request, method string) bool {
	setCORS(w, method+", OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return false
	}
	if r.Method != method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		fmt.Printf("[BALANCE] Failed to encode response: %v\n", err)
	}
}

func warningText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// HandleDefaults returns the defaults the calculator starts from.
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodGet) {
		return
	}

	d, source, warn := defaults.Resolve(h.Provider)
	writeJSON(w, DefaultsResponse{
		Defaults:    d,
		PrecoEtanol: h.Config.Pricing.PrecoEtanol,
		Source:      source,
		Warning:     warningText(warn),
	})
}

// HandleUpload reads defaults from an uploaded workbook (multipart field "file").
// An unreadable workbook still answers 200 with the hardcoded table and a warning.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodPost) {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Missing workbook file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet := r.FormValue("sheet")
	if sheet == "" {
		sheet = h.Config.Defaults.Sheet
	}
	fmt.Printf("[BALANCE] Workbook upload: %s (%d bytes, sheet %q)\n", header.Filename, header.Size, sheet)

	d, source, warn := defaults.Resolve(defaults.NewWorkbookReaderProvider(file, sheet))
	writeJSON(w, DefaultsResponse{
		Defaults:    d,
		PrecoEtanol: h.Config.Pricing.PrecoEtanol,
		Source:      source,
		Warning:     warningText(warn),
	})
}

// balanceRequest is a decoded compute/report request.
type balanceRequest struct {
	Inputs  corebalance.Inputs
	Source  defaults.Source
	Warning error // defaults load failure, surfaced to the caller
}

// decodeInputs starts from the resolved defaults and overlays the request body.
func (h *Handler) decodeInputs(r *http.Request) (balanceRequest, error) {
	d, source, warn := defaults.Resolve(h.Provider)
	req := balanceRequest{
		Inputs:  d.Inputs(h.Config.Pricing.PrecoEtanol),
		Source:  source,
		Warning: warn,
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return req, fmt.Errorf("failed to read body: %w", err)
	}
	if strings.TrimSpace(string(body)) != "" {
		if _, err := utils.SmartParse(string(body), &req.Inputs); err != nil {
			return req, err
		}
	}
	if err := req.Inputs.Validate(); err != nil {
		return req, err
	}
	return req, nil
}

// HandleCompute evaluates the balance for the posted inputs.
// Fields missing from the body take the resolved defaults.
func (h *Handler) HandleCompute(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodPost) {
		return
	}

	req, err := h.decodeInputs(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := corebalance.Compute(req.Inputs)
	resp := ComputeResponse{
		Source:    req.Source,
		Warning:   warningText(req.Warning),
		Inputs:    req.Inputs,
		Result:    res,
		Formatted: format.Result(res),
	}

	if h.Runs != nil {
		run := store.NewRun(req.Inputs, res, req.Source, req.Warning)
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.Runs.Save(ctx, run); err != nil {
			fmt.Printf("[WARNING] Run not saved: %v\n", err)
		} else {
			resp.RunID = run.ID
		}
	}

	fmt.Printf("[BALANCE] Computed: Δ produção %.3f m³/dia, Δ receita %.2f R$/dia\n", res.DeltaProducao, res.DeltaReceita)
	writeJSON(w, resp)
}

// HandleReport renders the HTML report for the posted inputs.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodPost) {
		return
	}

	req, err := h.decodeInputs(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	html, err := report.New(req.Inputs, corebalance.Compute(req.Inputs), req.Source, req.Warning).HTML()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// HandleRuns lists saved runs, or returns one when ?id= is given.
func (h *Handler) HandleRuns(w http.ResponseWriter, r *http.Request) {
	if !preflight(w, r, http.MethodGet) {
		return
	}
	if h.Runs == nil {
		http.Error(w, "Run history is disabled", http.StatusNotFound)
		return
	}

	if id := r.URL.Query().Get("id"); id != "" {
		run, err := h.Runs.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrRunNotFound) {
				http.Error(w, fmt.Sprintf("Run not found: %s", id), http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, run)
		return
	}

	limit := defaultListMax
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := h.Runs.List(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []*store.Run{}
	}
	writeJSON(w, runs)
}

// Register mounts the balance endpoints on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/balance/defaults", h.HandleDefaults)
	mux.HandleFunc("/api/balance/defaults/upload", h.HandleUpload)
	mux.HandleFunc("/api/balance/compute", h.HandleCompute)
	mux.HandleFunc("/api/balance/report", h.HandleReport)
	mux.HandleFunc("/api/balance/runs", h.HandleRuns)
}
