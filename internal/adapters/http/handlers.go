// Package httpadapter exposes the engine over a small JSON API, mirroring
// the endpoints of the original benchmark service.
package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"svw.info/gridgen/internal/domain"
	"svw.info/gridgen/internal/dzn"
	"svw.info/gridgen/internal/usecase"
)

type Handler struct {
	UC *usecase.Service
}

func New(uc *usecase.Service) *Handler { return &Handler{UC: uc} }

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", h.handleGenerate)
	mux.HandleFunc("/api/generate/stream", h.handleGenerateStream)
	mux.HandleFunc("/api/solve", h.handleSolve)
	mux.HandleFunc("/api/validate", h.handleValidate)
	mux.HandleFunc("/api/instances", h.handleInstances)
}

// ---- Generate ----

type generateReq struct {
	BlockSize int     `json:"blockSize"`
	Density   float64 `json:"density"`
	Seed      int64   `json:"seed,omitempty"`
}

type generateResp struct {
	Instance   *domain.Instance `json:"instance,omitempty"`
	DZN        string           `json:"dzn,omitempty"`
	Seed       int64            `json:"seed,omitempty"`
	DurationMs int64            `json:"durationMs,omitempty"`
	Nodes      int              `json:"nodes,omitempty"`
	Retries    int              `json:"retries,omitempty"`
	Error      string           `json:"error,omitempty"`
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(generateResp{Error: "invalid JSON: " + err.Error()})
		return
	}
	if req.Seed == 0 {
		req.Seed = time.Now().UnixNano()
	}
	inst, st, err := h.UC.Generate(r.Context(), req.BlockSize, req.Seed, req.Density)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidModel) || errors.Is(err, domain.ErrInvalidDensity) {
			status = http.StatusBadRequest
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(generateResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(generateResp{
		Instance:   inst,
		DZN:        string(dzn.Marshal(inst)),
		Seed:       req.Seed,
		DurationMs: st.Duration.Milliseconds(),
		Nodes:      st.Nodes,
		Retries:    st.Retries,
	})
}

// ---- Solve ----

type solveReq struct {
	DZN string `json:"dzn"`
}

type solveResp struct {
	Grid       *domain.Grid `json:"grid,omitempty"`
	DurationMs int64        `json:"durationMs,omitempty"`
	Nodes      int          `json:"nodes,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func (h *Handler) handleSolve(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	inst, ok := decodeInstance(w, r)
	if !ok {
		return
	}
	out, st, err := h.UC.Solve(r.Context(), inst)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(solveResp{Error: err.Error(), DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
		return
	}
	_ = json.NewEncoder(w).Encode(solveResp{Grid: out, DurationMs: st.Duration.Milliseconds(), Nodes: st.Nodes})
}

// ---- Validate ----

type validateResp struct {
	OK        bool               `json:"ok"`
	Conflicts []domain.CellCoord `json:"conflicts,omitempty"`
	Error     string             `json:"error,omitempty"`
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	inst, ok := decodeInstance(w, r)
	if !ok {
		return
	}
	valid, conflicts, err := h.UC.Validate(r.Context(), inst)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(validateResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(validateResp{OK: valid, Conflicts: conflicts})
}

// decodeInstance reads a {"dzn": "..."} body and parses the payload.
func decodeInstance(w http.ResponseWriter, r *http.Request) (*domain.Instance, bool) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.DZN == "" {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: "invalid JSON or missing dzn"})
		return nil, false
	}
	inst, err := dzn.ParseString(req.DZN)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(solveResp{Error: "invalid dzn: " + err.Error()})
		return nil, false
	}
	return inst, true
}

// ---- Instances ----

type listResp struct {
	Instances []domain.InstanceMeta `json:"instances"`
	Error     string                `json:"error,omitempty"`
}

func (h *Handler) handleInstances(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if r.Method != http.MethodGet {
		http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
		return
	}
	metas, err := h.UC.List(r.Context())
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(listResp{Error: err.Error()})
		return
	}
	_ = json.NewEncoder(w).Encode(listResp{Instances: metas})
}
