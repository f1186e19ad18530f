package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bittools/skyhub-importer/internal/importer"
)

// Handler is the manual import surface: an operator posts a store id and a
// newline-separated list of marketplace reference codes.
type Handler struct {
	runner *importer.Runner
	logger *slog.Logger
}

func NewHandler(runner *importer.Runner, logger *slog.Logger) *Handler {
	return &Handler{
		runner: runner,
		logger: logger,
	}
}

type importRequest struct {
	StoreID    int64  `json:"store_id"`
	References string `json:"references"`
}

type importResponse struct {
	Results []importer.Result `json:"results"`
}

func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	references := strings.Split(req.References, "\n")
	results := h.runner.Run(r.Context(), req.StoreID, references)

	successes := 0
	for _, result := range results {
		if result.Status == importer.ResultSuccess {
			successes++
		}
	}

	h.logger.Info("import batch finished", "store_id", req.StoreID, "references", len(references), "imported", successes)
	h.writeJSON(w, http.StatusOK, importResponse{Results: results})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
