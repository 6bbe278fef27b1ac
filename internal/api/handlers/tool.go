package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matiasleandrokruk/termcp/internal/domain/tool"
)

type ToolHandler struct {
	registry  *tool.ToolRegistry
	telemetry *tool.Telemetry
}

func NewToolHandler(registry *tool.ToolRegistry, telemetry *tool.Telemetry) *ToolHandler {
	return &ToolHandler{registry: registry, telemetry: telemetry}
}

type toolResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

func (h *ToolHandler) ListTools(w http.ResponseWriter, _ *http.Request) {
	defs := h.registry.List()
	out := make([]toolResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, toolResponse{Name: def.Name, Description: def.Description, InputSchema: def.InputSchema})
	}
	writeList(w, out, len(out))
}

// CallTool dispatches the JSON object in the request body to the named tool
// and returns the tool's result under "data".
func (h *ToolHandler) CallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := h.registry.Dispatch(r.Context(), name, body)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"data": out})
}

func (h *ToolHandler) Stats(w http.ResponseWriter, _ *http.Request) {
	if h.telemetry == nil {
		writeList(w, []tool.ToolStats{}, 0)
		return
	}
	stats := h.telemetry.Snapshot()
	writeList(w, stats, len(stats))
}
