package handlers

import (
	"net/http"

	"github.com/matiasleandrokruk/termcp/internal/domain/resource"
)

type ResourceHandler struct {
	accessor *resource.Accessor
}

func NewResourceHandler(accessor *resource.Accessor) *ResourceHandler {
	return &ResourceHandler{accessor: accessor}
}

type resourceContentResponse struct {
	URI      string `json:"uri"`
	MIMEType string `json:"mimeType"`
	Text     string `json:"text"`
}

func (h *ResourceHandler) ListResources(w http.ResponseWriter, _ *http.Request) {
	defs := h.accessor.Resources()
	writeList(w, defs, len(defs))
}

// ReadResource reads the resource named by the uri query parameter.
func (h *ResourceHandler) ReadResource(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	if uri == "" {
		writeError(w, http.StatusBadRequest, "uri is required")
		return
	}

	text, err := h.accessor.Read(r.Context(), uri)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	mimeType := "text/plain"
	for _, def := range h.accessor.Resources() {
		if def.URI == uri {
			mimeType = def.MIMEType
		}
	}
	writeJSON(w, http.StatusOK, map[string]resourceContentResponse{
		"data": {URI: uri, MIMEType: mimeType, Text: text},
	})
}
