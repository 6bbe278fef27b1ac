package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/termcp/internal/api/handlers"
	apmiddleware "github.com/matiasleandrokruk/termcp/internal/api/middleware"
	"github.com/matiasleandrokruk/termcp/internal/domain/resource"
	"github.com/matiasleandrokruk/termcp/internal/domain/tool"
)

// Deps are the services the router exposes. MCP is optional; when set it is
// mounted at /mcp.
type Deps struct {
	Registry  *tool.ToolRegistry
	Resources *resource.Accessor
	Telemetry *tool.Telemetry
	MCP       http.Handler
	Logger    zerolog.Logger
}

// NewRouter creates and configures a new chi router with all routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apmiddleware.RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	// Browsers may POST cross-site without a preflight; reject those before
	// anything can reach the terminal tool.
	r.Use(http.NewCrossOriginProtection().Handler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`)) //nolint:errcheck
	})

	if deps.MCP != nil {
		r.Handle("/mcp", deps.MCP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		toolHandler := handlers.NewToolHandler(deps.Registry, deps.Telemetry)
		r.Route("/tools", func(r chi.Router) {
			r.Get("/", toolHandler.ListTools)       // GET /api/v1/tools
			r.With(middleware.AllowContentType("application/json")).
				Post("/{name}", toolHandler.CallTool) // POST /api/v1/tools/{name}
		})
		r.Get("/stats", toolHandler.Stats) // GET /api/v1/stats

		if deps.Resources != nil {
			resourceHandler := handlers.NewResourceHandler(deps.Resources)
			r.Route("/resources", func(r chi.Router) {
				r.Get("/", resourceHandler.ListResources)    // GET /api/v1/resources
				r.Get("/read", resourceHandler.ReadResource) // GET /api/v1/resources/read?uri=
			})
		}
	})

	return r
}
