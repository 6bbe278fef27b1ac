package tool

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/termcp/internal/infra/eventbus"
)

// ToolStats aggregates invocation events for one tool.
type ToolStats struct {
	Tool          string `json:"tool"`
	Invocations   int64  `json:"invocations"`
	Errors        int64  `json:"errors"`
	TotalDuration int64  `json:"total_duration_ms"`
}

// Telemetry consumes TopicToolInvoked events and keeps per-tool counters.
type Telemetry struct {
	mu     sync.Mutex
	stats  map[string]*ToolStats
	logger zerolog.Logger
}

func NewTelemetry(logger zerolog.Logger) *Telemetry {
	return &Telemetry{
		stats:  make(map[string]*ToolStats),
		logger: logger.With().Str("component", "telemetry").Logger(),
	}
}

// Run records events from bus until ctx is done.
func (t *Telemetry) Run(ctx context.Context, bus eventbus.EventBus) {
	eventbus.Consume(ctx, bus, TopicToolInvoked, func(evt eventbus.Event) {
		if inv, ok := evt.Payload.(InvocationEvent); ok {
			t.Record(inv)
		}
	})
}

func (t *Telemetry) Record(inv InvocationEvent) {
	t.mu.Lock()
	s, ok := t.stats[inv.Tool]
	if !ok {
		s = &ToolStats{Tool: inv.Tool}
		t.stats[inv.Tool] = s
	}
	s.Invocations++
	if inv.Err != nil {
		s.Errors++
	}
	s.TotalDuration += inv.Duration.Milliseconds()
	t.mu.Unlock()

	t.logger.Debug().
		Str("invocation_id", inv.InvocationID).
		Str("tool", inv.Tool).
		Bool("failed", inv.Err != nil).
		Msg("invocation recorded")
}

// Snapshot returns a copy of the counters sorted by tool name.
func (t *Telemetry) Snapshot() []ToolStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ToolStats, 0, len(t.stats))
	for _, s := range t.stats {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
	return out
}
