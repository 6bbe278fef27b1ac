package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/matiasleandrokruk/termcp/internal/infra/eventbus"
)

var (
	ErrToolExecutorAlreadyRegistered = errors.New("tool executor already registered")
	ErrToolExecutorNotRegistered     = errors.New("tool executor not registered")
	ErrToolDefinitionInvalid         = errors.New("tool definition invalid")
	ErrToolValidationFailed          = errors.New("tool params validation failed")
)

// TopicToolInvoked is published on the event bus after every dispatch.
const TopicToolInvoked = "tool.invoked"

const defaultInputSchema = `{"type":"object","additionalProperties":false,"properties":{}}`

type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// InvocationEvent is the payload published under TopicToolInvoked.
type InvocationEvent struct {
	InvocationID string
	Tool         string
	Duration     time.Duration
	Err          error
}

type registeredTool struct {
	def      ToolDefinition
	schema   *jsonschema.Schema
	resolved *jsonschema.Resolved
	executor ToolExecutor
}

// ToolRegistry maps tool names to executors and their declared input schema.
// It is populated at startup and read at dispatch time.
type ToolRegistry struct {
	mu     sync.RWMutex
	tools  map[string]*registeredTool
	bus    eventbus.EventBus
	logger zerolog.Logger
}

func NewToolRegistry(bus eventbus.EventBus, logger zerolog.Logger) *ToolRegistry {
	return &ToolRegistry{
		tools:  make(map[string]*registeredTool),
		bus:    bus,
		logger: logger.With().Str("component", "tool_registry").Logger(),
	}
}

func (r *ToolRegistry) Register(def ToolDefinition, executor ToolExecutor) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" || executor == nil {
		return fmt.Errorf("%w: name and executor are required", ErrToolDefinitionInvalid)
	}
	if len(def.InputSchema) == 0 {
		def.InputSchema = json.RawMessage(defaultInputSchema)
	}

	schema, resolved, err := resolveSchema(def.InputSchema)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrToolDefinitionInvalid, def.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolExecutorAlreadyRegistered, def.Name)
	}
	r.tools[def.Name] = &registeredTool{def: def, schema: schema, resolved: resolved, executor: executor}
	return nil
}

func (r *ToolRegistry) Get(name string) (ToolExecutor, error) {
	t, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.executor, nil
}

// Schema returns the parsed input schema declared for name.
func (r *ToolRegistry) Schema(name string) (*jsonschema.Schema, error) {
	t, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.schema, nil
}

// List returns every registered definition sorted by name.
func (r *ToolRegistry) List() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ValidateParams checks params against the tool's declared schema.
func (r *ToolRegistry) ValidateParams(name string, params json.RawMessage) error {
	t, err := r.lookup(name)
	if err != nil {
		return err
	}
	return validateParams(t.resolved, params)
}

// Dispatch validates params, runs the named tool and returns its JSON result.
func (r *ToolRegistry) Dispatch(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	id := uuid.NewString()
	logger := r.logger.With().Str("invocation_id", id).Str("tool", name).Logger()
	ctx = logger.WithContext(ctx)
	started := time.Now()

	out, err := r.dispatch(ctx, name, params)

	elapsed := time.Since(started)
	evt := logger.Info()
	if err != nil {
		evt = logger.Warn().Err(err)
	}
	evt.Int64("duration_ms", elapsed.Milliseconds()).Msg("tool dispatched")

	if r.bus != nil {
		r.bus.Publish(TopicToolInvoked, InvocationEvent{InvocationID: id, Tool: name, Duration: elapsed, Err: err})
	}
	return out, err
}

func (r *ToolRegistry) dispatch(ctx context.Context, name string, params json.RawMessage) (json.RawMessage, error) {
	t, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	if len(params) == 0 || string(params) == "null" {
		params = json.RawMessage(`{}`)
	}
	if err := validateParams(t.resolved, params); err != nil {
		return nil, err
	}
	return t.executor.Execute(ctx, params)
}

func (r *ToolRegistry) lookup(name string) (*registeredTool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[strings.TrimSpace(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrToolExecutorNotRegistered, name)
	}
	return t, nil
}

func resolveSchema(raw json.RawMessage) (*jsonschema.Schema, *jsonschema.Resolved, error) {
	var schema jsonschema.Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return nil, nil, fmt.Errorf("input schema must be valid json: %w", err)
	}
	if schema.Type != "object" {
		return nil, nil, fmt.Errorf("input schema type must be object, got %q", schema.Type)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, nil, err
	}
	return &schema, resolved, nil
}

func validateParams(resolved *jsonschema.Resolved, params json.RawMessage) error {
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}
	var input map[string]any
	if err := json.Unmarshal(params, &input); err != nil || input == nil {
		return fmt.Errorf("%w: params must be a json object", ErrToolValidationFailed)
	}
	if err := resolved.Validate(input); err != nil {
		return fmt.Errorf("%w: %v", ErrToolValidationFailed, err)
	}
	return nil
}
