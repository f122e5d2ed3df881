package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/KamdynS/go-miro-mcp/miro"
	obs "github.com/KamdynS/go-miro-mcp/observability"
)

// Args is the loosely-typed parameter mapping a tool is invoked with.
type Args map[string]interface{}

// Tool defines the interface for agent tools
type Tool interface {
	// Name returns the tool's name for identification
	Name() string

	// Description returns a human-readable description of what the tool does
	Description() string

	// Execute runs the tool with the given arguments and returns the result text
	Execute(ctx context.Context, args Args) (string, error)

	// Schema returns the JSON schema for the tool's arguments
	Schema() map[string]interface{}
}

// Descriptor is the catalog entry of a registered tool.
type Descriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Schema      map[string]interface{} `json:"schema"`
}

// Registry manages the collection of tools exposed to agents
type Registry interface {
	// Register adds a tool to the registry
	Register(tool Tool) error

	// Get retrieves a tool by name
	Get(name string) (Tool, bool)

	// List returns all tool names in lexical order
	List() []string

	// Describe returns the catalog entries of all tools in lexical order
	Describe() []Descriptor

	// Execute runs a tool by name with the given arguments
	Execute(ctx context.Context, name string, args Args) (string, error)
}

// ErrUnknownOperation matches any UnknownOperationError via errors.Is.
var ErrUnknownOperation = errors.New("unknown operation")

// UnknownOperationError is returned when no tool is registered under Name.
type UnknownOperationError struct {
	Name string
}

func (e *UnknownOperationError) Error() string {
	return fmt.Sprintf("unknown operation: %s", e.Name)
}

func (e *UnknownOperationError) Is(target error) bool { return target == ErrUnknownOperation }

// Option configures a DefaultRegistry
type Option func(*DefaultRegistry)

// WithLogger sets the logger used for invocation logs
func WithLogger(l *logrus.Logger) Option {
	return func(r *DefaultRegistry) { r.log = l }
}

// DefaultRegistry is a simple in-memory tool registry
type DefaultRegistry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	log   *logrus.Logger
}

// NewRegistry creates a new DefaultRegistry
func NewRegistry(opts ...Option) *DefaultRegistry {
	r := &DefaultRegistry{
		tools: make(map[string]Tool),
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register implements Registry interface
func (r *DefaultRegistry) Register(tool Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Name()
	if name == "" {
		return errors.New("tool name is empty")
	}
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}

	r.tools[name] = tool
	return nil
}

// Get implements Registry interface
func (r *DefaultRegistry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, exists := r.tools[name]
	return tool, exists
}

// List implements Registry interface
func (r *DefaultRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe implements Registry interface
func (r *DefaultRegistry) Describe() []Descriptor {
	names := r.List()
	out := make([]Descriptor, 0, len(names))
	for _, name := range names {
		if t, ok := r.Get(name); ok {
			out = append(out, Descriptor{Name: t.Name(), Description: t.Description(), Schema: t.Schema()})
		}
	}
	return out
}

// Execute implements Registry interface
func (r *DefaultRegistry) Execute(ctx context.Context, name string, args Args) (string, error) {
	tool, exists := r.Get(name)
	if !exists {
		r.log.WithField("tool", name).Warn("unknown operation requested")
		obs.MetricsImpl.RecordError(ErrorKind(ErrUnknownOperation), map[string]string{obs.LabelTool: name})
		return "", &UnknownOperationError{Name: name}
	}
	if args == nil {
		args = Args{}
	}

	start := time.Now()
	span, ctx := obs.TracerImpl.StartSpan(ctx, "tool.execute")
	span.SetAttribute(obs.AttrToolName, name)
	if boardID, ok := args["boardId"].(string); ok {
		span.SetAttribute(obs.AttrBoardID, boardID)
	}
	defer span.End()

	result, err := tool.Execute(ctx, args)
	latency := time.Since(start)

	labels := map[string]string{obs.LabelTool: name, obs.LabelOutcome: "ok"}
	entry := r.log.WithFields(logrus.Fields{"tool": name, "duration": latency})
	if err != nil {
		kind := ErrorKind(err)
		labels[obs.LabelOutcome] = kind
		obs.MetricsImpl.IncrementRequests(labels)
		obs.MetricsImpl.RecordLatency(latency, labels)
		obs.MetricsImpl.RecordError(kind, labels)
		span.SetAttribute(obs.AttrErrorKind, kind)
		span.SetStatus(obs.StatusCodeError, err.Error())
		entry.WithError(err).WithField("kind", kind).Info("tool failed")
		return "", err
	}
	obs.MetricsImpl.IncrementRequests(labels)
	obs.MetricsImpl.RecordLatency(latency, labels)
	span.SetStatus(obs.StatusCodeOk, "")
	entry.Debug("tool executed")
	return result, nil
}

// ErrorKind classifies err for logs and metric labels.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrUnknownOperation):
		return "unknown_operation"
	case miro.IsValidation(err):
		return "validation"
	case errors.Is(err, miro.ErrUnauthorized):
		return "unauthorized"
	}
	if _, ok := miro.AsTransport(err); ok {
		return "transport"
	}
	return "error"
}
