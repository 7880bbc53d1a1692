package catalyst

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Module provides the catalyst generation service. It holds no state
// beyond the generator and is safe for concurrent requests.
type Module struct {
	generator *Generator
	live      bool
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.ServiceProviderModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a Module backed by OpenAI when OPENAI_API_KEY is
// set, and by the fallback table alone otherwise.
func NewModule() *Module {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return NewModuleWithClient(nil)
	}
	return NewModuleWithClient(NewOpenAIClient(apiKey, os.Getenv("OPENAI_MODEL")))
}

// NewModuleWithClient creates a Module with an explicit text-completion
// client. Tests inject doubles here; nil disables the primary path.
func NewModuleWithClient(client TextCompleter) *Module {
	return &Module{
		generator: NewGenerator(client),
		live:      client != nil,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalyst"
}

// Start initializes the catalyst module.
func (m *Module) Start(_ context.Context) error {
	if m.live {
		log.Println("[catalyst] Module started (text-generation enabled)")
	} else {
		log.Println("[catalyst] Module started (no API key, fallback templates only)")
	}
	return nil
}

// Stop shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	log.Println("[catalyst] Module stopped")
	return nil
}

// Health returns the health status of the module. The module is healthy
// even without a live client since the fallback path always serves.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"text_generation": m.live,
		},
	}
}

// RegisterServices registers the generate-catalyst request-reply service.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"generate-catalyst",
		json.Unmarshal,
		json.Marshal,
		m.handleGenerate,
	); err != nil {
		return fmt.Errorf("failed to register generate-catalyst service: %w", err)
	}

	log.Printf("[catalyst] Registered services: generate-catalyst")
	return nil
}

// handleGenerate handles catalyst generation requests. It never returns
// an error for a non-empty title; failures resolve through the fallback
// table inside the generator.
func (m *Module) handleGenerate(ctx context.Context, req GenerateRequest, _ *mono.Msg) (Result, error) {
	if req.TaskTitle == "" {
		return Result{}, fmt.Errorf("task title is required")
	}
	return m.generator.Generate(ctx, req), nil
}
