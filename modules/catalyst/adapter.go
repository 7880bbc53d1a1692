package catalyst

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port defines the interface other modules use to request catalysts.
type Port interface {
	Generate(ctx context.Context, req GenerateRequest) (Result, error)
}

// Adapter implements Port using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new Adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{
		container: container,
	}
}

// Generate requests a catalyst for the given task fields.
func (a *Adapter) Generate(ctx context.Context, req GenerateRequest) (Result, error) {
	var resp Result

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"generate-catalyst",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return Result{}, fmt.Errorf("generate-catalyst request failed: %w", err)
	}

	return resp, nil
}
