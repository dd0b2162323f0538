package stats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Port is the interface other modules use to read relay statistics.
type Port interface {
	Summary(ctx context.Context) (Summary, error)
}

// Adapter implements Port over the stats module's service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a stats adapter.
func NewAdapter(container mono.ServiceContainer) Port {
	if container == nil {
		panic("stats: ServiceContainer is nil")
	}
	return &Adapter{container: container}
}

// Summary fetches the current counter snapshot.
func (a *Adapter) Summary(ctx context.Context) (Summary, error) {
	req := SummaryRequest{}
	var resp SummaryResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		ServiceSummary,
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return Summary{}, fmt.Errorf("failed to fetch stats summary: %w", err)
	}
	return resp.Summary, nil
}
