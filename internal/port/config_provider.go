package port

import (
	"context"

	"intakedocs/internal/schema"
)

// ConfigProvider loads the extraction schema from its backing medium
// (file, remote config service). No side effects beyond the read; safe to
// call concurrently from multiple workflow executions.
type ConfigProvider interface {
	Load(ctx context.Context) (*schema.ExtractionConfig, error)
}
