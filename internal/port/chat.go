package port

import "context"

// ChatRequest carries one model inference call: system instructions
// embedding the field schema, and the (truncated) document text.
type ChatRequest struct {
	System string
	User   string
}

// ChatResponse holds the raw model output and the model that produced it.
type ChatResponse struct {
	Content string
	Model   string
}

// ChatCompleter abstracts the language-model inference call. Its
// unavailability degrades the extractor to the deterministic tier; it must
// never fail the pipeline.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
