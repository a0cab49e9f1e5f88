package driven

import "context"

// LLMService provides language model text completion for answer generation.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o, GPT-4.1)
type LLMService interface {
	// Generate produces a complete text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// GenerateStream produces a completion incrementally. The returned
	// channel yields fragments as soon as the model emits them and is
	// closed when the stream ends. A Chunk with a non-nil Err terminates
	// emission; no further fragments follow it. The stream is single-shot:
	// once consumed or abandoned it cannot be replayed.
	//
	// Cancelling ctx stops the underlying model call without leaking it.
	GenerateStream(ctx context.Context, prompt string, opts GenerateOptions) (<-chan Chunk, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error
}

// Chunk is one fragment of a streaming completion.
type Chunk struct {
	// Text is the partial completion content. Empty for error chunks.
	Text string

	// Err is non-nil when the underlying stream failed mid-flight.
	Err error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
