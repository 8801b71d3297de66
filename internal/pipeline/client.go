package pipeline

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/imodoiepale/kra-tools-sub000/internal/credpool"
	"github.com/imodoiepale/kra-tools-sub000/internal/logger"
)

// DefaultModelName is the extraction model used when the caller does not
// override it.
const DefaultModelName = "gemini-2.0-flash"

// ExtractionClient sends one extraction request per chunk, rotating
// credentials through the pool and retrying failed calls with backoff.
type ExtractionClient struct {
	pool  *credpool.Pool
	model string
	retry RetryConfig

	// generate performs one model call with the given credential. Tests
	// replace it; the default speaks to the Gemini API.
	generate func(ctx context.Context, apiKey, prompt string) (string, error)
}

// NewExtractionClient builds a client over the credential pool. An empty
// model name selects DefaultModelName.
func NewExtractionClient(pool *credpool.Pool, model string) *ExtractionClient {
	if model == "" {
		model = DefaultModelName
	}
	c := &ExtractionClient{
		pool:  pool,
		model: model,
		retry: DefaultRetryConfig(),
	}
	c.generate = c.generateWithGemini
	return c
}

// ExtractChunk issues the extraction request for one chunk and returns the
// raw response text. Each attempt acquires a fresh credential so a cooling
// key is not retried; outcomes are reported back to the pool per credential.
func (c *ExtractionClient) ExtractChunk(ctx context.Context, chunk Chunk) (string, error) {
	log := logger.FromContext(ctx)
	prompt := buildExtractionPrompt(chunk.Text)

	response, err := withRetry(ctx, c.retry, func() (string, error) {
		key := c.pool.Acquire()
		if key == "" {
			return "", fmt.Errorf("ExtractChunk: credential pool is empty")
		}

		text, err := c.generate(ctx, key, prompt)
		if err != nil {
			c.pool.ReportFailure(key)
			log.Warn().
				Ints("documents", chunk.Indices).
				Err(err).
				Msg("extraction call failed")
			return "", err
		}

		c.pool.ReportSuccess(key)
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("ExtractChunk: %w", err)
	}
	return response, nil
}

func (c *ExtractionClient) generateWithGemini(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("generateWithGemini: create genai client: %w", err)
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generateWithGemini: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generateWithGemini: empty response from model")
	}
	return text, nil
}
