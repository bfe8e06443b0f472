package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tsuzuri/pkg/model"
	"google.golang.org/genai"
)

// Gemini is the embedding service client. Retry policy is not handled here;
// it belongs to the enrichment pipeline.
type Gemini interface {
	Embedding(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

type GeminiClient struct {
	client         *genai.Client
	embeddingModel string
	dimensions     int
}

type GeminiOption func(*GeminiClient)

func WithEmbeddingModel(model string) GeminiOption {
	return func(g *GeminiClient) {
		g.embeddingModel = model
	}
}

// WithDimensions pins the embedding output size. It must match the vector
// dimension of the datastore column, or similarity search breaks.
func WithDimensions(dims int) GeminiOption {
	return func(g *GeminiClient) {
		g.dimensions = dims
	}
}

func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiClient{
		client:         client,
		embeddingModel: "gemini-embedding-001",
		dimensions:     1536,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiClient) Dimensions() int {
	return g.dimensions
}

func (g *GeminiClient) Embedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := g.client.Models.EmbedContent(ctx, g.embeddingModel, genai.Text(text), &genai.EmbedContentConfig{
		OutputDimensionality: genai.Ptr(int32(g.dimensions)),
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed content", goerr.V("model", g.embeddingModel))
	}

	if len(resp.Embeddings) == 0 {
		return nil, goerr.Wrap(model.ErrNoEmbedding, "empty response from embedding model", goerr.V("model", g.embeddingModel))
	}

	vec := resp.Embeddings[0].Values
	if err := validateEmbedding(vec, g.dimensions); err != nil {
		return nil, err
	}

	return vec, nil
}

func validateEmbedding(values []float32, dims int) error {
	if len(values) == 0 {
		return goerr.Wrap(model.ErrNoEmbedding, "embedding has no values")
	}
	if len(values) != dims {
		return goerr.Wrap(model.ErrDimensionMismatch, "embedding does not match configured dimensions",
			goerr.V("expected", dims), goerr.V("actual", len(values)))
	}
	return nil
}
