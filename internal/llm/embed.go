package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
)

// GeminiEmbedder produces text embeddings with a Gemini embedding model.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// EmbedQuery embeds a search query.
func (e *GeminiEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalQuery

	res, err := em.EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if res == nil || res.Embedding == nil {
		return nil, fmt.Errorf("empty embedding in response")
	}
	return res.Embedding.Values, nil
}

// EmbedDocuments embeds a batch of documents in one request. The result has
// one vector per input, in order.
func (e *GeminiEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := e.client.EmbeddingModel(e.model)
	em.TaskType = genai.TaskTypeRetrievalDocument

	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d documents: %w", len(texts), err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(res.Embeddings), len(texts))
	}

	out := make([][]float32, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("missing embedding at index %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// Model returns the embedding model name.
func (e *GeminiEmbedder) Model() string {
	return e.model
}
