package model

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

const systemPrompt = `You are an assistant answering questions strictly from the provided context.
Answer clearly and to the point, without adding any additional information.
If the context is empty or doesn't contain the answer, say so plainly.
Don't add introductions like 'Of course!' or 'Here's the answer:'`

// GeneratorInterface maps (question, context) to an answer string via an
// external LLM call.
type GeneratorInterface interface {
	Generate(ctx context.Context, question, contextText string) (string, error)
}

// Generator calls an OpenAI-compatible /chat/completions endpoint.
type Generator struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func NewGenerator(baseURL, apiKey, model string) *Generator {
	return &Generator{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
		logger:  slog.Default(),
	}
}

func (g *Generator) Generate(ctx context.Context, question, contextText string) (string, error) {
	start := time.Now()

	prompt := fmt.Sprintf(`Answer the question based on the given context.

Context:
%s

Question:
%s

Answer:`, contextText, question)

	body, err := json.Marshal(chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	if count, err := CountTokens(prompt); err == nil {
		g.logger.Debug("sending prompt to LLM", "tokens", count, "bytes", len(body))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return "", err
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", ErrProviderUnavailable)
	}

	g.logger.Debug("LLM answered", "took", time.Since(start))
	return out.Choices[0].Message.Content, nil
}

// CountTokens measures text in tokens of a gpt-3.5 compatible encoding.
// Used for prompt logging and the context token budget.
func CountTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
