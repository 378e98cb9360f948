// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/prjmeta/pkg/types"
)

// deepseekAPIBase is the chat completions endpoint. Declared as a var so
// tests can substitute an httptest server.
var deepseekAPIBase = "https://api.deepseek.com/v1/chat/completions"

const systemPrompt = "You are a bioinformatics expert skilled in parsing " +
	"SRA/GEO metadata and extracting structured study information."

// DeepSeekBackend calls an OpenAI-style chat completions API.
type DeepSeekBackend struct {
	Client *http.Client
	Cfg    types.AnnotateConfig
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Annotate sends the prompt and returns the model's reply text.
func (b *DeepSeekBackend) Annotate(ctx context.Context, prompt string) (string, error) {
	if b.Cfg.APIKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	model := b.Cfg.Model
	if model == "" {
		model = "deepseek-chat"
	}
	temperature := b.Cfg.Temperature
	if temperature == 0 {
		temperature = 0.2
	}

	payload, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, deepseekAPIBase, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.Cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned HTTP %d", resp.StatusCode)
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("parsing chat response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("chat response has no choices")
	}
	return cr.Choices[0].Message.Content, nil
}
