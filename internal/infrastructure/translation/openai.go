package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultOpenAIEndpoint points to a local OpenAI-compatible server.
	DefaultOpenAIEndpoint = "http://127.0.0.1:8845/v1"
	// DefaultOpenAIModel is used when no model name is configured.
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIClient implements Model by prompting an OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	endpointURL string
	model       string
	apiKey      string
	client      *http.Client
	logger      *logrus.Logger
}

func NewOpenAIClient(endpoint, model, apiKey string, timeout time.Duration, logger *logrus.Logger) *OpenAIClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &OpenAIClient{
		endpointURL: chatCompletionsURL(endpoint),
		model:       strings.TrimSpace(model),
		apiKey:      apiKey,
		client:      &http.Client{Timeout: timeout},
		logger:      logger,
	}
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

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *OpenAIClient) Name() string { return ProviderOpenAI }

func (c *OpenAIClient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	target := NormalizeLangCode(targetLang)
	if target == "" {
		return "", fmt.Errorf("target language is required")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a translation engine. Reply with the translation only."},
			{Role: "user", Content: buildPrompt(text, NormalizeLangCode(sourceLang), target)},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send translation request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translation response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload chatErrorResponse
		if json.Unmarshal(respBody, &errPayload) == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return "", fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return "", fmt.Errorf("translation endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", ErrEmptyTranslation
	}
	out := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptyTranslation
	}
	return out, nil
}

// CheckHealth lists models; any 2xx means the endpoint is reachable.
func (c *OpenAIClient) CheckHealth(ctx context.Context) error {
	url := strings.TrimSuffix(c.endpointURL, "/chat/completions") + "/models"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create health check request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return nil
}

func buildPrompt(text, sourceLang, targetLang string) string {
	if sourceLang == "" {
		return fmt.Sprintf("Translate the following text into %s:\n\n%s", targetLang, text)
	}
	return fmt.Sprintf("Translate the following text from %s into %s:\n\n%s", sourceLang, targetLang, text)
}

func chatCompletionsURL(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if base == "" {
		base = DefaultOpenAIEndpoint
	}
	if strings.HasSuffix(base, "/chat/completions") {
		return base
	}
	return base + "/chat/completions"
}
