package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"descant/internal/services"
)

const defaultTimeout = 2 * time.Minute

// Client talks to one Ollama server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. A zero timeout uses
// a generous default suited to local vision models.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GenerateRequest asks a model for one completion. Images are raw bytes;
// the client base64-encodes them for the wire.
type GenerateRequest struct {
	Model  string
	Prompt string
	System string
	Images [][]byte
}

type generatePayload struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	System string   `json:"system,omitempty"`
	Images []string `json:"images,omitempty"`
	Stream bool     `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Generate returns the model's completion text.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if strings.TrimSpace(req.Model) == "" {
		return "", services.Wrap(services.ErrConfiguration, "describing", "generate", "model required", nil)
	}
	payload := generatePayload{
		Model:  req.Model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	}
	for _, image := range req.Images {
		payload.Images = append(payload.Images, base64.StdEncoding.EncodeToString(image))
	}

	var parsed generateResponse
	if err := c.post(ctx, "/api/generate", payload, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != "" {
		return "", services.Wrap(services.ErrExternalTool, "describing", "generate", parsed.Error, nil)
	}
	return strings.TrimSpace(parsed.Response), nil
}

type embedPayload struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Error      string      `json:"error"`
}

// Embed returns the embedding vector for one input text.
func (c *Client) Embed(ctx context.Context, model, input string) ([]float64, error) {
	if strings.TrimSpace(model) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "describing", "embed", "model required", nil)
	}
	if strings.TrimSpace(input) == "" {
		return nil, services.Wrap(services.ErrValidation, "describing", "embed", "input required", nil)
	}

	var parsed embedResponse
	if err := c.post(ctx, "/api/embed", embedPayload{Model: model, Input: input}, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != "" {
		return nil, services.Wrap(services.ErrExternalTool, "describing", "embed", parsed.Error, nil)
	}
	if len(parsed.Embeddings) == 0 || len(parsed.Embeddings[0]) == 0 {
		return nil, services.Wrap(services.ErrExternalTool, "describing", "embed", "empty embedding in response", nil)
	}
	return parsed.Embeddings[0], nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		marker := services.ErrTransient
		if errors.Is(err, context.DeadlineExceeded) {
			marker = services.ErrTimeout
		}
		return services.Wrap(marker, "describing", "request", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return services.Wrap(services.ErrTransient, "describing", "read response", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		marker := services.ErrExternalTool
		if resp.StatusCode >= 500 {
			marker = services.ErrTransient
		}
		detail := fmt.Sprintf("%s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(data)))
		return services.Wrap(marker, "describing", "request", detail, nil)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return services.Wrap(services.ErrExternalTool, "describing", "decode response", path, err)
	}
	return nil
}
