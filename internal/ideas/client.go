// Package ideas produces one-sentence main-idea summaries of paper
// abstracts through a local Ollama endpoint.
package ideas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultOllamaURL is the default Ollama API endpoint.
	DefaultOllamaURL = "http://localhost:11434"

	// DefaultModel is the default generation model.
	DefaultModel = "llama3.2"

	// DefaultTimeout is the timeout for generation requests.
	DefaultTimeout = 2 * time.Minute

	// requestsPerSecond keeps a shared local Ollama responsive for other
	// users of the machine.
	requestsPerSecond = 2.0

	// apiPathGenerate is the Ollama API endpoint for text generation.
	apiPathGenerate = "/api/generate"

	// apiPathTags is the Ollama API endpoint for listing models.
	apiPathTags = "/api/tags"
)

const systemPrompt = `You are an expert at analyzing research papers and extracting key insights.
Your task is to read paper abstracts and extract the main idea in a single, clear sentence.
Focus on what problem the paper solves and the key contribution or approach.
Keep your response concise - just the main idea, no extra commentary.`

// Client is a rate-limited client for the Ollama generate API.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the Ollama API base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithModel sets the generation model.
func WithModel(model string) Option {
	return func(c *Client) {
		c.model = model
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new Ollama generation client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultOllamaURL,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsAvailable checks whether the Ollama endpoint is reachable.
func (c *Client) IsAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPathTags, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not running: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}

// MainIdea summarizes one abstract into a single sentence.
func (c *Client) MainIdea(ctx context.Context, abstract string) (string, error) {
	abstract = strings.TrimSpace(abstract)
	if abstract == "" {
		return "", fmt.Errorf("empty abstract")
	}

	prompt := fmt.Sprintf("Extract the main idea from this paper abstract in ONE clear sentence:\n\n%s\n\nMain idea:", abstract)
	return c.Generate(ctx, systemPrompt, prompt)
}

// Generate runs one rate-limited, non-streaming completion with the given
// system prompt. Other extraction flows over paper text share the client
// through this method.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	reqBody := generateRequest{
		Model:  c.model,
		System: system,
		Prompt: prompt,
		Stream: false,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+apiPathGenerate, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, formatErrorBody(resp.Body))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return strings.TrimSpace(result.Response), nil
}

// ModelName returns the name of the generation model.
func (c *Client) ModelName() string {
	return c.model
}

// formatErrorBody reads and formats the response body for error messages.
func formatErrorBody(body io.Reader) string {
	respBody, err := io.ReadAll(body)
	if err != nil {
		return fmt.Sprintf("(failed to read response body: %v)", err)
	}
	return string(respBody)
}

// generateRequest is the request body for the Ollama generate API.
type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the response from the Ollama generate API.
type generateResponse struct {
	Response string `json:"response"`
}
