package imagen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	openaiGenerationsURL = "https://api.openai.com/v1/images/generations"
	openaiEditsURL       = "https://api.openai.com/v1/images/edits"
	defaultImageModel    = "gpt-image-1"
	defaultImageSize     = "1024x1024"
)

// shared HTTP client for OpenAI API calls
// reuses connection pool and timeout configuration
var openaiHTTPClient = &http.Client{
	Timeout: 120 * time.Second, // image generation is slow, allow generous total timeout
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for OpenAI image API calls (5 requests/second with burst capacity of 5)
var openaiRateLimiter = rate.NewLimiter(5, 5)

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type generationResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		B64JSON       string `json:"b64_json"`
		RevisedPrompt string `json:"revised_prompt"`
	} `json:"data"`
}

type OpenAIGenerator struct {
	config     Config
	httpClient *http.Client
}

// creates a new generator with auto-configuration from environment variables
func NewOpenAIGenerator() (*OpenAIGenerator, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load image generation config: %w", err)
	}

	return NewOpenAIGeneratorWithConfig(*config), nil
}

// creates a new generator with explicit configuration
func NewOpenAIGeneratorWithConfig(config Config) *OpenAIGenerator {
	if config.Model == "" {
		config.Model = defaultImageModel
	}

	if config.Size == "" {
		config.Size = defaultImageSize
	}

	return &OpenAIGenerator{
		config:     config,
		httpClient: openaiHTTPClient, // use shared client with proper timeouts and connection pooling
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("no prompt provided")
	}

	size := req.Size
	if size == "" {
		size = g.config.Size
	}

	reqBody := generationRequest{
		Model:  g.config.Model,
		Prompt: req.Prompt,
		N:      1,
		Size:   size,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", openaiGenerationsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.config.APIKey))

	return g.send(ctx, httpReq)
}

func (g *OpenAIGenerator) Remix(ctx context.Context, req RemixRequest) (*GenerationResponse, error) {
	if req.Prompt == "" {
		return nil, fmt.Errorf("no prompt provided")
	}

	if len(req.SourceImage) == 0 {
		return nil, fmt.Errorf("no source image provided")
	}

	size := req.Size
	if size == "" {
		size = g.config.Size
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("image", "source.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(req.SourceImage); err != nil {
		return nil, fmt.Errorf("failed to write source image: %w", err)
	}

	fields := map[string]string{
		"model":  g.config.Model,
		"prompt": req.Prompt,
		"n":      "1",
		"size":   size,
	}

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", openaiEditsURL, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", g.config.APIKey))

	return g.send(ctx, httpReq)
}

// sends the prepared request and decodes the image response
func (g *OpenAIGenerator) send(ctx context.Context, req *http.Request) (*GenerationResponse, error) {
	// rate limiting
	if err := openaiRateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var genResp generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(genResp.Data) == 0 {
		return nil, fmt.Errorf("no image in response")
	}

	return &GenerationResponse{
		ImageBase64:   genResp.Data[0].B64JSON,
		RevisedPrompt: genResp.Data[0].RevisedPrompt,
		Model:         g.config.Model,
	}, nil
}
