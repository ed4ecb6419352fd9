package generation

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

// ImageProvider produces an image URL for a prompt. Implementations must
// return a non-empty URL on success.
type ImageProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenAIProvider generates images through the Gemini API's Imagen models.
type GenAIProvider struct {
	client *genai.Client
	model  string
}

// NewGenAIProvider creates a provider backed by the Gemini API.
func NewGenAIProvider(ctx context.Context, apiKey, model string) (*GenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("image provider API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIProvider{client: client, model: model}, nil
}

// Generate requests one image and returns it as a data URL. A malformed
// or empty response is an error so the caller can take the fallback path.
func (p *GenAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateImages(ctx, p.model, prompt, nil)
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", fmt.Errorf("generate image: provider returned no images")
	}
	img := resp.GeneratedImages[0].Image
	if img.GCSURI != "" {
		return img.GCSURI, nil
	}
	if len(img.ImageBytes) == 0 {
		return "", fmt.Errorf("generate image: provider returned an empty image")
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.ImageBytes), nil
}

// FallbackBuilder synthesizes an image URL by template substitution into
// a public, keyless endpoint. The URL is returned unchecked; no provider
// call is made.
type FallbackBuilder struct {
	baseURL string
}

// NewFallbackBuilder creates a builder for the given endpoint base.
func NewFallbackBuilder(baseURL string) *FallbackBuilder {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &FallbackBuilder{baseURL: baseURL}
}

// Build returns the fallback image URL for the prompt, percent-encoded
// so the user's input is never dropped or mangled.
func (b *FallbackBuilder) Build(prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("build fallback URL: empty prompt")
	}
	return b.baseURL + url.PathEscape(prompt) + "?width=1024&height=1024", nil
}
