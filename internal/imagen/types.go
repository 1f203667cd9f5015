package imagen

import "context"

// produces images from text prompts
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResponse, error)
	Remix(ctx context.Context, req RemixRequest) (*GenerationResponse, error)
}

// describes a text-to-image request
type GenerationRequest struct {
	Prompt string
	Size   string // e.g., "1024x1024"
}

// describes an image-to-image request based on an existing image
type RemixRequest struct {
	Prompt      string
	SourceImage []byte // PNG bytes of the image to remix
	Size        string
}

// holds the generated image and metadata
type GenerationResponse struct {
	ImageBase64   string // base64-encoded PNG
	RevisedPrompt string // model-rewritten prompt, if the API returns one
	Model         string
}

// holds configuration for image generation
type Config struct {
	APIKey string
	Model  string // e.g., "gpt-image-1"
	Size   string // default output size
}
