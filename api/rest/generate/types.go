package generate

import "codeberg.org/pixelforge/server/pixelforge/limiter"

// Request represents the request body for image generation
type Request struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
	Size   string `json:"size" binding:"omitempty,oneof=1024x1024 1536x1024 1024x1536"`
}

// RemixRequest represents the request body for remixing an existing image
type RemixRequest struct {
	Prompt      string `json:"prompt" binding:"required,max=4000"`
	SourceImage string `json:"source_image" binding:"required"` // base64-encoded PNG
	Size        string `json:"size" binding:"omitempty,oneof=1024x1024 1536x1024 1024x1536"`
}

// Response represents the response for image generation
type Response struct {
	Image         string            `json:"image"` // base64-encoded PNG
	RevisedPrompt string            `json:"revised_prompt,omitempty"`
	Model         string            `json:"model"`
	Decision      *limiter.Decision `json:"decision"`
}

// DeniedResponse is the body returned when the accounting engine denies a request
type DeniedResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Decision *limiter.Decision `json:"decision"`
}
