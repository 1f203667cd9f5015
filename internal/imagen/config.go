package imagen

import (
	"fmt"
	"os"
)

// loadConfig loads image generation configuration from environment variables
func loadConfig() (*Config, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}

	model := os.Getenv("IMAGE_MODEL")
	if model == "" {
		model = defaultImageModel // default
	}

	size := os.Getenv("IMAGE_SIZE")
	if size == "" {
		size = defaultImageSize // default
	}

	return &Config{
		APIKey: apiKey,
		Model:  model,
		Size:   size,
	}, nil
}
