package generate

import (
	"fmt"
	"os"
)

// NewGenerator selects the implementation based on GENERATOR_MODE.
// "api" requires GROQ_API_KEY; "template" is the offline fallback and
// the default when no key is configured.
func NewGenerator() (Generator, error) {
	mode := os.Getenv("GENERATOR_MODE")
	apiKey := os.Getenv("GROQ_API_KEY")

	switch mode {
	case "api":
		return NewGroqGenerator(apiKey)
	case "template":
		return NewTemplateGenerator(), nil
	case "":
		if apiKey != "" {
			return NewGroqGenerator(apiKey)
		}
		return NewTemplateGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown GENERATOR_MODE: %s (use 'api' or 'template')", mode)
	}
}
