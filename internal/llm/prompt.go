package llm

import (
	"fmt"

	"github.com/ppiankov/jdsort/internal/model"
)

// ClassificationSystemPrompt frames every classification request
const ClassificationSystemPrompt = "You are a file organization assistant using the Johnny Decimal system."

// Sampling parameters for classification requests
const (
	ClassificationTemperature = 0.3
	ClassificationTopP        = 0.9
)

// BuildClassificationPrompt describes a file and asks for a JSON suggestion
func BuildClassificationPrompt(file model.FileDescriptor) string {
	mimeType := file.MimeType
	if mimeType == "" {
		mimeType = "unknown"
	}

	return fmt.Sprintf(`Analyze the following file and suggest the most appropriate category:

File: %s
Extension: %s
Size: %d bytes
Type: %s

Johnny Decimal areas (10-19, 20-29, 30-39, etc.) should be used for broad categories.
Categories (11, 12, 13, etc.) should be specific within each area.

Respond with JSON:
{
    "category": "Area Name/Category Name",
    "confidence": 0.0-1.0,
    "reasoning": "explanation",
    "alternatives": ["alt1", "alt2"],
    "tags": ["tag1", "tag2"]
}

Be concise and practical in your categorization.`, file.Name, file.Extension, file.Size, mimeType)
}

// NewClassificationRequest builds the generate request for one file
func NewClassificationRequest(file model.FileDescriptor, modelName string) GenerateRequest {
	return GenerateRequest{
		Model:       modelName,
		Prompt:      BuildClassificationPrompt(file),
		System:      ClassificationSystemPrompt,
		Temperature: ClassificationTemperature,
		TopP:        ClassificationTopP,
	}
}
