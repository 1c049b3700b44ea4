package port

import (
	"context"
	"encoding/json"

	"aforo/internal/domain"
)

// ExtractInput carries the data needed for document extraction.
type ExtractInput struct {
	FileBytes   []byte
	ContentType string
	Kind        domain.DocumentKind
}

// ExtractOutput contains the structured result from an LLM extractor.
type ExtractOutput struct {
	StructuredData json.RawMessage
	ModelUsed      string
}

// Extractor abstracts LLM-based document extraction.
type Extractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}

// Translator converts free-form text into Spanish for customs filings.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}
