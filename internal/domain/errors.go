package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrNotPDF signals an upload with a non-PDF file name.
	ErrNotPDF = errors.New("only PDF files are allowed")
	// ErrEmptyDocument signals a PDF that yielded no pages.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGenerationProviderError signals an answer generation failure.
	ErrGenerationProviderError = errors.New("generation provider error")
)
