package scanning

import (
	"fmt"
	"os"
)

// Mode tells an OCR backend how to treat the input bytes.
type Mode string

const (
	// ModeDocument is for PDFs: every page is rasterized and transcribed.
	ModeDocument Mode = "document"
	// ModeImage is for a single photographed or scanned page.
	ModeImage Mode = "image"
)

// Scanner defines the interface for OCR text extraction backends
type Scanner interface {
	// ExtractText transcribes all readable text from a document or image.
	// An unreadable but well-formed input yields an empty string, not an error.
	ExtractText(data []byte, mode Mode) (string, error)
	// Close closes the scanner and releases resources
	Close() error
}

// Config selects and configures an OCR backend.
type Config struct {
	Backend       string // "gemini", "ollama" or "tesseract"
	GeminiKey     string
	GeminiModel   string
	OllamaURL     string
	OllamaModel   string
	Tesseract     string
	TesseractLang string
}

// New builds the configured Scanner. Backends that need credentials report a
// missing key here, before any extraction runs.
func New(cfg Config) (Scanner, error) {
	switch cfg.Backend {
	case "gemini":
		key := cfg.GeminiKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		return NewGemini(key, cfg.GeminiModel)
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	case "tesseract":
		return NewTesseract(cfg.Tesseract, cfg.TesseractLang)
	}
	return nil, fmt.Errorf("invalid scanner type %q (valid: gemini, ollama, tesseract)", cfg.Backend)
}
