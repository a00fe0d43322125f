package scanning

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Resolver turns a bill file into raw text. PDFs prefer their embedded text
// layer and fall back to OCR when it is missing; images always go through
// OCR; any other extension is read verbatim.
type Resolver struct {
	scanner Scanner
}

// NewResolver creates a new Resolver backed by the given OCR scanner.
func NewResolver(scanner Scanner) *Resolver {
	return &Resolver{scanner: scanner}
}

// Resolve reads the file at path and returns its text content.
func (r *Resolver) Resolve(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading pdf: %w", err)
		}
		if text := embeddedPDFText(data); strings.TrimSpace(text) != "" {
			slog.Debug("Using embedded PDF text", "path", path, "length", len(text))
			return text, nil
		}
		slog.Info("No embedded text in PDF, falling back to OCR", "path", path)
		return r.scanner.ExtractText(data, ModeDocument)
	case ".png", ".jpg", ".jpeg", ".heic", ".heif":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading image: %w", err)
		}
		return r.scanner.ExtractText(data, ModeImage)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading file: %w", err)
		}
		return string(data), nil
	}
}

// embeddedPDFText extracts the text layer of a PDF, pages joined with
// newlines. A PDF the parser cannot open is treated as having no text layer;
// scanned PDFs routinely defeat pure-Go parsers and belong on the OCR path.
// Pages that fail to decode are skipped.
func embeddedPDFText(data []byte) (text string) {
	// The parser panics on some malformed files instead of returning an error.
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String()
}
