package scanning

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Tesseract implements the Scanner interface by shelling out to the
// tesseract CLI, one invocation per page. It needs no credentials and works
// fully offline.
type Tesseract struct {
	binary   string
	language string
}

// NewTesseract creates a new Tesseract Scanner instance. The binary must be
// resolvable on PATH (or given as an absolute path).
func NewTesseract(binary string, language string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}

	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("tesseract binary not found: %w", err)
	}

	return &Tesseract{
		binary:   binary,
		language: language,
	}, nil
}

// ExtractText writes each page to a temp PNG, runs tesseract on it, and joins
// the per-page transcripts with newlines.
func (t *Tesseract) ExtractText(data []byte, mode Mode) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	pages, err := preparePages(data, mode)
	if err != nil {
		return "", err
	}

	tmpDir, err := os.MkdirTemp("", "billscan-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	transcripts := make([]string, 0, len(pages))
	for n, page := range pages {
		pagePath := filepath.Join(tmpDir, fmt.Sprintf("page-%d.png", n+1))
		if err := os.WriteFile(pagePath, page, 0644); err != nil {
			return "", fmt.Errorf("writing page image: %w", err)
		}

		// tesseract <file> stdout -l <lang>
		out, err := exec.CommandContext(ctx, t.binary, pagePath, "stdout", "-l", t.language).Output()
		if err != nil {
			return "", fmt.Errorf("running tesseract on page %d: %w", n+1, err)
		}
		transcripts = append(transcripts, strings.TrimSpace(string(out)))
	}

	return strings.Join(transcripts, "\n"), nil
}

// Close closes the scanner (no-op for the CLI backend)
func (t *Tesseract) Close() error {
	return nil
}
