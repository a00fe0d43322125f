package scanning

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// documentTranscribePrompt is shared by the vision-LLM backends when reading
// rasterized PDF pages.
const documentTranscribePrompt = `You are reading a scanned bill or invoice document, one image per page. Transcribe ALL text visible on every page, reading top to bottom, left to right.

Rules:
- Output the text exactly as printed. Keep a label and its value on the same line (for example "Invoice Number: INV123").
- Preserve line breaks between distinct lines of the document.
- Do not summarize, translate, reorder, or explain anything.
- Do not use markdown code blocks. Output plain text only.
- If you cannot read any text at all, output nothing.`

// imageTranscribePrompt is the single-page variant used for photographs.
const imageTranscribePrompt = `You are reading a photograph or scan of a single bill or invoice page. Transcribe ALL text visible in the image, reading top to bottom, left to right.

Rules:
- Output the text exactly as printed. Keep a label and its value on the same line (for example "Invoice Number: INV123").
- Preserve line breaks between distinct lines of the document.
- Do not summarize, translate, reorder, or explain anything.
- Do not use markdown code blocks. Output plain text only.
- If you cannot read any text at all, output nothing.`

// promptFor picks the transcription prompt for the scan mode.
func promptFor(mode Mode) string {
	if mode == ModeDocument {
		return documentTranscribePrompt
	}
	return imageTranscribePrompt
}

// pdfToImages renders every page of a PDF to a PNG image for OCR.
func pdfToImages(pdfData []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([][]byte, 0, doc.NumPage())
	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			return nil, fmt.Errorf("rendering PDF page %d: %w", n+1, err)
		}

		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding PNG: %w", err)
		}
		pages = append(pages, buf.Bytes())
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("PDF has no pages")
	}
	return pages, nil
}

// imageToPNG converts any supported image format to PNG. PNG input passes
// through untouched; HEIC/HEIF (common on iPhones) needs a dedicated decoder
// because Go's standard image package does not support it.
func imageToPNG(imageData []byte) ([]byte, error) {
	if isPNG(imageData) {
		return imageData, nil
	}

	var img image.Image
	var err error
	if isHEIC(imageData) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// preparePages normalizes the raw input into one PNG per page. Document mode
// expects PDF bytes; image mode expects a single image in any supported format.
func preparePages(data []byte, mode Mode) ([][]byte, error) {
	if mode == ModeDocument {
		return pdfToImages(data)
	}
	pngData, err := imageToPNG(data)
	if err != nil {
		return nil, err
	}
	return [][]byte{pngData}, nil
}

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func isPNG(data []byte) bool {
	return bytes.HasPrefix(data, pngMagic)
}

// isHEIC checks for an ISO-BMFF ftyp box with a HEIC/HEIF brand.
func isHEIC(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}
