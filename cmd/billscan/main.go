package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/billscan/billscan/internal/bill"
	"github.com/billscan/billscan/internal/scanning"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("billscan")
	var (
		filePath     = fs.StringLong("file", "", "Bill file to extract (pdf, png, jpg, jpeg or plain text)")
		format       = fs.StringLong("format", "text", "Output format: 'text', 'json' or 'csv'")
		showAll      = fs.BoolLong("all", "Print every field in text form, unmatched ones included")
		scannerType  = fs.StringLong("scanner", "gemini", "OCR backend: 'gemini', 'ollama' or 'tesseract'")
		geminiKey    = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel  = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL    = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel  = fs.StringLong("ollama-model", "llava", "Ollama vision model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		tessBinary   = fs.StringLong("tesseract", "tesseract", "Tesseract binary name or path")
		tessLanguage = fs.StringLong("tesseract-lang", "eng", "Tesseract OCR language")
		_            = fs.StringLong("config", "", "Config file path (one flag per line)")
		showVersion  = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BILLSCAN"),
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *filePath == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --file is required")
		os.Exit(1)
	}

	outputFormat, err := bill.ParseFormat(*format)
	if err != nil {
		slog.Error("Invalid output format", "error", err)
		os.Exit(1)
	}

	// Credentials are resolved here, before any extraction can run
	scanner, err := scanning.New(scanning.Config{
		Backend:       *scannerType,
		GeminiKey:     *geminiKey,
		GeminiModel:   *geminiModel,
		OllamaURL:     *ollamaURL,
		OllamaModel:   *ollamaModel,
		Tesseract:     *tessBinary,
		TesseractLang: *tessLanguage,
	})
	if err != nil {
		slog.Error("Failed to initialize scanner", "error", err)
		os.Exit(1)
	}
	defer scanner.Close()

	service := bill.NewService(scanning.NewResolver(scanner))

	var terminal bill.Event
	for event := range service.Extract(*filePath) {
		slog.Info(event.Status, "percent", event.Percent)
		terminal = event
	}

	if terminal.Stage != bill.StageComplete {
		// The worker already logged the failure
		os.Exit(1)
	}

	if *showAll {
		fmt.Println(terminal.Report.Text())
		return
	}

	output, err := terminal.Info.Render(outputFormat)
	if err != nil {
		slog.Error("Failed to render output", "error", err)
		os.Exit(1)
	}

	fmt.Println(output)
}
