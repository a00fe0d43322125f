package bill

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// corsError writes an error response with CORS headers set
func corsError(w http.ResponseWriter, message string, code int) {
	setCORSHeaders(w)
	http.Error(w, message, code)
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// handleListFields returns the field names every extraction reports on
func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(FieldNames()); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleExtract accepts an uploaded bill and responds with the rendered
// extraction in the requested format
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	// 50MB to handle high-resolution phone photos
	maxFormSize := int64(50 << 20)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			errorMsg = "File is too large. Maximum size is 50MB."
		}
		corsError(w, errorMsg, http.StatusBadRequest)
		return
	}

	format, err := ParseFormat(r.FormValue("format"))
	if err != nil {
		corsError(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		slog.Error("Error getting file from form", "error", err)
		corsError(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer f.Close()

	// The resolver works on paths, so stage the upload in a temp file that
	// keeps the original extension for format dispatch.
	tmp, err := os.CreateTemp("", "billscan-*"+strings.ToLower(filepath.Ext(header.Filename)))
	if err != nil {
		slog.Error("Error creating temp file", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, f); err != nil {
		tmp.Close()
		slog.Error("Error staging upload", "error", err, "filename", header.Filename)
		corsError(w, "Error reading file", http.StatusInternalServerError)
		return
	}
	if err := tmp.Close(); err != nil {
		slog.Error("Error staging upload", "error", err, "filename", header.Filename)
		corsError(w, "Error reading file", http.StatusInternalServerError)
		return
	}

	var terminal Event
	for event := range s.service.Extract(tmp.Name()) {
		slog.Info("Extraction progress",
			"filename", header.Filename,
			"percent", event.Percent,
			"status", event.Status,
		)
		terminal = event
	}

	if terminal.Stage != StageComplete {
		setCORSHeaders(w)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{
			"error": terminal.Status,
		})
		return
	}

	output, err := terminal.Info.Render(format)
	if err != nil {
		slog.Error("Error rendering extraction", "error", err)
		corsError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if _, err := w.Write([]byte(output)); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}
