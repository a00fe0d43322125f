package bill

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
)

// Format selects the output rendering for validated fields.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat normalizes a user-supplied format name. An empty string means
// text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// ContentType returns the MIME type of the rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render produces the user-facing form of the validated fields.
func (i Info) Render(format Format) (string, error) {
	switch format {
	case FormatText:
		return i.Text(), nil
	case FormatJSON:
		return i.JSON()
	case FormatCSV:
		return i.CSV()
	}
	return "", fmt.Errorf("unknown output format: %q", format)
}

// Text renders Title Case "Key: value" lines in insertion order.
func (i Info) Text() string {
	lines := make([]string, len(i))
	for n, e := range i {
		lines[n] = titleKey(e.Key) + ": " + e.Value
	}
	return strings.Join(lines, "\n")
}

// JSON renders a two-space-indented object with insertion order preserved.
// encoding/json sorts map keys alphabetically, so the object is built entry
// by entry instead.
func (i Info) JSON() (string, error) {
	if len(i) == 0 {
		return "{}", nil
	}

	var buf bytes.Buffer
	buf.WriteString("{\n")
	for n, e := range i {
		key, err := json.Marshal(e.Key)
		if err != nil {
			return "", fmt.Errorf("encoding key: %w", err)
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return "", fmt.Errorf("encoding value: %w", err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
		if n < len(i)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}")
	return buf.String(), nil
}

// CSV renders a Key,Value header plus one snake_case row per field. Values
// containing commas are quoted so the output parses back losslessly.
func (i Info) CSV() (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Key", "Value"}); err != nil {
		return "", fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range i {
		if err := w.Write([]string{e.Key, e.Value}); err != nil {
			return "", fmt.Errorf("writing csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
