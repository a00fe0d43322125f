package bill

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Entry is a single extracted field.
type Entry struct {
	Key   string
	Value string
}

// Report holds every field in pattern-table order, sentinel values included.
type Report []Entry

// Info holds only the fields that actually matched, in report order.
type Info []Entry

var titleCaser = cases.Title(language.English)

// titleKey renders a snake_case field name for human-readable output,
// e.g. "invoice_number" -> "Invoice Number".
func titleKey(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

// Text renders the full report, sentinel values included, one field per line.
func (r Report) Text() string {
	lines := make([]string, len(r))
	for i, e := range r {
		lines[i] = titleKey(e.Key) + ": " + e.Value
	}
	return strings.Join(lines, "\n")
}

// Validate drops every sentinel-valued field and keeps the rest verbatim.
// It is idempotent: filtering an already-filtered report changes nothing.
func Validate(r Report) Info {
	info := make(Info, 0, len(r))
	for _, e := range r {
		if e.Value != Sentinel {
			info = append(info, e)
		}
	}
	return info
}

// Map returns the machine-oriented form of the validated fields.
func (i Info) Map() map[string]string {
	m := make(map[string]string, len(i))
	for _, e := range i {
		m[e.Key] = e.Value
	}
	return m
}
