package bill

import "log/slog"

// Extract matches the pattern table against the raw document text. Every
// field is present in the result; unmatched fields keep the sentinel value.
// Each field takes its first match only, searching the full text
// independently of the other fields.
func Extract(text string) Report {
	report := make(Report, 0, len(patternTable))
	for _, p := range patternTable {
		value := Sentinel
		if m := p.re.FindStringSubmatch(text); m != nil {
			value = m[p.group]
			slog.Debug("Pattern matched", "field", p.field, "value", value)
		}
		report = append(report, Entry{Key: p.field, Value: value})
	}
	return report
}
