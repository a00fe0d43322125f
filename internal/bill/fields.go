package bill

import "regexp"

// Sentinel marks a field whose pattern matched nothing in the document text.
const Sentinel = "Not found"

// pattern binds a field name to the expression that locates its value. group
// is the capture group holding the value: two-group patterns use the first
// group only to anchor a label alternative ("Invoice Date" vs "Date"), never
// as the value.
type pattern struct {
	field string
	re    *regexp.Regexp
	group int
}

// patternTable covers the labels seen across common utility, fuel and retail
// bills. It is built once, never mutated, and shared read-only by every
// extraction. Its order fixes the field order of every Report.
var patternTable = []pattern{
	{"invoice_number", regexp.MustCompile(`(?i)Invoice Number[.:]\s*(\w+)`), 1},
	{"invoice_date", regexp.MustCompile(`(?i)(Invoice Date|Date)[.:]\s*(\d{2}[./-]\d{2}[./-]\d{4})`), 2},
	{"amount_due", regexp.MustCompile(`(?i)(Total Amount Due|TOTAL AMOUNT DUE|Amount|Total Invoice Amount|Amount Tendered|Due Amount|Current demand|To the total due date)[.:]?\s*(?:INR|Rs\.?)?\s*([\d,.]+)`), 2},
	{"due_date", regexp.MustCompile(`(?i)Due Date[.:]\s*(\d{2}[./-]\d{2}[./-]\d{4})`), 1},
	{"account_number", regexp.MustCompile(`(?i)(Account Number|BUSINESS PARTNER NO\.)[.:]\s*(\w+)`), 2},
	{"billing_period", regexp.MustCompile(`(?i)Billing Period[.:]\s*([\d/]+ to [\d/]+)`), 1},
	{"consumer_number", regexp.MustCompile(`(?i)Consumer Number[.:]\s*(\w+)`), 1},
	{"product", regexp.MustCompile(`(?i)Product\s+(PETROL|\w+)`), 1},
	{"quantity", regexp.MustCompile(`(?i)(Qty|quantity)\s+([\d.]+)`), 2},
	{"rate", regexp.MustCompile(`(?i)(Rate-Rs|Price/SCM in INR)\s+([\d.]+)`), 2},
}

// FieldNames returns the extracted field names in report order.
func FieldNames() []string {
	names := make([]string, len(patternTable))
	for i, p := range patternTable {
		names[i] = p.field
	}
	return names
}
