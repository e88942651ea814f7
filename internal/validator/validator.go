// Package validator checks extracted invoice fields for consistency
// before an operator marks a record processed. Rules are advisory: they
// never block persistence, they only surface problems.
package validator

import "fretenota/internal/domain"

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding produced by a rule.
type Issue struct {
	Field    string   `json:"field"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Rule checks one aspect of an invoice.
type Rule interface {
	// Key uniquely identifies the rule.
	Key() string
	// Check returns the issues found, or nil when the invoice passes.
	Check(inv *domain.Invoice) []Issue
}

// Report is the outcome of running every registered rule.
type Report struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}
