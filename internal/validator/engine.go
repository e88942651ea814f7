package validator

import "fretenota/internal/domain"

// Engine runs every registered rule against an invoice.
type Engine struct {
	registry *Registry
}

// NewEngine creates an Engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Validate runs all rules and aggregates their findings. The report is
// valid when no issue of error severity was produced; warnings alone do
// not invalidate a record.
func (e *Engine) Validate(inv *domain.Invoice) *Report {
	report := &Report{Valid: true}
	for _, rule := range e.registry.All() {
		issues := rule.Check(inv)
		for _, issue := range issues {
			if issue.Severity == SeverityError {
				report.Valid = false
			}
		}
		report.Issues = append(report.Issues, issues...)
	}
	return report
}
