package sale

import "ledgerbook/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Sales invoices are tax documents, so numbers must be sequential
	// without gaps.
	NumeratorStrategy = numerator.StrategyStrict
)
