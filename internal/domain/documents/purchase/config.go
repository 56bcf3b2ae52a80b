package purchase

import "ledgerbook/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Purchase invoices are primary accounting documents, so numbers must
	// be sequential without gaps.
	NumeratorStrategy = numerator.StrategyStrict
)
