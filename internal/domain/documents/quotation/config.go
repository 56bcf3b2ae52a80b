package quotation

import "ledgerbook/pkg/numerator"

const (
	// NumeratorStrategy defines the numbering strategy for this document type.
	// Quotations are not tax documents, so gaps in numbering are
	// acceptable and the cached strategy saves round trips.
	NumeratorStrategy = numerator.StrategyCached
)
