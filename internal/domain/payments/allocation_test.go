package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

func openInvoice(number, total, paid string) *OpenInvoice {
	return &OpenInvoice{
		InvoiceID:   id.New(),
		Number:      number,
		TotalAmount: types.MustMoney(total),
		AmountPaid:  types.MustMoney(paid),
	}
}

func TestValidateAllocations_Accepts(t *testing.T) {
	inv1 := openInvoice("INV-2026-00001", "165.00", "0.00")
	inv2 := openInvoice("INV-2026-00002", "500.00", "100.00")
	invoices := []*OpenInvoice{inv1, inv2}

	accepted, err := ValidateAllocations(invoices, types.MustMoney("300.00"), []Allocation{
		{InvoiceID: inv1.InvoiceID, Amount: types.MustMoney("165.00")},
		{InvoiceID: inv2.InvoiceID, Amount: types.MustMoney("135.00")},
	})
	require.NoError(t, err)
	require.Len(t, accepted, 2)
	assert.Equal(t, inv1.InvoiceID, accepted[0].InvoiceID)
}

func TestValidateAllocations_DropsZeroAmounts(t *testing.T) {
	inv := openInvoice("INV-2026-00003", "200.00", "0.00")

	accepted, err := ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("100.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.Zero()},
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("100.00")},
	})
	require.NoError(t, err)
	require.Len(t, accepted, 1)
	assert.True(t, accepted[0].Amount.Equal(types.MustMoney("100.00")))
}

func TestValidateAllocations_PerInvoiceBound(t *testing.T) {
	inv := openInvoice("INV-2026-00004", "165.00", "65.00")

	// Outstanding is 100.00; 100.01 exceeds the 0.001 tolerance.
	_, err := ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("200.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("100.01")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverAllocation))

	// Exactly outstanding is fine.
	_, err = ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("200.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("100.00")},
	})
	require.NoError(t, err)

	// Within tolerance is fine too.
	_, err = ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("200.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("100.0005")},
	})
	require.NoError(t, err)
}

func TestValidateAllocations_RepeatedInvoiceSharesOutstanding(t *testing.T) {
	inv := openInvoice("INV-2026-00008", "100.00", "0.00")

	// Each split is within the balance but together they exceed it.
	_, err := ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("120.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("60.00")},
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("60.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverAllocation))

	// Splits that sum to the balance are fine.
	accepted, err := ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("120.00"), []Allocation{
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("60.00")},
		{InvoiceID: inv.InvoiceID, Amount: types.MustMoney("40.00")},
	})
	require.NoError(t, err)
	require.Len(t, accepted, 2)
}

func TestValidateAllocations_TotalBound(t *testing.T) {
	inv1 := openInvoice("INV-2026-00005", "300.00", "0.00")
	inv2 := openInvoice("INV-2026-00006", "300.00", "0.00")

	_, err := ValidateAllocations([]*OpenInvoice{inv1, inv2}, types.MustMoney("250.00"), []Allocation{
		{InvoiceID: inv1.InvoiceID, Amount: types.MustMoney("150.00")},
		{InvoiceID: inv2.InvoiceID, Amount: types.MustMoney("150.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeOverAllocation))
}

func TestValidateAllocations_UnknownInvoice(t *testing.T) {
	inv := openInvoice("INV-2026-00007", "100.00", "0.00")

	_, err := ValidateAllocations([]*OpenInvoice{inv}, types.MustMoney("100.00"), []Allocation{
		{InvoiceID: id.New(), Amount: types.MustMoney("50.00")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
