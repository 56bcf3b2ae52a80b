package purchase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/types"
)

func testLine(taxable, gst string) Line {
	return Line{
		ItemID:         id.New(),
		Quantity:       decimal.NewFromInt(1),
		PurchasePrice:  types.MustMoney(taxable),
		TaxableValue:   types.MustMoney(taxable),
		CGSTAmount:     types.Zero(),
		SGSTAmount:     types.Zero(),
		IGSTAmount:     types.MustMoney(gst),
		TotalGSTAmount: types.MustMoney(gst),
	}
}

func TestPurchaseInvoiceAddLine(t *testing.T) {
	doc := NewPurchaseInvoice(id.New())

	doc.AddLine(testLine("100.00", "18.00"))
	doc.AddLine(testLine("50.00", "9.00"))

	require.Len(t, doc.Lines, 2)
	assert.Equal(t, 1, doc.Lines[0].LineNo)
	assert.Equal(t, 2, doc.Lines[1].LineNo)
	assert.False(t, id.IsNil(doc.Lines[0].LineID))
	assert.False(t, id.IsNil(doc.Lines[1].LineID))
	assert.NotEqual(t, doc.Lines[0].LineID, doc.Lines[1].LineID)

	// AddLine recalculates header totals as it goes.
	assert.True(t, types.MoneyEqual(types.MustMoney("150.00"), doc.TaxableAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("27.00"), doc.TotalGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("177.00"), doc.TotalAmount))
}

func TestPurchaseInvoiceRecalculateTotals(t *testing.T) {
	doc := NewPurchaseInvoice(id.New())

	intra := testLine("200.00", "0.00")
	intra.IGSTAmount = types.Zero()
	intra.CGSTAmount = types.MustMoney("18.00")
	intra.SGSTAmount = types.MustMoney("18.00")
	intra.TotalGSTAmount = types.MustMoney("36.00")
	doc.AddLine(intra)
	doc.AddLine(testLine("100.00", "28.00"))

	assert.True(t, types.MoneyEqual(types.MustMoney("300.00"), doc.TaxableAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("18.00"), doc.CGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("18.00"), doc.SGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("28.00"), doc.IGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("64.00"), doc.TotalGSTAmount))
	assert.True(t, types.MoneyEqual(types.MustMoney("364.00"), doc.TotalAmount))
}

func TestPurchaseInvoiceOutstanding(t *testing.T) {
	doc := NewPurchaseInvoice(id.New())
	doc.AddLine(testLine("500.00", "90.00"))

	assert.True(t, types.MoneyEqual(types.MustMoney("590.00"), doc.Outstanding()))

	doc.AmountPaid = types.MustMoney("200.00")
	assert.True(t, types.MoneyEqual(types.MustMoney("390.00"), doc.Outstanding()))

	doc.AmountPaid = doc.TotalAmount
	assert.True(t, doc.Outstanding().IsZero())
}

func TestPurchaseInvoiceValidate(t *testing.T) {
	ctx := context.Background()

	valid := func() *PurchaseInvoice {
		doc := NewPurchaseInvoice(id.New())
		doc.AddLine(testLine("100.00", "18.00"))
		return doc
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate(ctx))
	})

	t.Run("missing supplier", func(t *testing.T) {
		doc := valid()
		doc.SupplierID = id.Nil()
		err := doc.Validate(ctx)
		require.Error(t, err)
		assert.True(t, apperror.IsAppError(err))
	})

	t.Run("no lines", func(t *testing.T) {
		doc := NewPurchaseInvoice(id.New())
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("missing item", func(t *testing.T) {
		doc := valid()
		doc.Lines[0].ItemID = id.Nil()
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("zero quantity", func(t *testing.T) {
		doc := valid()
		doc.Lines[0].Quantity = decimal.Zero
		assert.Error(t, doc.Validate(ctx))
	})

	t.Run("negative price", func(t *testing.T) {
		doc := valid()
		doc.Lines[0].PurchasePrice = types.MustMoney("-1.00")
		assert.Error(t, doc.Validate(ctx))
	})
}
