package inventory

import (
	"context"
	"fmt"
	"time"

	"ledgerbook/internal/core/apperror"
	"ledgerbook/internal/core/id"
	"ledgerbook/internal/core/tx"
	"ledgerbook/internal/core/types"
	"ledgerbook/internal/domain/catalogs/item"
	"ledgerbook/internal/domain/ledger"
	"ledgerbook/pkg/logger"
	"ledgerbook/pkg/numerator"
)

// Service provides serial lifecycle operations and the assembly builder.
type Service struct {
	repo      Repository
	items     item.Repository
	engine    *ledger.Engine
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates an inventory service.
func NewService(
	repo Repository,
	items item.Repository,
	engine *ledger.Engine,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		items:     items,
		engine:    engine,
		numerator: gen,
		txManager: txManager,
	}
}

// GetByID retrieves a serial by ID.
func (s *Service) GetByID(ctx context.Context, serialID id.ID) (*Serial, error) {
	return s.repo.GetByID(ctx, serialID)
}

// GetBySerialNumber retrieves a serial by its unique number.
func (s *Service) GetBySerialNumber(ctx context.Context, serialNumber string) (*Serial, error) {
	return s.repo.GetBySerialNumber(ctx, serialNumber)
}

// AvailableForItem retrieves IN_STOCK serials of an item.
func (s *Service) AvailableForItem(ctx context.Context, itemID id.ID) ([]*Serial, error) {
	return s.repo.AvailableForItem(ctx, itemID)
}

// InStockComponents retrieves components available for assembly.
func (s *Service) InStockComponents(ctx context.Context) ([]*Component, error) {
	return s.repo.InStockComponents(ctx)
}

// Search finds serials by partial serial number.
func (s *Service) Search(ctx context.Context, term string, limit int) ([]*Serial, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.Search(ctx, term, limit)
}

// Build assembles a new serialized unit from in-stock components.
//
// The components move to CONSUMED, a fresh serial is created IN_STOCK
// for the assembled item, and the component cost rolls up into the
// assembled item's purchase price. The cost transfer is recorded in
// the ledger as an ASSEMBLY transaction so the audit trail survives.
func (s *Service) Build(ctx context.Context, input BuildInput) (*Serial, error) {
	if err := input.Validate(ctx); err != nil {
		return nil, err
	}

	// Resolve components and roll up cost before touching anything.
	totalCost := types.Zero()
	components := make([]*Serial, 0, len(input.ComponentSerialIDs))
	for _, serialID := range input.ComponentSerialIDs {
		serial, err := s.repo.GetByID(ctx, serialID)
		if err != nil {
			return nil, err
		}
		if serial.Status != StatusInStock {
			return nil, apperror.NewSerialNotAvailable(serialID.String())
		}

		it, err := s.items.GetByID(ctx, serial.ItemID)
		if err != nil {
			return nil, fmt.Errorf("resolve component item: %w", err)
		}
		totalCost = totalCost.Add(it.PurchasePrice)
		components = append(components, serial)
	}

	assembledItem, err := s.ensureAssembledItem(ctx, input.Name, totalCost, input.SellingPrice)
	if err != nil {
		return nil, err
	}

	serialNumber, err := s.numerator.GetNextNumber(ctx,
		numerator.DefaultConfig("ASM"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate assembly serial: %w", err)
	}

	assembled := NewSerial(assembledItem.ID, serialNumber, input.GodownID, nil)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, assembled); err != nil {
			return fmt.Errorf("create assembled serial: %w", err)
		}

		for _, comp := range components {
			if err := s.repo.MarkConsumed(ctx, comp.ID, assembled.ID); err != nil {
				return err
			}
		}

		if totalCost.IsPositive() {
			_, err := s.engine.Post(ctx, ledger.PostInput{
				Date:        time.Now().UTC(),
				Type:        ledger.TxnTypeAssembly,
				Description: fmt.Sprintf("Assembly %s (%s)", input.Name, serialNumber),
				ReferenceID: &assembled.ID,
				Entries: []ledger.EntryInput{
					ledger.Debit(ledger.AccountInventory, totalCost),
					ledger.Credit(ledger.AccountInventory, totalCost),
				},
			})
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "assembly built",
		"serial", serialNumber,
		"components", len(components),
		"cost", totalCost.StringFixed(2))

	return assembled, nil
}

// ensureAssembledItem finds the assembled item by name or creates it,
// setting its purchase price to the rolled-up component cost.
func (s *Service) ensureAssembledItem(ctx context.Context, name string, cost, sellingPrice types.Money) (*item.Item, error) {
	existing, err := s.items.FindByName(ctx, name)
	if err == nil {
		existing.PurchasePrice = cost
		if sellingPrice.IsPositive() {
			existing.SellingPrice = sellingPrice
		}
		if uerr := s.items.Update(ctx, existing); uerr != nil {
			return nil, fmt.Errorf("update assembled item: %w", uerr)
		}
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	code, err := s.numerator.GetNextNumber(ctx,
		numerator.DefaultConfig("ITM"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate item code: %w", err)
	}

	it := item.NewItem(code, name)
	it.PurchasePrice = cost
	it.SellingPrice = sellingPrice
	it.IsSerialized = true
	it.IsAssembled = true

	if err := s.items.Create(ctx, it); err != nil {
		return nil, fmt.Errorf("create assembled item: %w", err)
	}
	return it, nil
}
