package catalog_repo

import (
	"ledgerbook/internal/domain/catalogs/godown"
	"ledgerbook/internal/infrastructure/storage/postgres"
)

const godownTable = "cat_godowns"

// GodownRepo implements godown.Repository.
type GodownRepo struct {
	*BaseCatalogRepo[*godown.Godown]
}

// NewGodownRepo creates a new godown repository.
func NewGodownRepo(txManager *postgres.TxManager) *GodownRepo {
	return &GodownRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			godownTable,
			postgres.ExtractDBColumns[godown.Godown](),
			func() *godown.Godown { return &godown.Godown{} },
		),
	}
}
