package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ledgerbook/internal/core/entity"
	"ledgerbook/internal/core/id"
)

type mockCatalog struct {
	entity.Catalog
	Category string `db:"category" json:"category"`
	Internal string `db:"-" json:"-"`
}

func TestExtractDBColumns(t *testing.T) {
	cols := ExtractDBColumns[mockCatalog]()

	expected := []string{"id", "deletion_mark", "version", "code", "name", "category"}
	for _, col := range expected {
		assert.Contains(t, cols, col)
	}
	assert.NotContains(t, cols, "-")
	assert.Len(t, cols, len(expected))
}

func TestStructToMap(t *testing.T) {
	cat := mockCatalog{
		Catalog:  entity.NewCatalog("ITM-00042", "SSD 1TB"),
		Category: "Storage",
		Internal: "ignored",
	}
	cat.Version = 5
	cat.DeletionMark = true

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "ITM-00042", m["code"])
	assert.Equal(t, "SSD 1TB", m["name"])
	assert.Equal(t, "Storage", m["category"])
	assert.NotContains(t, m, "Internal")
}

func TestStructToMap_Pointer(t *testing.T) {
	cat := &mockCatalog{Catalog: entity.NewCatalog("", "X")}
	m := StructToMap(cat)
	assert.Equal(t, "X", m["name"])
	assert.IsType(t, id.New(), m["id"])
}
