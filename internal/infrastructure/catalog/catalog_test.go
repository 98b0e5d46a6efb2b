package catalog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartsave/freshness/internal/domain"
)

func TestLoad_EmbeddedSample(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12, c.Len())

	items := c.All()
	assert.Equal(t, "PRD-BAN-001", items[0].SKU)
	assert.Equal(t, domain.CategoryFruits, items[0].Category)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), items[0].ReceivedDate)
	assert.Equal(t, []string{"banana", "bananas"}, items[0].Keywords)

	for _, item := range items {
		assert.True(t, item.Category.IsValid(), item.SKU)
		assert.Greater(t, item.OriginalPrice, 0.0, item.SKU)
		assert.False(t, item.ExpiryDate.Before(item.ReceivedDate), item.SKU)
		assert.NotEmpty(t, item.Keywords, item.SKU)
	}
}

func TestFindBySKU(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	item, ok := c.FindBySKU("DRY-MLK-003")
	require.True(t, ok)
	assert.Equal(t, "Dairy Cooler", item.Location)

	item.Name = "changed"
	again, _ := c.FindBySKU("DRY-MLK-003")
	assert.NotEqual(t, "changed", again.Name)

	_, ok = c.FindBySKU("NOPE")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	items := c.All()
	items[0].Name = "changed"
	assert.NotEqual(t, "changed", c.All()[0].Name)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
items:
  - name: Kale Bunch
    category: Vegetables
    quantity: 10
    location: Produce Cooler
    original_price: 2.5
    sku: KALE-1
    keywords: [" Kale "]
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())

	item := c.All()[0]
	assert.Equal(t, domain.CategoryVegetables, item.Category)
	assert.Equal(t, []string{"kale"}, item.Keywords)
	assert.True(t, item.ReceivedDate.IsZero())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad yaml", "items: [:"},
		{"missing name", "items:\n  - {sku: A, category: fruits, original_price: 1, keywords: [a]}"},
		{"missing sku", "items:\n  - {name: A, category: fruits, original_price: 1, keywords: [a]}"},
		{"bad category", "items:\n  - {name: A, sku: A, category: toys, original_price: 1, keywords: [a]}"},
		{"negative quantity", "items:\n  - {name: A, sku: A, category: fruits, quantity: -1, original_price: 1, keywords: [a]}"},
		{"zero price", "items:\n  - {name: A, sku: A, category: fruits, original_price: 0, keywords: [a]}"},
		{"no keywords", "items:\n  - {name: A, sku: A, category: fruits, original_price: 1}"},
		{"bad date", "items:\n  - {name: A, sku: A, category: fruits, original_price: 1, keywords: [a], expiry_date: 06/01/2025}"},
		{"duplicate sku", "items:\n  - {name: A, sku: A, category: fruits, original_price: 1, keywords: [a]}\n  - {name: B, sku: A, category: fruits, original_price: 1, keywords: [b]}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
