package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smartsave/freshness/internal/domain"
)

const dateLayout = "2006-01-02"

//go:embed sample_inventory.yaml
var sampleInventory []byte

// itemRecord is the YAML shape of an inventory item
type itemRecord struct {
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Quantity      int      `yaml:"quantity"`
	Location      string   `yaml:"location"`
	OriginalPrice float64  `yaml:"original_price"`
	SKU           string   `yaml:"sku"`
	Supplier      string   `yaml:"supplier"`
	ReceivedDate  string   `yaml:"received_date"`
	ExpiryDate    string   `yaml:"expiry_date"`
	Keywords      []string `yaml:"keywords"`
}

type document struct {
	Items []itemRecord `yaml:"items"`
}

// Catalog is a read-only inventory loaded once at startup. It is safe for
// concurrent use because nothing mutates it after loading.
type Catalog struct {
	items []domain.InventoryItem
	bySKU map[string]int
}

// Load reads the inventory at path, or the embedded sample when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(sampleInventory)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML inventory document
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	c := &Catalog{
		items: make([]domain.InventoryItem, 0, len(doc.Items)),
		bySKU: make(map[string]int, len(doc.Items)),
	}

	for i, rec := range doc.Items {
		item, err := rec.toItem()
		if err != nil {
			return nil, fmt.Errorf("catalog item %d (%s): %w", i, rec.SKU, err)
		}
		if _, dup := c.bySKU[item.SKU]; dup {
			return nil, fmt.Errorf("catalog item %d: duplicate SKU %s", i, item.SKU)
		}
		c.bySKU[item.SKU] = len(c.items)
		c.items = append(c.items, item)
	}

	return c, nil
}

func (r itemRecord) toItem() (domain.InventoryItem, error) {
	category := domain.Category(strings.ToLower(strings.TrimSpace(r.Category)))

	switch {
	case strings.TrimSpace(r.Name) == "":
		return domain.InventoryItem{}, fmt.Errorf("name is required")
	case strings.TrimSpace(r.SKU) == "":
		return domain.InventoryItem{}, fmt.Errorf("sku is required")
	case !category.IsValid():
		return domain.InventoryItem{}, fmt.Errorf("unknown category %q", r.Category)
	case r.Quantity < 0:
		return domain.InventoryItem{}, fmt.Errorf("quantity must not be negative")
	case r.OriginalPrice <= 0:
		return domain.InventoryItem{}, fmt.Errorf("original price must be positive")
	case len(r.Keywords) == 0:
		return domain.InventoryItem{}, fmt.Errorf("at least one keyword is required")
	}

	received, err := parseDate(r.ReceivedDate)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("received_date: %w", err)
	}
	expiry, err := parseDate(r.ExpiryDate)
	if err != nil {
		return domain.InventoryItem{}, fmt.Errorf("expiry_date: %w", err)
	}

	keywords := make([]string, 0, len(r.Keywords))
	for _, kw := range r.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			keywords = append(keywords, kw)
		}
	}

	return domain.InventoryItem{
		Name:          strings.TrimSpace(r.Name),
		Category:      category,
		Quantity:      r.Quantity,
		Location:      strings.TrimSpace(r.Location),
		OriginalPrice: r.OriginalPrice,
		SKU:           strings.TrimSpace(r.SKU),
		Supplier:      strings.TrimSpace(r.Supplier),
		ReceivedDate:  received,
		ExpiryDate:    expiry,
		Keywords:      keywords,
	}, nil
}

// parseDate accepts an empty value as an unknown date
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}

// All returns the items in declaration order. The slice is a copy.
func (c *Catalog) All() []domain.InventoryItem {
	out := make([]domain.InventoryItem, len(c.items))
	copy(out, c.items)
	return out
}

// FindBySKU looks up an item by its SKU
func (c *Catalog) FindBySKU(sku string) (*domain.InventoryItem, bool) {
	i, ok := c.bySKU[strings.TrimSpace(sku)]
	if !ok {
		return nil, false
	}
	item := c.items[i]
	return &item, true
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.items)
}
