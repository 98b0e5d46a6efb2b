package domain

import "time"

// Category is one of the fixed product categories of the sample inventory
type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategoryMeat       Category = "meat"
	CategoryBakery     Category = "bakery"
)

// IsValid reports whether c is a known category
func (c Category) IsValid() bool {
	switch c {
	case CategoryFruits, CategoryVegetables, CategoryDairy, CategoryMeat, CategoryBakery:
		return true
	}
	return false
}

// InventoryItem is a catalog record. Items are reference data and are never
// mutated after the catalog is loaded.
type InventoryItem struct {
	Name          string    `json:"name"`
	Category      Category  `json:"category"`
	Quantity      int       `json:"quantity"`
	Location      string    `json:"location"`
	OriginalPrice float64   `json:"originalPrice"`
	SKU           string    `json:"sku"`
	Supplier      string    `json:"supplier"`
	ReceivedDate  time.Time `json:"receivedDate"`
	ExpiryDate    time.Time `json:"expiryDate"`
	Keywords      []string  `json:"keywords"`
}

// ManualEntry holds the product fields a caller fills in by hand when
// detection cannot identify the item. Empty fields are treated as unknown.
type ManualEntry struct {
	ProductName      string   `json:"productName,omitempty"`
	Category         Category `json:"category,omitempty"`
	Quantity         *int     `json:"quantity,omitempty"`
	Location         string   `json:"location,omitempty"`
	OriginalPrice    *float64 `json:"originalPrice,omitempty"`
	SKU              string   `json:"sku,omitempty"`
	Supplier         string   `json:"supplier,omitempty"`
	ReceivedDate     string   `json:"receivedDate,omitempty"` // YYYY-MM-DD
	ExpiryDate       string   `json:"expiryDate,omitempty"`   // YYYY-MM-DD
	Observations     string   `json:"observations,omitempty"`
	StorageCondition string   `json:"storageCondition,omitempty"`
}
